package fleet

import (
	"errors"
	"fmt"
	"time"

	"arena-fleet/internal/wallet"

	"github.com/rs/zerolog/log"
)

var ErrBotNotFound = errors.New("bot_not_found")

// Registry owns bot identity and each bot's live actor. Not goroutine safe:
// the orchestrator serializes all mutating calls.
type Registry struct {
	ledger *wallet.Ledger
	wsURL  string

	bots map[string]*Bot

	backgroundSeq uint64
	createdSeq    uint64

	systemFloor float64
	userFloor   float64

	now func() time.Time
}

func NewRegistry(ledger *wallet.Ledger, wsURL string, systemFloor, userFloor float64) *Registry {
	return &Registry{
		ledger:      ledger,
		wsURL:       wsURL,
		bots:        map[string]*Bot{},
		systemFloor: systemFloor,
		userFloor:   userFloor,
		now:         time.Now,
	}
}

func (r *Registry) Get(id string) (*Bot, bool) {
	b, ok := r.bots[id]
	return b, ok
}

func (r *Registry) All() []*Bot {
	out := make([]*Bot, 0, len(r.bots))
	for _, b := range r.bots {
		out = append(out, b)
	}
	return out
}

func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.bots))
	for id := range r.bots {
		out = append(out, id)
	}
	return out
}

func (r *Registry) BackgroundSeq() uint64     { return r.backgroundSeq }
func (r *Registry) SetBackgroundSeq(n uint64) { r.backgroundSeq = n }

type RegisterSpec struct {
	OwnerProfileID      string
	Name                string
	Duty                Duty
	PatrolSection       int
	ManagedBySuperAgent bool
}

// Register is an upsert: an existing id gets its live actor patched in
// place; a new id gets a provisioned wallet (seeded to the system or user
// floor) and a freshly started actor.
func (r *Registry) Register(id string, behavior Behavior, spec RegisterSpec) (*Bot, error) {
	if existing, ok := r.bots[id]; ok {
		existing.Name = spec.Name
		existing.Duty = spec.Duty
		existing.PatrolSection = spec.PatrolSection
		existing.ManagedBySuperAgent = spec.ManagedBySuperAgent
		existing.actor.Patch(behavior)
		return existing, nil
	}

	ownerKey := "system_" + id
	seed := r.systemFloor
	if spec.OwnerProfileID != "" {
		ownerKey = spec.OwnerProfileID
		seed = r.userFloor
	}
	w, ok := r.ledger.ByOwner(ownerKey)
	if !ok {
		var err error
		w, err = r.ledger.GetOrCreate(ownerKey)
		if err != nil {
			return nil, fmt.Errorf("provision wallet: %w", err)
		}
		if _, err := r.ledger.Fund(w.ID, seed); err != nil {
			log.Warn().Err(err).Str("wallet_id", w.ID).Msg("seed funding denied by policy")
		}
	}

	r.createdSeq++
	b := &Bot{
		ID:                  id,
		OwnerProfileID:      spec.OwnerProfileID,
		Name:                spec.Name,
		Duty:                spec.Duty,
		PatrolSection:       spec.PatrolSection,
		WalletID:            w.ID,
		ManagedBySuperAgent: spec.ManagedBySuperAgent,
		CreatedSeq:          r.createdSeq,
		CreatedAt:           r.now().UTC(),
	}
	b.actor = StartActor(r.wsURL, id, spec.Name, behavior)
	r.bots[id] = b
	return b, nil
}

// Remove stops the bot's actor and drops it from the registry. The wallet
// stays: wallets are never deleted.
func (r *Registry) Remove(id string) error {
	b, ok := r.bots[id]
	if !ok {
		return ErrBotNotFound
	}
	b.actor.Stop()
	delete(r.bots, id)
	return nil
}

func (r *Registry) StopAll() {
	for _, b := range r.bots {
		b.actor.Stop()
	}
}
