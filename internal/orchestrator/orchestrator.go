package orchestrator

import (
	"fmt"
	"sync"

	"arena-fleet/internal/config"
	"arena-fleet/internal/console"
	"arena-fleet/internal/escrow"
	"arena-fleet/internal/fleet"
	"arena-fleet/internal/ids"
	"arena-fleet/internal/persist"
	"arena-fleet/internal/profile"
	"arena-fleet/internal/superagent"
	"arena-fleet/internal/wallet"

	"github.com/rs/zerolog/log"
)

// Orchestrator is the in-process control plane. One mutex serializes every
// ledger- and registry-affecting operation: check-then-act sequences run to
// completion without interleaving, which is what the non-negative balance,
// idempotent lock, and single-resolution invariants rely on. Snapshot
// writes and advisory calls happen off this lock.
type Orchestrator struct {
	mu sync.Mutex

	cfg      config.ServerConfig
	ledger   *wallet.Ledger
	escrow   *escrow.Book
	registry *fleet.Registry
	profiles *profile.Directory
	super    superagent.Config
	memory   *console.MemoryLog
	usage    *console.Usage
	advisor  console.Advisor
	saver    *persist.Saver

	fleetTarget int
	profileSeq  uint64
	walletSeq   uint64
}

func New(cfg config.ServerConfig, keys *wallet.Keyring) *Orchestrator {
	ledger := wallet.NewLedger(keys)
	o := &Orchestrator{
		cfg:         cfg,
		ledger:      ledger,
		escrow:      escrow.NewBook(ledger),
		registry:    fleet.NewRegistry(ledger, cfg.GameServerWSURL, cfg.SystemWalletFloor, cfg.UserWalletFloor),
		profiles:    profile.NewDirectory(),
		super:       superagent.DefaultConfig(),
		memory:      console.NewMemoryLog(console.DefaultMemoryCap),
		usage:       console.NewUsage(),
		advisor:     console.NoopAdvisor{},
		fleetTarget: cfg.InitialBots,
	}
	o.ledger.SetPolicy(o.super.Wallet)
	o.saver = persist.NewSaver(cfg.SnapshotPath, cfg.SnapshotDebounce, o.BuildSnapshot)
	return o
}

func (o *Orchestrator) SetAdvisor(a console.Advisor) {
	if a != nil {
		o.advisor = a
	}
}

// Boot restores the snapshot (or cold-starts), guarantees the Super Agent
// bot, reconciles the background fleet, and starts the autosave loop.
func (o *Orchestrator) Boot() error {
	snap := persist.Load(o.cfg.SnapshotPath)
	o.mu.Lock()
	if snap != nil {
		o.restoreLocked(snap)
	}
	if _, err := o.registry.EnsureSuperAgent(o.super.BotID); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("ensure super agent: %w", err)
	}
	created, removed := o.registry.Reconcile(o.fleetTarget)
	target := o.fleetTarget
	o.mu.Unlock()

	o.applyDelegation()
	log.Info().Int("target", target).Int("created", created).Int("removed", removed).
		Bool("restored", snap != nil).Msg("fleet booted")
	o.saver.StartAutosave(o.cfg.AutosaveEvery)
	return nil
}

// Close stops background work, flushes the final snapshot, and stops every
// live actor.
func (o *Orchestrator) Close() {
	o.saver.Close()
	o.mu.Lock()
	o.registry.StopAll()
	o.mu.Unlock()
}

func (o *Orchestrator) scheduleSave() {
	o.saver.Schedule()
}

// --- wallet operations ---

func (o *Orchestrator) Fund(walletID string, amount float64) (float64, error) {
	o.mu.Lock()
	bal, err := o.ledger.Fund(walletID, amount)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return bal, err
}

func (o *Orchestrator) Withdraw(walletID string, amount float64) (float64, error) {
	o.mu.Lock()
	bal, err := o.ledger.Withdraw(walletID, amount)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return bal, err
}

func (o *Orchestrator) Transfer(fromID, toID string, amount float64) error {
	o.mu.Lock()
	err := o.ledger.Transfer(fromID, toID, amount)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return err
}

func (o *Orchestrator) ExportKey(walletID, profileID string) (*wallet.ExportedKey, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.profiles.Get(profileID); !ok {
		return nil, profile.ErrNotFound
	}
	return o.ledger.ExportKey(walletID, profileID)
}

// --- escrow operations ---

func (o *Orchestrator) EscrowLock(challengeID, challengerID, opponentID string, amount float64) (*escrow.Lock, error) {
	o.mu.Lock()
	lk, err := o.escrow.Lock(challengeID, challengerID, opponentID, amount)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return lk, err
}

func (o *Orchestrator) EscrowResolve(challengeID, winnerID string, feeBps int) (payout, fee float64, err error) {
	o.mu.Lock()
	payout, fee, err = o.escrow.Resolve(challengeID, winnerID, feeBps)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return payout, fee, err
}

func (o *Orchestrator) EscrowRefund(challengeID string) error {
	o.mu.Lock()
	err := o.escrow.Refund(challengeID)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return err
}

// --- fleet operations ---

func (o *Orchestrator) ReconcileFleet(target int) (created, removed, background int) {
	o.mu.Lock()
	created, removed = o.registry.Reconcile(target)
	background = len(o.registry.Background())
	o.fleetTarget = background
	o.mu.Unlock()

	o.applyDelegation()
	o.scheduleSave()
	return created, removed, background
}

func (o *Orchestrator) PatchBot(botID string, patch fleet.BehaviorPatch) (fleet.Behavior, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.registry.Get(botID)
	if !ok {
		return fleet.Behavior{}, fleet.ErrBotNotFound
	}
	next := patch.Apply(b.Behavior())
	b.Actor().Patch(next)
	o.scheduleSave()
	return next, nil
}

// --- super agent ---

func (o *Orchestrator) SuperConfig() superagent.Config {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.super
}

func (o *Orchestrator) PatchSuperConfig(p superagent.Patch) (superagent.Config, error) {
	o.mu.Lock()
	if err := o.super.Apply(p); err != nil {
		o.mu.Unlock()
		return superagent.Config{}, err
	}
	o.ledger.SetPolicy(o.super.Wallet)
	if _, err := o.registry.EnsureSuperAgent(o.super.BotID); err != nil {
		log.Warn().Err(err).Msg("ensure super agent after config patch failed")
	}
	cfg := o.super
	o.mu.Unlock()

	o.applyDelegation()
	o.scheduleSave()
	return cfg, nil
}

// ApplyDelegation translates the Super Agent policy into per-bot directives
// and applies them to every managed bot. Patching one bot never blocks the
// others.
func (o *Orchestrator) ApplyDelegation() int {
	n := o.applyDelegation()
	o.scheduleSave()
	return n
}

func (o *Orchestrator) applyDelegation() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	directives := superagent.BuildWorkerDirectives(o.super, o.registry.IDs())
	applied := 0
	for _, d := range directives {
		bot, ok := o.registry.Get(d.BotID)
		if !ok || !bot.ManagedBySuperAgent {
			continue
		}
		// Duty baseline first, directive fields on top. Wager ranges stay
		// duty-specific unless the directive sets them.
		next := fleet.DutyBaseline(bot.Duty)
		next.PatrolSection = bot.PatrolSection
		next.Personality = d.Personality
		next.CooldownMs = d.CooldownMs
		next.TargetPreference = d.TargetPreference
		next.ChallengesEnabled = d.ChallengesEnabled
		if d.MinWager != nil {
			next.MinWager = *d.MinWager
		}
		if d.MaxWager != nil {
			next.MaxWager = *d.MaxWager
		}
		bot.Actor().Patch(next)
		applied++
	}
	return applied
}

// --- profiles ---

func (o *Orchestrator) CreateProfile(username, displayName string) (*profile.Profile, error) {
	o.mu.Lock()
	p, err := o.createProfileLocked(username, displayName)
	o.mu.Unlock()
	if err == nil {
		o.scheduleSave()
	}
	return p, err
}

func (o *Orchestrator) createProfileLocked(username, displayName string) (*profile.Profile, error) {
	id := ids.Profile()
	w, err := o.ledger.GetOrCreate(id)
	if err != nil {
		return nil, err
	}
	o.walletSeq++
	if w.Balance < o.cfg.UserWalletFloor {
		if _, err := o.ledger.Fund(w.ID, o.cfg.UserWalletFloor-w.Balance); err != nil {
			log.Warn().Err(err).Str("wallet_id", w.ID).Msg("profile seed funding denied")
		}
	}
	p, err := o.profiles.Create(id, username, displayName, w.ID)
	if err != nil {
		return nil, err
	}
	o.profileSeq++

	botID := ids.Bot()
	bot, err := o.registry.Register(botID, fleet.DutyBaseline(fleet.DutyOwner), fleet.RegisterSpec{
		OwnerProfileID: p.ID,
		Name:           p.DisplayName,
		Duty:           fleet.DutyOwner,
	})
	if err != nil {
		return nil, err
	}
	_ = o.profiles.AttachBot(p.ID, bot.ID)
	return p, nil
}

// ProvisionSubject is the idempotent profile+wallet+bot bundle keyed by an
// external subject id.
func (o *Orchestrator) ProvisionSubject(subjectID, username, displayName string) (*profile.Profile, bool, error) {
	o.mu.Lock()
	if existing, ok := o.profiles.BySubject(subjectID); ok {
		o.mu.Unlock()
		return existing, false, nil
	}
	if username == "" {
		username = fmt.Sprintf("player_%d", o.profileSeq+1)
	}
	p, err := o.createProfileLocked(username, displayName)
	if err != nil {
		o.mu.Unlock()
		return nil, false, err
	}
	o.profiles.LinkSubject(subjectID, p.ID)
	o.mu.Unlock()

	o.scheduleSave()
	return p, true, nil
}
