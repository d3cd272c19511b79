package orchestrator

import (
	"time"

	"arena-fleet/internal/fleet"
	"arena-fleet/internal/persist"

	"github.com/rs/zerolog/log"
)

// BuildSnapshot captures the full process-wide state. Background bots are
// not persisted individually: boot rebuilds them by reconciling to the
// stored fleet target. Owner-attributed bots and the super bot carry their
// behavior so their actors restart with the same configuration.
func (o *Orchestrator) BuildSnapshot() persist.SnapshotV1 {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := persist.SnapshotV1{
		Version:     persist.SchemaVersion,
		SavedAt:     time.Now().UTC(),
		SuperAgent:  o.super,
		Memory:      o.memory.Entries(),
		Usage:       o.usage.Snapshot(),
		Subjects:    o.profiles.Subjects(),
		FleetTarget: o.fleetTarget,
		Counters: persist.CountersV1{
			NextProfile:    o.profileSeq,
			NextWallet:     o.walletSeq,
			NextBackground: o.registry.BackgroundSeq(),
		},
	}
	for _, p := range o.profiles.All() {
		snap.Profiles = append(snap.Profiles, *p)
	}
	for _, w := range o.ledger.All() {
		snap.Wallets = append(snap.Wallets, *w)
	}
	for _, lk := range o.escrow.All() {
		snap.Locks = append(snap.Locks, *lk)
	}
	for _, b := range o.registry.All() {
		if b.Background() {
			continue
		}
		snap.Bots = append(snap.Bots, persist.BotV1{Bot: *b, Behavior: b.Behavior()})
	}
	return snap
}

// restoreLocked rehydrates every map from the snapshot. Counters are
// restored as max(stored, current) so restarted processes never reuse ids.
// Bots are re-registered, which restarts their live actors; the caller
// reconciles the background fleet afterwards.
func (o *Orchestrator) restoreLocked(snap *persist.SnapshotV1) {
	o.ledger.Reset()
	o.escrow.Reset()
	o.profiles.Reset()
	o.memory.Reset()

	o.super = snap.SuperAgent
	o.ledger.SetPolicy(o.super.Wallet)
	o.memory.Restore(snap.Memory)
	o.usage.Restore(snap.Usage)

	for _, w := range snap.Wallets {
		o.ledger.Restore(w)
	}
	for _, lk := range snap.Locks {
		o.escrow.Restore(lk)
	}
	for _, p := range snap.Profiles {
		o.profiles.Restore(p, snap.Subjects)
	}
	for _, b := range snap.Bots {
		_, err := o.registry.Register(b.Bot.ID, b.Behavior, fleet.RegisterSpec{
			OwnerProfileID:      b.Bot.OwnerProfileID,
			Name:                b.Bot.Name,
			Duty:                b.Bot.Duty,
			PatrolSection:       b.Bot.PatrolSection,
			ManagedBySuperAgent: b.Bot.ManagedBySuperAgent,
		})
		if err != nil {
			log.Warn().Err(err).Str("bot_id", b.Bot.ID).Msg("restore bot failed")
		}
	}

	if snap.Counters.NextProfile > o.profileSeq {
		o.profileSeq = snap.Counters.NextProfile
	}
	if snap.Counters.NextWallet > o.walletSeq {
		o.walletSeq = snap.Counters.NextWallet
	}
	if snap.Counters.NextBackground > o.registry.BackgroundSeq() {
		o.registry.SetBackgroundSeq(snap.Counters.NextBackground)
	}
	if snap.FleetTarget >= 0 {
		o.fleetTarget = snap.FleetTarget
	}
}
