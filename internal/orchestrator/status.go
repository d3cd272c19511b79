package orchestrator

import (
	"sort"

	"arena-fleet/internal/console"
	"arena-fleet/internal/fleet"
	"arena-fleet/internal/superagent"
)

type WalletView struct {
	ID           string  `json:"id"`
	OwnerKey     string  `json:"owner_key"`
	Address      string  `json:"address"`
	Balance      float64 `json:"balance"`
	DailyTxCount int     `json:"daily_tx_count"`
}

type BotView struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	OwnerProfileID      string         `json:"owner_profile_id,omitempty"`
	Duty                fleet.Duty     `json:"duty"`
	PatrolSection       int            `json:"patrol_section"`
	WalletID            string         `json:"wallet_id"`
	ManagedBySuperAgent bool           `json:"managed_by_super_agent"`
	Behavior            fleet.Behavior `json:"behavior"`
}

type LockView struct {
	ChallengeID        string  `json:"challenge_id"`
	ChallengerWalletID string  `json:"challenger_wallet_id"`
	OpponentWalletID   string  `json:"opponent_wallet_id"`
	Amount             float64 `json:"amount"`
}

// StatusView is the read-only dashboard aggregate. Key material never
// appears here.
type StatusView struct {
	SuperAgent      superagent.Config     `json:"super_agent"`
	FleetTarget     int                   `json:"fleet_target"`
	BotCount        int                   `json:"bot_count"`
	BackgroundCount int                   `json:"background_count"`
	WalletCount     int                   `json:"wallet_count"`
	OpenLocks       int                   `json:"open_locks"`
	Bots            []BotView             `json:"bots"`
	Wallets         []WalletView          `json:"wallets"`
	Locks           []LockView            `json:"locks"`
	Memory          []console.MemoryEntry `json:"memory"`
	Usage           console.UsageSnapshot `json:"usage"`
}

func (o *Orchestrator) Status() StatusView {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := StatusView{
		SuperAgent:      o.super,
		FleetTarget:     o.fleetTarget,
		BackgroundCount: len(o.registry.Background()),
		Memory:          o.memory.Entries(),
		Usage:           o.usage.Snapshot(),
	}
	for _, b := range o.registry.All() {
		s.Bots = append(s.Bots, BotView{
			ID:                  b.ID,
			Name:                b.Name,
			OwnerProfileID:      b.OwnerProfileID,
			Duty:                b.Duty,
			PatrolSection:       b.PatrolSection,
			WalletID:            b.WalletID,
			ManagedBySuperAgent: b.ManagedBySuperAgent,
			Behavior:            b.Behavior(),
		})
	}
	sort.Slice(s.Bots, func(i, j int) bool { return s.Bots[i].ID < s.Bots[j].ID })
	for _, w := range o.ledger.All() {
		s.Wallets = append(s.Wallets, WalletView{
			ID:           w.ID,
			OwnerKey:     w.OwnerKey,
			Address:      w.Address,
			Balance:      w.Balance,
			DailyTxCount: w.DailyTxCount,
		})
	}
	sort.Slice(s.Wallets, func(i, j int) bool { return s.Wallets[i].ID < s.Wallets[j].ID })
	for _, lk := range o.escrow.All() {
		s.Locks = append(s.Locks, LockView{
			ChallengeID:        lk.ChallengeID,
			ChallengerWalletID: lk.ChallengerWalletID,
			OpponentWalletID:   lk.OpponentWalletID,
			Amount:             lk.Amount,
		})
	}
	sort.Slice(s.Locks, func(i, j int) bool { return s.Locks[i].ChallengeID < s.Locks[j].ChallengeID })
	s.BotCount = len(s.Bots)
	s.WalletCount = len(s.Wallets)
	s.OpenLocks = len(s.Locks)
	return s
}
