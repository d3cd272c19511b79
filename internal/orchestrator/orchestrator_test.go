package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arena-fleet/internal/config"
	"arena-fleet/internal/escrow"
	"arena-fleet/internal/fleet"
	"arena-fleet/internal/superagent"
	"arena-fleet/internal/wallet"
)

const testSecretHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testConfig(t *testing.T) config.ServerConfig {
	t.Helper()
	return config.ServerConfig{
		WalletSecretHex:   testSecretHex,
		SnapshotPath:      filepath.Join(t.TempDir(), "state.json"),
		SnapshotDebounce:  10 * time.Millisecond,
		InitialBots:       4,
		SystemWalletFloor: 100,
		UserWalletFloor:   50,
	}
}

func newTestOrchestrator(t *testing.T, cfg config.ServerConfig) *Orchestrator {
	t.Helper()
	keys, err := wallet.NewKeyring(cfg.WalletSecretHex)
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}
	o := New(cfg, keys)
	if err := o.Boot(); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

func TestBootColdStartBuildsFleet(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))

	s := o.Status()
	if s.BackgroundCount != 4 {
		t.Fatalf("background = %d, want 4", s.BackgroundCount)
	}
	// 4 background + 1 super bot.
	if s.BotCount != 5 {
		t.Fatalf("bots = %d, want 5", s.BotCount)
	}
	found := false
	for _, b := range s.Bots {
		if b.Duty == fleet.DutySuper {
			found = true
		}
	}
	if !found {
		t.Fatal("no super agent bot after boot")
	}
}

func TestEscrowLifecycleThroughControlPlane(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))
	p := o.SuperConfig().Wallet
	p.MaxBetPercent = 100
	if _, err := o.PatchSuperConfig(superagent.Patch{Wallet: &p}); err != nil {
		t.Fatalf("PatchSuperConfig() error = %v", err)
	}

	pa, err := o.CreateProfile("alice", "")
	if err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	pb, err := o.CreateProfile("bob", "")
	if err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}

	if _, err := o.EscrowLock("c1", pa.WalletID, pb.WalletID, 10); err != nil {
		t.Fatalf("EscrowLock() error = %v", err)
	}
	payout, fee, err := o.EscrowResolve("c1", pa.WalletID, 500)
	if err != nil {
		t.Fatalf("EscrowResolve() error = %v", err)
	}
	if payout != 19 || fee != 1 {
		t.Fatalf("payout/fee = %v/%v, want 19/1", payout, fee)
	}
	if _, _, err := o.EscrowResolve("c1", pa.WalletID, 500); !errors.Is(err, escrow.ErrLockNotFound) {
		t.Fatalf("second resolve error = %v, want ErrLockNotFound", err)
	}
}

func TestProvisionSubjectIsIdempotent(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))

	first, created, err := o.ProvisionSubject("auth0|123", "carol", "Carol")
	if err != nil {
		t.Fatalf("ProvisionSubject() error = %v", err)
	}
	if !created {
		t.Fatal("first provision should create")
	}
	second, created, err := o.ProvisionSubject("auth0|123", "", "")
	if err != nil {
		t.Fatalf("ProvisionSubject() repeat error = %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("repeat provision created a new profile: %+v", second)
	}
	if len(first.BotIDs) != 1 || first.WalletID == "" {
		t.Fatalf("bundle incomplete: %+v", first)
	}
}

func TestPatchBotOnlyAffectsTarget(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))
	s := o.Status()
	target := s.Bots[0]

	cooldown := 42000
	next, err := o.PatchBot(target.ID, fleet.BehaviorPatch{CooldownMs: &cooldown})
	if err != nil {
		t.Fatalf("PatchBot() error = %v", err)
	}
	if next.CooldownMs != 42000 {
		t.Fatalf("cooldown = %d, want 42000", next.CooldownMs)
	}
	if _, err := o.PatchBot("bot_missing", fleet.BehaviorPatch{}); !errors.Is(err, fleet.ErrBotNotFound) {
		t.Fatalf("error = %v, want ErrBotNotFound", err)
	}
}

func TestDelegationRespectsManagedFlagAndBaselines(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))
	mode := superagent.ModeHunter
	if _, err := o.PatchSuperConfig(superagent.Patch{Mode: &mode}); err != nil {
		t.Fatalf("PatchSuperConfig() error = %v", err)
	}
	o.ApplyDelegation()

	s := o.Status()
	for _, b := range s.Bots {
		if b.Duty == fleet.DutySuper {
			continue
		}
		if !b.ManagedBySuperAgent {
			continue
		}
		baseline := fleet.DutyBaseline(b.Duty)
		// Wager ranges survive the mode change; personality is directed.
		if b.Behavior.MinWager != baseline.MinWager || b.Behavior.MaxWager != baseline.MaxWager {
			t.Fatalf("bot %s wager range overwritten: %+v", b.ID, b.Behavior)
		}
		if b.Behavior.Personality != superagent.PersonalityAggressive && b.Behavior.Personality != superagent.PersonalitySocial {
			t.Fatalf("bot %s personality %q not from hunter set", b.ID, b.Behavior.Personality)
		}
	}
}

func TestWalletToggleGatesLedger(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))
	p, _ := o.CreateProfile("dave", "")

	res := o.Chat(context.Background(), "disable wallet")
	if len(res.Actions) != 1 {
		t.Fatalf("actions = %+v", res.Actions)
	}
	if _, err := o.Fund(p.WalletID, 10); !errors.Is(err, wallet.ErrPolicyDisabled) {
		t.Fatalf("Fund error = %v, want ErrPolicyDisabled", err)
	}

	o.Chat(context.Background(), "enable wallet")
	if _, err := o.Fund(p.WalletID, 10); err != nil {
		t.Fatalf("Fund after enable error = %v", err)
	}
}

func TestChatReconcileAndMemory(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(t))

	res := o.Chat(context.Background(), "reconcile 6 bots")
	if !strings.Contains(res.Reply, "6 background bots") {
		t.Fatalf("reply = %q", res.Reply)
	}
	s := o.Status()
	if s.BackgroundCount != 6 {
		t.Fatalf("background = %d, want 6", s.BackgroundCount)
	}
	if len(s.Memory) == 0 {
		t.Fatal("memory log empty after applied action")
	}

	res = o.Chat(context.Background(), "gibberish with no commands")
	if len(res.Actions) != 0 || !strings.Contains(res.Reply, "No recognized commands") {
		t.Fatalf("unexpected result for gibberish: %+v", res)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	o := newTestOrchestrator(t, cfg)

	p, _ := o.CreateProfile("erin", "Erin")
	if _, err := o.Fund(p.WalletID, 25); err != nil {
		t.Fatalf("Fund() error = %v", err)
	}
	o.ReconcileFleet(2)
	mode := superagent.ModeDefensive
	if _, err := o.PatchSuperConfig(superagent.Patch{Mode: &mode}); err != nil {
		t.Fatalf("PatchSuperConfig() error = %v", err)
	}
	o.Close()

	// Same snapshot path, fresh process.
	o2 := newTestOrchestrator(t, cfg)
	s := o2.Status()
	if s.SuperAgent.Mode != superagent.ModeDefensive {
		t.Fatalf("mode = %s, want defensive", s.SuperAgent.Mode)
	}
	if s.BackgroundCount != 2 {
		t.Fatalf("background after restore = %d, want 2", s.BackgroundCount)
	}
	restored, ok := func() (*WalletView, bool) {
		for i := range s.Wallets {
			if s.Wallets[i].OwnerKey == p.ID {
				return &s.Wallets[i], true
			}
		}
		return nil, false
	}()
	if !ok {
		t.Fatal("profile wallet lost across restart")
	}
	if restored.Balance != 75 {
		t.Fatalf("balance = %v, want 75 (50 seed + 25 fund)", restored.Balance)
	}

	// Round-trip again: equivalent snapshot.
	snap := o2.BuildSnapshot()
	if len(snap.Profiles) != 1 || len(snap.Wallets) != len(s.Wallets) {
		t.Fatalf("second snapshot diverged: %d profiles, %d wallets", len(snap.Profiles), len(snap.Wallets))
	}
}

func TestEscrowLockSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	o := newTestOrchestrator(t, cfg)
	p := o.SuperConfig().Wallet
	p.MaxBetPercent = 100
	_, _ = o.PatchSuperConfig(superagent.Patch{Wallet: &p})
	pa, _ := o.CreateProfile("fred", "")
	pb, _ := o.CreateProfile("gina", "")
	if _, err := o.EscrowLock("c9", pa.WalletID, pb.WalletID, 10); err != nil {
		t.Fatalf("EscrowLock() error = %v", err)
	}
	o.Close()

	o2 := newTestOrchestrator(t, cfg)
	if err := o2.EscrowRefund("c9"); err != nil {
		t.Fatalf("EscrowRefund() after restart error = %v", err)
	}
}
