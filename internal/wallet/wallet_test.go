package wallet

import (
	"errors"
	"math"
	"testing"
	"time"
)

const testSecretHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	keys, err := NewKeyring(testSecretHex)
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}
	return NewLedger(keys)
}

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	l := newTestLedger(t)

	w1, err := l.GetOrCreate("system_bg_1")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if w1.Address == "" || w1.EncPrivKey == "" {
		t.Fatalf("wallet missing key material: %+v", w1)
	}
	w2, err := l.GetOrCreate("system_bg_1")
	if err != nil {
		t.Fatalf("GetOrCreate() second call error = %v", err)
	}
	if w1.ID != w2.ID {
		t.Fatalf("second GetOrCreate returned a new wallet: %s vs %s", w1.ID, w2.ID)
	}
}

func TestFundWithdrawTransfer(t *testing.T) {
	l := newTestLedger(t)
	a, _ := l.GetOrCreate("prof_a")
	b, _ := l.GetOrCreate("prof_b")

	if _, err := l.Fund(a.ID, 100); err != nil {
		t.Fatalf("Fund() error = %v", err)
	}
	if _, err := l.Withdraw(a.ID, 30); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if err := l.Transfer(a.ID, b.ID, 50); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if a.Balance != 20 || b.Balance != 50 {
		t.Fatalf("balances = %v / %v, want 20 / 50", a.Balance, b.Balance)
	}
	if a.DailyTxCount != 3 || b.DailyTxCount != 1 {
		t.Fatalf("daily counts = %d / %d, want 3 / 1", a.DailyTxCount, b.DailyTxCount)
	}
}

func TestMutationValidation(t *testing.T) {
	l := newTestLedger(t)
	a, _ := l.GetOrCreate("prof_a")

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"fund zero", func() error { _, err := l.Fund(a.ID, 0); return err }, ErrInvalidAmount},
		{"fund negative", func() error { _, err := l.Fund(a.ID, -5); return err }, ErrInvalidAmount},
		{"fund NaN", func() error { _, err := l.Fund(a.ID, math.NaN()); return err }, ErrInvalidAmount},
		{"fund infinite", func() error { _, err := l.Fund(a.ID, math.Inf(1)); return err }, ErrInvalidAmount},
		{"withdraw NaN", func() error { _, err := l.Withdraw(a.ID, math.NaN()); return err }, ErrInvalidAmount},
		{"transfer NaN", func() error { return l.Transfer(a.ID, a.ID, math.NaN()) }, ErrInvalidAmount},
		{"withdraw unknown wallet", func() error { _, err := l.Withdraw("wal_nope", 5); return err }, ErrWalletNotFound},
		{"withdraw beyond balance", func() error { _, err := l.Withdraw(a.ID, 5); return err }, ErrInsufficientBalance},
		{"transfer beyond balance", func() error { return l.Transfer(a.ID, a.ID, 5) }, ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if a.Balance != 0 || math.IsNaN(a.Balance) {
		t.Fatalf("failed ops mutated balance: %v", a.Balance)
	}
}

func TestUndoDebitIsCounterNeutral(t *testing.T) {
	l := newTestLedger(t)
	a, _ := l.GetOrCreate("prof_a")
	if _, err := l.Fund(a.ID, 100); err != nil {
		t.Fatalf("Fund() error = %v", err)
	}
	before := a.DailyTxCount

	if err := l.Debit(a.ID, 40); err != nil {
		t.Fatalf("Debit() error = %v", err)
	}
	l.UndoDebit(a.ID, 40)

	if a.Balance != 100 {
		t.Fatalf("balance = %v, want 100", a.Balance)
	}
	if a.DailyTxCount != before {
		t.Fatalf("daily count = %d, want %d (debit+undo must net zero)", a.DailyTxCount, before)
	}
}

func TestDailyLimitAndRollover(t *testing.T) {
	l := newTestLedger(t)
	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return day1 })

	w, _ := l.GetOrCreate("prof_a")
	p := l.Policy()
	p.MaxDailyTx = 2
	l.SetPolicy(p)

	for i := 0; i < 2; i++ {
		if _, err := l.Fund(w.ID, 1); err != nil {
			t.Fatalf("Fund() #%d error = %v", i, err)
		}
	}
	if _, err := l.Fund(w.ID, 1); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("error = %v, want ErrDailyLimitReached", err)
	}

	// Counter resets exactly once after the day-stamp rolls over.
	l.SetClock(func() time.Time { return day1.Add(24 * time.Hour) })
	if _, err := l.Fund(w.ID, 1); err != nil {
		t.Fatalf("Fund() after rollover error = %v", err)
	}
	if w.DailyTxCount != 1 {
		t.Fatalf("DailyTxCount = %d after rollover, want 1", w.DailyTxCount)
	}
}

func TestPolicyDisabledGatesEverything(t *testing.T) {
	l := newTestLedger(t)
	w, _ := l.GetOrCreate("prof_a")
	p := l.Policy()
	p.Enabled = false
	l.SetPolicy(p)

	if _, err := l.Fund(w.ID, 10); !errors.Is(err, ErrPolicyDisabled) {
		t.Fatalf("Fund error = %v, want ErrPolicyDisabled", err)
	}
	if err := l.CanUse(w.ID); !errors.Is(err, ErrPolicyDisabled) {
		t.Fatalf("CanUse error = %v, want ErrPolicyDisabled", err)
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	l := newTestLedger(t)
	w, _ := l.GetOrCreate("prof_a")
	_, _ = l.Fund(w.ID, 10)

	ops := []func(){
		func() { _, _ = l.Withdraw(w.ID, 11) },
		func() { _ = l.Debit(w.ID, 100) },
		func() { _ = l.Transfer(w.ID, w.ID, 99) },
	}
	for _, op := range ops {
		op()
		if w.Balance < 0 {
			t.Fatalf("balance went negative: %v", w.Balance)
		}
	}
	if w.Balance != 10 {
		t.Fatalf("balance = %v, want untouched 10", w.Balance)
	}
}

func TestExportKeyRequiresOwner(t *testing.T) {
	l := newTestLedger(t)
	w, _ := l.GetOrCreate("prof_a")

	if _, err := l.ExportKey(w.ID, "prof_b"); !errors.Is(err, ErrNotWalletOwner) {
		t.Fatalf("error = %v, want ErrNotWalletOwner", err)
	}
	exp, err := l.ExportKey(w.ID, "prof_a")
	if err != nil {
		t.Fatalf("ExportKey() error = %v", err)
	}
	if !exp.Sensitive || len(exp.PrivateKey) < 10 {
		t.Fatalf("unexpected export: %+v", exp)
	}
}
