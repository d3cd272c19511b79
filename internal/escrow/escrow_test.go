package escrow

import (
	"errors"
	"math"
	"strings"
	"testing"

	"arena-fleet/internal/wallet"
)

const testSecretHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestBook(t *testing.T) (*Book, *wallet.Ledger, string, string) {
	t.Helper()
	keys, err := wallet.NewKeyring(testSecretHex)
	if err != nil {
		t.Fatalf("NewKeyring() error = %v", err)
	}
	l := wallet.NewLedger(keys)
	p := l.Policy()
	p.MaxBetPercent = 100
	l.SetPolicy(p)
	a, _ := l.GetOrCreate("prof_a")
	bW, _ := l.GetOrCreate("prof_b")
	if _, err := l.Fund(a.ID, 100); err != nil {
		t.Fatalf("fund a: %v", err)
	}
	if _, err := l.Fund(bW.ID, 100); err != nil {
		t.Fatalf("fund b: %v", err)
	}
	return NewBook(l), l, a.ID, bW.ID
}

func TestLockDebitsBothSides(t *testing.T) {
	b, l, wa, wb := newTestBook(t)

	lk, err := b.Lock("c1", wa, wb, 10)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if lk.Amount != 10 {
		t.Fatalf("Amount = %v, want 10", lk.Amount)
	}
	a, _ := l.Get(wa)
	bw, _ := l.Get(wb)
	if a.Balance != 90 || bw.Balance != 90 {
		t.Fatalf("balances = %v / %v, want 90 / 90", a.Balance, bw.Balance)
	}
}

func TestLockRejectsNonFiniteAmounts(t *testing.T) {
	b, l, wa, wb := newTestBook(t)

	for _, amount := range []float64{math.NaN(), math.Inf(1), 0, -5} {
		if _, err := b.Lock("c1", wa, wb, amount); !errors.Is(err, ErrInvalidLock) {
			t.Fatalf("Lock(%v) error = %v, want ErrInvalidLock", amount, err)
		}
	}
	a, _ := l.Get(wa)
	if a.Balance != 100 {
		t.Fatalf("rejected locks mutated balance: %v", a.Balance)
	}
}

func TestFailedLockRollbackDoesNotBurnDailyTx(t *testing.T) {
	b, l, wa, _ := newTestBook(t)
	a, _ := l.Get(wa)
	before := a.DailyTxCount

	// Both sides are the same wallet: each side check passes against the
	// full balance, the challenger debit lands, then the opponent debit
	// fails. The rollback must leave balance and daily count untouched.
	_, err := b.Lock("c_self", wa, wa, 60)
	if !errors.Is(err, wallet.ErrInsufficientBalance) {
		t.Fatalf("Lock() error = %v, want ErrInsufficientBalance", err)
	}
	if !strings.HasPrefix(err.Error(), "opponent:") {
		t.Fatalf("error = %v, want opponent-attributed", err)
	}
	if a.Balance != 100 {
		t.Fatalf("balance = %v, want 100", a.Balance)
	}
	if a.DailyTxCount != before {
		t.Fatalf("daily count = %d, want %d (denied lock must cost zero transactions)", a.DailyTxCount, before)
	}
}

func TestLockIsIdempotent(t *testing.T) {
	b, l, wa, wb := newTestBook(t)

	first, err := b.Lock("c1", wa, wb, 10)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	// Retry with a different amount still returns the stored lock and does
	// not double-debit.
	second, err := b.Lock("c1", wa, wb, 99)
	if err != nil {
		t.Fatalf("Lock() retry error = %v", err)
	}
	if second != first || second.Amount != 10 {
		t.Fatalf("retry returned %+v, want original lock amount 10", second)
	}
	a, _ := l.Get(wa)
	if a.Balance != 90 {
		t.Fatalf("balance = %v after retry, want 90", a.Balance)
	}
}

func TestLockSideDenials(t *testing.T) {
	b, l, wa, wb := newTestBook(t)
	p := l.Policy()
	p.MaxBetPercent = 5
	l.SetPolicy(p)

	_, err := b.Lock("c1", wa, wb, 10)
	if !errors.Is(err, ErrBetTooLarge) {
		t.Fatalf("error = %v, want ErrBetTooLarge", err)
	}
	if !strings.HasPrefix(err.Error(), "challenger:") {
		t.Fatalf("error %q not attributed to challenger side", err)
	}

	// Opponent-side denial after challenger passes.
	p.MaxBetPercent = 100
	l.SetPolicy(p)
	_, _ = l.Withdraw(wb, 95)
	_, err = b.Lock("c2", wa, wb, 10)
	if !errors.Is(err, ErrBetTooLarge) || !strings.HasPrefix(err.Error(), "opponent:") {
		t.Fatalf("error = %v, want opponent-side ErrBetTooLarge", err)
	}
	a, _ := l.Get(wa)
	if a.Balance != 100 {
		t.Fatalf("challenger debited on failed lock: %v", a.Balance)
	}
}

func TestResolvePayoutAndDoubleResolveGuard(t *testing.T) {
	b, l, wa, wb := newTestBook(t)

	if _, err := b.Lock("c1", wa, wb, 10); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	payout, fee, err := b.Resolve("c1", wa, 500)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if payout != 19 || fee != 1 {
		t.Fatalf("payout/fee = %v/%v, want 19/1", payout, fee)
	}
	if payout+fee != 20 {
		t.Fatalf("value created or destroyed: payout+fee = %v", payout+fee)
	}
	a, _ := l.Get(wa)
	if a.Balance != 109 {
		t.Fatalf("winner balance = %v, want 109", a.Balance)
	}

	if _, _, err := b.Resolve("c1", wa, 500); !errors.Is(err, ErrLockNotFound) {
		t.Fatalf("second Resolve error = %v, want ErrLockNotFound", err)
	}
	if a.Balance != 109 {
		t.Fatalf("double credit: balance = %v", a.Balance)
	}
}

func TestResolveRejectsOutsiders(t *testing.T) {
	b, _, wa, wb := newTestBook(t)
	if _, err := b.Lock("c1", wa, wb, 10); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, _, err := b.Resolve("c1", "wal_stranger", 0); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("error = %v, want ErrNotParticipant", err)
	}
}

func TestRefundRestoresStakesOnce(t *testing.T) {
	b, l, wa, wb := newTestBook(t)
	if _, err := b.Lock("c1", wa, wb, 25); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if err := b.Refund("c1"); err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	a, _ := l.Get(wa)
	bw, _ := l.Get(wb)
	if a.Balance != 100 || bw.Balance != 100 {
		t.Fatalf("balances = %v / %v, want 100 / 100", a.Balance, bw.Balance)
	}
	if err := b.Refund("c1"); !errors.Is(err, ErrLockNotFound) {
		t.Fatalf("second Refund error = %v, want ErrLockNotFound", err)
	}
}

func TestLockGatedByWalletPolicy(t *testing.T) {
	b, l, wa, wb := newTestBook(t)
	p := l.Policy()
	p.Enabled = false
	l.SetPolicy(p)

	if _, err := b.Lock("c1", wa, wb, 10); !errors.Is(err, wallet.ErrPolicyDisabled) {
		t.Fatalf("error = %v, want wallet.ErrPolicyDisabled", err)
	}
}
