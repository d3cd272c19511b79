package wallet

import (
	"fmt"
	"math"
	"time"

	"arena-fleet/internal/ids"
)

const dayLayout = "2006-01-02"

type Wallet struct {
	ID           string    `json:"id"`
	OwnerKey     string    `json:"owner_key"`
	Address      string    `json:"address"`
	EncPrivKey   string    `json:"enc_priv_key"`
	Balance      float64   `json:"balance"`
	DailyTxCount int       `json:"daily_tx_count"`
	TxDay        string    `json:"tx_day"`
	CreatedAt    time.Time `json:"created_at"`
	LastTxAt     time.Time `json:"last_tx_at"`
}

// Policy mirrors the super-agent wallet policy and gates every mutating
// ledger operation, escrow included.
type Policy struct {
	Enabled        bool     `json:"enabled"`
	AllowedSkills  []string `json:"allowed_skills"`
	MaxBetPercent  float64  `json:"max_bet_percent"`
	MaxDailyTx     int      `json:"max_daily_tx"`
	EscrowRequired bool     `json:"escrow_required"`
}

func DefaultPolicy() Policy {
	return Policy{
		Enabled:        true,
		AllowedSkills:  []string{"challenge", "wager"},
		MaxBetPercent:  25,
		MaxDailyTx:     50,
		EscrowRequired: true,
	}
}

// Ledger is the single source of truth for balances. It is not goroutine
// safe: the orchestrator serializes every mutating call behind one mutex.
type Ledger struct {
	wallets map[string]*Wallet
	byOwner map[string]string
	keys    *Keyring
	policy  Policy

	now func() time.Time
}

func NewLedger(keys *Keyring) *Ledger {
	return &Ledger{
		wallets: map[string]*Wallet{},
		byOwner: map[string]string{},
		keys:    keys,
		policy:  DefaultPolicy(),
		now:     time.Now,
	}
}

func (l *Ledger) Policy() Policy              { return l.policy }
func (l *Ledger) SetPolicy(p Policy)          { l.policy = p }
func (l *Ledger) SetClock(f func() time.Time) { l.now = f }

func (l *Ledger) Get(id string) (*Wallet, bool) {
	w, ok := l.wallets[id]
	return w, ok
}

func (l *Ledger) ByOwner(ownerKey string) (*Wallet, bool) {
	id, ok := l.byOwner[ownerKey]
	if !ok {
		return nil, false
	}
	return l.wallets[id], true
}

func (l *Ledger) All() []*Wallet {
	out := make([]*Wallet, 0, len(l.wallets))
	for _, w := range l.wallets {
		out = append(out, w)
	}
	return out
}

// GetOrCreate lazily provisions one wallet per owner key with a fresh
// keypair; wallets are never deleted.
func (l *Ledger) GetOrCreate(ownerKey string) (*Wallet, error) {
	if w, ok := l.ByOwner(ownerKey); ok {
		return w, nil
	}
	address, enc, err := l.keys.Generate()
	if err != nil {
		return nil, err
	}
	now := l.now().UTC()
	w := &Wallet{
		ID:         ids.Wallet(),
		OwnerKey:   ownerKey,
		Address:    address,
		EncPrivKey: enc,
		TxDay:      now.Format(dayLayout),
		CreatedAt:  now,
	}
	l.wallets[w.ID] = w
	l.byOwner[ownerKey] = w.ID
	return w, nil
}

// Restore reinserts a wallet from a snapshot verbatim.
func (l *Ledger) Restore(w Wallet) {
	cp := w
	l.wallets[cp.ID] = &cp
	l.byOwner[cp.OwnerKey] = cp.ID
}

func (l *Ledger) Reset() {
	l.wallets = map[string]*Wallet{}
	l.byOwner = map[string]string{}
}

// rolloverDay resets the daily counter exactly once when the stored
// day-stamp no longer matches today. Runs before every policy check.
func (l *Ledger) rolloverDay(w *Wallet) {
	today := l.now().UTC().Format(dayLayout)
	if w.TxDay != today {
		w.TxDay = today
		w.DailyTxCount = 0
	}
}

// CanUse rejects when the wallet policy is disabled or the wallet has hit
// its daily transaction ceiling.
func (l *Ledger) CanUse(id string) error {
	w, ok := l.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	l.rolloverDay(w)
	if !l.policy.Enabled {
		return ErrPolicyDisabled
	}
	if l.policy.MaxDailyTx > 0 && w.DailyTxCount >= l.policy.MaxDailyTx {
		return ErrDailyLimitReached
	}
	return nil
}

func (l *Ledger) touch(w *Wallet) {
	w.DailyTxCount++
	w.LastTxAt = l.now().UTC()
}

// ValidAmount accepts only finite positive amounts. NaN fails the positive
// comparison; an infinite amount would poison every later balance check.
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 1)
}

func (l *Ledger) Fund(id string, amount float64) (float64, error) {
	if !ValidAmount(amount) {
		return 0, ErrInvalidAmount
	}
	if err := l.CanUse(id); err != nil {
		return 0, err
	}
	w := l.wallets[id]
	w.Balance += amount
	l.touch(w)
	return w.Balance, nil
}

func (l *Ledger) Withdraw(id string, amount float64) (float64, error) {
	if !ValidAmount(amount) {
		return 0, ErrInvalidAmount
	}
	if err := l.CanUse(id); err != nil {
		return 0, err
	}
	w := l.wallets[id]
	if w.Balance < amount {
		return 0, ErrInsufficientBalance
	}
	w.Balance -= amount
	l.touch(w)
	return w.Balance, nil
}

func (l *Ledger) Transfer(fromID, toID string, amount float64) error {
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	if err := l.CanUse(fromID); err != nil {
		return fmt.Errorf("sender: %w", err)
	}
	if err := l.CanUse(toID); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	from := l.wallets[fromID]
	to := l.wallets[toID]
	if from.Balance < amount {
		return fmt.Errorf("sender: %w", ErrInsufficientBalance)
	}
	from.Balance -= amount
	to.Balance += amount
	l.touch(from)
	l.touch(to)
	return nil
}

// Debit and Credit are escrow-side primitives. Debit enforces balance,
// Credit never fails for an existing wallet. Neither runs the policy gate:
// the escrow coordinator checks both sides up front.
func (l *Ledger) Debit(id string, amount float64) error {
	w, ok := l.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	w.Balance -= amount
	l.touch(w)
	return nil
}

func (l *Ledger) Credit(id string, amount float64) error {
	w, ok := l.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	w.Balance += amount
	l.touch(w)
	return nil
}

// UndoDebit reverses a just-applied Debit, including its daily-count
// increment, so an aborted operation nets out to zero transactions.
func (l *Ledger) UndoDebit(id string, amount float64) {
	w, ok := l.wallets[id]
	if !ok {
		return
	}
	w.Balance += amount
	if w.DailyTxCount > 0 {
		w.DailyTxCount--
	}
}

// ExportedKey is the one-time plaintext export. Sensitive marks the payload
// so callers surface the narrow trust boundary to the operator.
type ExportedKey struct {
	WalletID   string `json:"wallet_id"`
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Sensitive  bool   `json:"sensitive"`
}

// ExportKey decrypts the wallet's key material after the caller proved
// ownership via the owning profile's owner key.
func (l *Ledger) ExportKey(id, ownerKey string) (*ExportedKey, error) {
	w, ok := l.wallets[id]
	if !ok {
		return nil, ErrWalletNotFound
	}
	if w.OwnerKey != ownerKey {
		return nil, ErrNotWalletOwner
	}
	plain, err := l.keys.Open(w.EncPrivKey)
	if err != nil {
		return nil, err
	}
	return &ExportedKey{
		WalletID:   w.ID,
		Address:    w.Address,
		PrivateKey: "0x" + fmt.Sprintf("%x", plain),
		Sensitive:  true,
	}, nil
}
