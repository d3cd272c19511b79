package escrow

import (
	"fmt"
	"time"

	"arena-fleet/internal/wallet"
)

type Lock struct {
	ChallengeID        string    `json:"challenge_id"`
	ChallengerWalletID string    `json:"challenger_wallet_id"`
	OpponentWalletID   string    `json:"opponent_wallet_id"`
	Amount             float64   `json:"amount"`
	CreatedAt          time.Time `json:"created_at"`
}

// Book holds the in-flight wager locks. A lock's disappearance is the
// resolution event; no settled state is retained. Not goroutine safe: the
// orchestrator serializes all callers.
type Book struct {
	ledger *wallet.Ledger
	locks  map[string]*Lock

	now func() time.Time
}

func NewBook(l *wallet.Ledger) *Book {
	return &Book{ledger: l, locks: map[string]*Lock{}, now: time.Now}
}

func (b *Book) Get(challengeID string) (*Lock, bool) {
	lk, ok := b.locks[challengeID]
	return lk, ok
}

func (b *Book) All() []*Lock {
	out := make([]*Lock, 0, len(b.locks))
	for _, lk := range b.locks {
		out = append(out, lk)
	}
	return out
}

func (b *Book) Restore(lk Lock) {
	cp := lk
	b.locks[cp.ChallengeID] = &cp
}

func (b *Book) Reset() {
	b.locks = map[string]*Lock{}
}

func (b *Book) checkSide(side, walletID string, amount float64) error {
	if err := b.ledger.CanUse(walletID); err != nil {
		return fmt.Errorf("%s: %w", side, err)
	}
	w, _ := b.ledger.Get(walletID)
	maxBet := w.Balance * b.ledger.Policy().MaxBetPercent / 100
	if amount > maxBet {
		return fmt.Errorf("%s: %w", side, ErrBetTooLarge)
	}
	return nil
}

// Lock withholds amount from both participants. Retries with the same
// challenge id return the stored lock unchanged, whatever amount the retry
// carries, so callers can safely retry after a timeout.
func (b *Book) Lock(challengeID, challengerID, opponentID string, amount float64) (*Lock, error) {
	if existing, ok := b.locks[challengeID]; ok {
		return existing, nil
	}
	if challengeID == "" || !wallet.ValidAmount(amount) {
		return nil, ErrInvalidLock
	}
	if err := b.checkSide("challenger", challengerID, amount); err != nil {
		return nil, err
	}
	if err := b.checkSide("opponent", opponentID, amount); err != nil {
		return nil, err
	}
	// Both sides validated; the two debits cannot fail past this point.
	if err := b.ledger.Debit(challengerID, amount); err != nil {
		return nil, fmt.Errorf("challenger: %w", err)
	}
	if err := b.ledger.Debit(opponentID, amount); err != nil {
		// Undo the challenger debit so no partial state survives; the
		// rollback must not burn a daily transaction.
		b.ledger.UndoDebit(challengerID, amount)
		return nil, fmt.Errorf("opponent: %w", err)
	}
	lk := &Lock{
		ChallengeID:        challengeID,
		ChallengerWalletID: challengerID,
		OpponentWalletID:   opponentID,
		Amount:             amount,
		CreatedAt:          b.now().UTC(),
	}
	b.locks[challengeID] = lk
	return lk, nil
}

// Resolve pays the winner 2×amount minus the fee and deletes the lock. An
// absent lock means unknown id or already settled; both read as not-found,
// which is the double-resolve guard.
func (b *Book) Resolve(challengeID, winnerID string, feeBps int) (payout, fee float64, err error) {
	lk, ok := b.locks[challengeID]
	if !ok {
		return 0, 0, ErrLockNotFound
	}
	if winnerID != lk.ChallengerWalletID && winnerID != lk.OpponentWalletID {
		return 0, 0, ErrNotParticipant
	}
	if feeBps < 0 || feeBps > 10000 {
		return 0, 0, ErrInvalidFee
	}
	pot := 2 * lk.Amount
	fee = pot * float64(feeBps) / 10000
	payout = pot - fee
	if err := b.ledger.Credit(winnerID, payout); err != nil {
		return 0, 0, err
	}
	delete(b.locks, challengeID)
	return payout, fee, nil
}

// Refund returns each side its own stake and deletes the lock.
func (b *Book) Refund(challengeID string) error {
	lk, ok := b.locks[challengeID]
	if !ok {
		return ErrLockNotFound
	}
	if err := b.ledger.Credit(lk.ChallengerWalletID, lk.Amount); err != nil {
		return err
	}
	if err := b.ledger.Credit(lk.OpponentWalletID, lk.Amount); err != nil {
		return err
	}
	delete(b.locks, challengeID)
	return nil
}
