package httptransport

import (
	"encoding/json"
	"net/http"

	"arena-fleet/internal/orchestrator"

	"github.com/go-chi/chi/v5"
)

type WalletHandlers struct {
	orch *orchestrator.Orchestrator
}

func NewWalletHandlers(o *orchestrator.Orchestrator) *WalletHandlers {
	return &WalletHandlers{orch: o}
}

func (h *WalletHandlers) Fund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletID := chi.URLParam(r, "wallet_id")
		var body struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		bal, err := h.orch.Fund(walletID, body.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "wallet_id": walletID, "balance": bal})
	}
}

func (h *WalletHandlers) Withdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletID := chi.URLParam(r, "wallet_id")
		var body struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		bal, err := h.orch.Withdraw(walletID, body.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "wallet_id": walletID, "balance": bal})
	}
}

// Transfer moves funds out of the wallet named in the path; only the
// recipient comes from the body.
func (h *WalletHandlers) Transfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fromID := chi.URLParam(r, "wallet_id")
		var body struct {
			ToWalletID string  `json:"to_wallet_id"`
			Amount     float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.ToWalletID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.orch.Transfer(fromID, body.ToWalletID, body.Amount); err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// ExportKey releases a wallet's private key to its owning profile. The
// response carries plaintext key material and is never logged.
func (h *WalletHandlers) ExportKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletID := chi.URLParam(r, "wallet_id")
		var body struct {
			ProfileID string `json:"profile_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.ProfileID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		key, err := h.orch.ExportKey(walletID, body.ProfileID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(key)
	}
}

func (h *WalletHandlers) EscrowLock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChallengeID        string  `json:"challenge_id"`
			ChallengerWalletID string  `json:"challenger_wallet_id"`
			OpponentWalletID   string  `json:"opponent_wallet_id"`
			Amount             float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.ChallengeID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		lk, err := h.orch.EscrowLock(body.ChallengeID, body.ChallengerWalletID, body.OpponentWalletID, body.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "lock": lk})
	}
}

func (h *WalletHandlers) EscrowResolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChallengeID    string `json:"challenge_id"`
			WinnerWalletID string `json:"winner_wallet_id"`
			FeeBps         int    `json:"fee_bps"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.ChallengeID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		payout, fee, err := h.orch.EscrowResolve(body.ChallengeID, body.WinnerWalletID, body.FeeBps)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "payout": payout, "fee": fee})
	}
}

func (h *WalletHandlers) EscrowRefund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChallengeID string `json:"challenge_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.ChallengeID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.orch.EscrowRefund(body.ChallengeID); err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
