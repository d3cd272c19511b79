package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"arena-fleet/internal/escrow"
	"arena-fleet/internal/fleet"
	"arena-fleet/internal/logging"
	"arena-fleet/internal/profile"
	"arena-fleet/internal/superagent"
	"arena-fleet/internal/wallet"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
)

func APILogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

// writeDomainError maps ledger, escrow, fleet, and config errors onto HTTP
// statuses. The error code keeps any side attribution from the domain layer
// ("challenger: daily_limit_reached").
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, escrow.ErrInvalidLock),
		errors.Is(err, escrow.ErrInvalidFee),
		errors.Is(err, superagent.ErrInvalidMode),
		errors.Is(err, superagent.ErrInvalidCooldown),
		errors.Is(err, profile.ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, wallet.ErrPolicyDisabled),
		errors.Is(err, wallet.ErrDailyLimitReached),
		errors.Is(err, wallet.ErrInsufficientBalance),
		errors.Is(err, wallet.ErrNotWalletOwner),
		errors.Is(err, escrow.ErrBetTooLarge),
		errors.Is(err, escrow.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, escrow.ErrLockNotFound),
		errors.Is(err, fleet.ErrBotNotFound),
		errors.Is(err, profile.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, profile.ErrUsernameTaken):
		status = http.StatusConflict
	}
	WriteHTTPError(w, status, err.Error())
}

func AdminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" {
				if !CheckAdminAuth(r, adminKey) {
					w.WriteHeader(http.StatusUnauthorized)
					_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unauthorized"})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CheckAdminAuth(r *http.Request, adminKey string) bool {
	if v := r.Header.Get("X-Admin-Key"); v == adminKey {
		return true
	}
	auth := r.Header.Get("Authorization")
	prefix := "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):] == adminKey
	}
	return false
}
