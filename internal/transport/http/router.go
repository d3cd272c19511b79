package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"arena-fleet/internal/config"
	"arena-fleet/internal/orchestrator"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(o *orchestrator.Orchestrator, cfg config.ServerConfig) *chi.Mux {
	walletHandlers := NewWalletHandlers(o)
	fleetHandlers := NewFleetHandlers(o)
	superHandlers := NewSuperHandlers(o)
	profileHandlers := NewProfileHandlers(o)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", fleetHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/status", fleetHandlers.Status())
		r.Get("/super-agent/config", superHandlers.Config())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/wallets/escrow/lock", walletHandlers.EscrowLock())
			r.Post("/wallets/escrow/resolve", walletHandlers.EscrowResolve())
			r.Post("/wallets/escrow/refund", walletHandlers.EscrowRefund())
			r.Post("/wallets/{wallet_id}/fund", walletHandlers.Fund())
			r.Post("/wallets/{wallet_id}/withdraw", walletHandlers.Withdraw())
			r.Post("/wallets/{wallet_id}/transfer", walletHandlers.Transfer())
			r.Post("/wallets/{wallet_id}/export-key", walletHandlers.ExportKey())

			r.Post("/agents/reconcile", fleetHandlers.Reconcile())
			r.Post("/agents/{bot_id}/config", fleetHandlers.BotConfig())

			r.MethodFunc(http.MethodPost, "/super-agent/config", superHandlers.Config())
			r.MethodFunc(http.MethodPut, "/super-agent/config", superHandlers.Config())
			r.MethodFunc(http.MethodPatch, "/super-agent/config", superHandlers.Config())
			r.Post("/super-agent/delegate/apply", superHandlers.DelegateApply())
			r.Post("/super-agent/chat", superHandlers.Chat())

			r.Post("/profiles/create", profileHandlers.Create())
			r.Post("/profiles/provision", profileHandlers.Provision())
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
