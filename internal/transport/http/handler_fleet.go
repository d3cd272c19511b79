package httptransport

import (
	"encoding/json"
	"net/http"

	"arena-fleet/internal/fleet"
	"arena-fleet/internal/orchestrator"

	"github.com/go-chi/chi/v5"
)

type FleetHandlers struct {
	orch *orchestrator.Orchestrator
}

func NewFleetHandlers(o *orchestrator.Orchestrator) *FleetHandlers {
	return &FleetHandlers{orch: o}
}

func (h *FleetHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *FleetHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(h.orch.Status())
	}
}

func (h *FleetHandlers) Reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		created, removed, background := h.orch.ReconcileFleet(body.Count)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true, "created": created, "removed": removed, "background": background,
		})
	}
}

func (h *FleetHandlers) BotConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		botID := chi.URLParam(r, "bot_id")
		var patch fleet.BehaviorPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		behavior, err := h.orch.PatchBot(botID, patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "bot_id": botID, "behavior": behavior})
	}
}
