package httptransport

import (
	"encoding/json"
	"net/http"

	"arena-fleet/internal/orchestrator"
	"arena-fleet/internal/superagent"
)

type SuperHandlers struct {
	orch *orchestrator.Orchestrator
}

func NewSuperHandlers(o *orchestrator.Orchestrator) *SuperHandlers {
	return &SuperHandlers{orch: o}
}

func (h *SuperHandlers) Config() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(h.orch.SuperConfig())
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			var patch superagent.Patch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			cfg, err := h.orch.PatchSuperConfig(patch)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			_ = json.NewEncoder(w).Encode(cfg)
		default:
			WriteHTTPError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	}
}

func (h *SuperHandlers) DelegateApply() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		n := h.orch.ApplyDelegation()
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "applied": n})
	}
}

func (h *SuperHandlers) Chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Message == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		_ = json.NewEncoder(w).Encode(h.orch.Chat(r.Context(), body.Message))
	}
}
