package httptransport

import (
	"encoding/json"
	"net/http"

	"arena-fleet/internal/orchestrator"
)

type ProfileHandlers struct {
	orch *orchestrator.Orchestrator
}

func NewProfileHandlers(o *orchestrator.Orchestrator) *ProfileHandlers {
	return &ProfileHandlers{orch: o}
}

func (h *ProfileHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username    string `json:"username"`
			DisplayName string `json:"display_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		p, err := h.orch.CreateProfile(body.Username, body.DisplayName)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "profile": p})
	}
}

// Provision is the idempotent signup path: the same subject id always maps
// to the same profile bundle.
func (h *ProfileHandlers) Provision() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SubjectID   string `json:"subject_id"`
			Username    string `json:"username"`
			DisplayName string `json:"display_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.SubjectID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		p, created, err := h.orch.ProvisionSubject(body.SubjectID, body.Username, body.DisplayName)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "created": created, "profile": p})
	}
}
