package web

import (
	"net/http"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/logging"
	"github.com/JonMunkholm/dgref/internal/web/templates"
)

// handleUpdateConfig applies a partial update to the regulatory configuration.
// Any accepted change resets the validation status to pending.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var update admin.ConfigUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	current, err := s.svc.Configs.Get(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	next, err := update.Apply(current)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.svc.Configs.Save(r.Context(), next); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(), "edition", next.Edition, "source", next.DataSource).
		Info("regulatory config updated", "ip", clientIP(r))
	writeJSON(w, http.StatusOK, next)
}

// syncResponse is the outcome of a catalog validation run.
type syncResponse struct {
	Config admin.RegulatoryConfig `json:"config"`
	Report admin.Report           `json:"report"`
}

// handleSync validates the catalog now and returns the updated configuration.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Syncer.Run(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	cfg, err := s.svc.Configs.Get(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	switch {
	case isHTMX(r):
		templates.ConfigPanel(cfg, &report).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, syncResponse{Config: cfg, Report: report})
	default:
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}
