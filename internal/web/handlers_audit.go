package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/web/templates"
)

// journalFilter reads kind, status, from, to, limit and offset query parameters.
func journalFilter(r *http.Request) core.JournalFilter {
	filter := core.JournalFilter{
		Kind:   core.ConsultationKind(r.URL.Query().Get("kind")),
		Status: core.ConsultationStatus(r.URL.Query().Get("status")),
		Limit:  parseIntParam(r, "limit", core.DefaultJournalLimit),
		Offset: parseIntParam(r, "offset", 0),
	}
	if filter.Limit == 0 || filter.Limit > 500 {
		filter.Limit = core.DefaultJournalLimit
	}

	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.StartTime = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.EndTime = t.Add(24*time.Hour - time.Second)
		}
	}
	return filter
}

// consultationsResponse is one page of the consultation journal.
type consultationsResponse struct {
	Total   int64               `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
	Entries []core.Consultation `json:"entries"`
}

// handleListConsultations returns a page of recorded assistant requests.
func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	filter := journalFilter(r)

	entries, err := s.svc.Journal.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	total, err := s.svc.Journal.Count(r.Context(), filter)
	if err != nil {
		total = int64(len(entries))
	}
	if entries == nil {
		entries = []core.Consultation{}
	}

	writeJSON(w, http.StatusOK, consultationsResponse{
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Entries: entries,
	})
}

// handleAdminPage renders the governance configuration and recent consultations.
func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Configs.Get(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filter := journalFilter(r)
	entries, err := s.svc.Journal.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	total, err := s.svc.Journal.Count(r.Context(), filter)
	if err != nil {
		total = int64(len(entries))
	}

	templates.AdminPage(s.sidebar(r, "admin", ""), cfg, entries, total).Render(r.Context(), w)
}

// handleGetConfig returns the regulatory configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Configs.Get(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
