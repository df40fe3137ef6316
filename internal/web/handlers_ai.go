package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/web/templates"
)

var errEmptyPrompt = errors.New("empty prompt")

// handleAssistantPage renders the chat and audit forms.
func (s *Server) handleAssistantPage(w http.ResponseWriter, r *http.Request) {
	templates.AssistantPage(s.sidebar(r, "assistant", ""), s.svc.Assistant.Configured()).Render(r.Context(), w)
}

// handleChat answers a free-form question.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	fields, err := requestFields(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	question := formValue(r, fields, "question")
	if question == "" {
		respondError(w, r, errEmptyPrompt, http.StatusBadRequest)
		return
	}

	answer := s.svc.Assistant.Chat(WithRequestMetadata(r.Context(), r), question)
	s.respondAnswer(w, r, "Assistant", answer)
}

// handleAudit checks a shipment of one or more UN numbers.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	fields, err := requestFields(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	shipment := ai.Shipment{Description: formValue(r, fields, "description")}
	for _, raw := range strings.Split(formValue(r, fields, "un"), ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		number, err := core.ParseUN(raw)
		if err != nil {
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
		entries := s.svc.Catalog.EntriesByUN(number)
		if len(entries) == 0 {
			err := fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
			respondError(w, r, err, statusFor(err))
			return
		}
		shipment.Entries = append(shipment.Entries, entries...)
	}
	if len(shipment.Entries) == 0 && shipment.Description == "" {
		respondError(w, r, errEmptyPrompt, http.StatusBadRequest)
		return
	}

	answer := s.svc.Assistant.AuditShipment(WithRequestMetadata(r.Context(), r), shipment)
	s.respondAnswer(w, r, "Shipment audit", answer)
}

// handleVerify checks one UN entry, picked by UN number and packing group.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	fields, err := requestFields(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	number, err := core.ParseUN(formValue(r, fields, "un"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	entries := s.svc.Catalog.EntriesByUN(number)
	if len(entries) == 0 {
		err := fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
		respondError(w, r, err, statusFor(err))
		return
	}

	entry := entries[0]
	if pg := formValue(r, fields, "pg"); pg != "" {
		for _, e := range entries {
			if e.Text("pg") == pg {
				entry = e
				break
			}
		}
	}

	answer := s.svc.Assistant.VerifyRecord(WithRequestMetadata(r.Context(), r), core.DatasetUNEntries, entry)
	s.respondAnswer(w, r, "Verify UN "+number, answer)
}

// respondAnswer renders an assistant answer for the request type. Failed and
// unconfigured answers are still 200 responses: the status travels in the body.
func (s *Server) respondAnswer(w http.ResponseWriter, r *http.Request, title string, answer ai.Answer) {
	switch {
	case isHTMX(r):
		templates.Answer(answer).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, answer)
	default:
		templates.AnswerPage(s.sidebar(r, "assistant", ""), title, answer).Render(r.Context(), w)
	}
}
