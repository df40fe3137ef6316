package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness and the loaded catalog size.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tables": len(s.svc.Catalog.Keys()),
	})
}

// handleLookupRedirect turns the dashboard lookup form into a /un/{number} link.
func (s *Server) handleLookupRedirect(w http.ResponseWriter, r *http.Request) {
	number, err := core.ParseUN(r.URL.Query().Get("number"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/un/"+number, http.StatusSeeOther)
}

// resolveUN returns the cross references of every entry for a UN number.
func (s *Server) resolveUN(raw string) (string, []core.CrossReference, error) {
	number, err := core.ParseUN(raw)
	if err != nil {
		return "", nil, err
	}
	entries := s.svc.Catalog.EntriesByUN(number)
	if len(entries) == 0 {
		return number, nil, fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
	}
	refs := make([]core.CrossReference, len(entries))
	for i, e := range entries {
		refs[i] = s.resolver.Resolve(e)
	}
	return number, refs, nil
}

// handleEntryView renders an entry page with its cross references.
func (s *Server) handleEntryView(w http.ResponseWriter, r *http.Request) {
	number, refs, err := s.resolveUN(chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	templates.EntryView(s.sidebar(r, "", core.DatasetUNEntries), number, refs).Render(r.Context(), w)
}

// entryResponse is the JSON form of a UN lookup.
type entryResponse struct {
	UN      string                `json:"un"`
	Entries []core.CrossReference `json:"entries"`
}

// handleEntryJSON returns the cross references of a UN number.
func (s *Server) handleEntryJSON(w http.ResponseWriter, r *http.Request) {
	number, refs, err := s.resolveUN(chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{UN: number, Entries: refs})
}

// chapterSummary is a chapter without its body.
type chapterSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Sections int    `json:"sections"`
}

func summarize(chapters []core.Chapter) []chapterSummary {
	out := make([]chapterSummary, len(chapters))
	for i, ch := range chapters {
		out[i] = chapterSummary{ID: ch.ID, Title: ch.Title, Summary: ch.Summary, Sections: len(ch.Sections)}
	}
	return out
}

// searchResponse lists the chapters matching a query and, when the query is
// a UN number, its entries.
type searchResponse struct {
	Query    string           `json:"query"`
	Chapters []chapterSummary `json:"chapters"`
	Entries  []core.Record    `json:"entries"`
}

// handleSearch searches the manual and, for UN numbers, the catalog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	resp := searchResponse{
		Query:    query,
		Chapters: summarize(s.svc.Manual.Search(query)),
		Entries:  []core.Record{},
	}
	if number, err := core.ParseUN(query); err == nil {
		if entries := s.svc.Catalog.EntriesByUN(number); entries != nil {
			resp.Entries = entries
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleManualIndex renders the chapter list, filtered by the q parameter.
func (s *Server) handleManualIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	chapters := s.svc.Manual.Chapters()
	if query != "" {
		chapters = s.svc.Manual.Search(query)
	}
	templates.ManualIndex(s.sidebar(r, "manual", ""), query, chapters).Render(r.Context(), w)
}

// chapter looks up a chapter by the chapterID URL parameter.
func (s *Server) chapter(r *http.Request) (core.Chapter, error) {
	id, err := url.PathUnescape(chi.URLParam(r, "chapterID"))
	if err != nil {
		id = chi.URLParam(r, "chapterID")
	}
	ch, ok := s.svc.Manual.Chapter(id)
	if !ok {
		return core.Chapter{}, fmt.Errorf("chapter not found: %q: %w", id, core.ErrNotFound)
	}
	return ch, nil
}

// handleChapterView renders one chapter.
func (s *Server) handleChapterView(w http.ResponseWriter, r *http.Request) {
	ch, err := s.chapter(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	templates.ChapterView(s.sidebar(r, "manual", ""), ch).Render(r.Context(), w)
}

// handleListChapters returns the chapter index.
func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summarize(s.svc.Manual.Chapters()))
}

// handleChapterJSON returns one chapter with its blocks.
func (s *Server) handleChapterJSON(w http.ResponseWriter, r *http.Request) {
	ch, err := s.chapter(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, ch)
}
