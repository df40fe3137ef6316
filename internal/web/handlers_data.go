package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/logging"
	"github.com/JonMunkholm/dgref/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sidebar := s.sidebar(r, "dashboard", "")

	groups := make([]templates.TableGroup, 0, len(sidebar.Groups))
	for _, g := range sidebar.Groups {
		cards := make([]templates.TableCardData, len(g.Tables))
		for i, info := range g.Tables {
			cards[i] = templates.TableCardData{Info: info}
			if t, err := s.svc.Catalog.LoadTable(info.Key); err == nil {
				cards[i].RowCount = t.Len()
			}
		}
		groups = append(groups, templates.TableGroup{Name: g.Name, Tables: cards})
	}

	templates.Dashboard(sidebar, groups, s.svc.Manual.Chapters()).Render(r.Context(), w)
}

// tableSummary is the JSON listing entry for one table.
type tableSummary struct {
	core.TableInfo
	Rows int `json:"rows"`
}

// handleListTables returns all tables with their row counts.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	keys := s.svc.Catalog.Keys()
	out := make([]tableSummary, 0, len(keys))
	for _, key := range keys {
		t, err := s.svc.Catalog.LoadTable(key)
		if err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		out = append(out, tableSummary{TableInfo: t.Info, Rows: t.Len()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTableInfo returns the metadata of one table.
func (s *Server) handleTableInfo(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Catalog.LoadTable(chi.URLParam(r, "tableKey"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tableSummary{TableInfo: t.Info, Rows: t.Len()})
}

// handleTableView renders the windowed table page.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	q, err := s.queryTable(r, tableKey)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	data := s.viewData(r, q)
	if isHTMX(r) {
		templates.TableRows(data).Render(r.Context(), w)
		return
	}
	templates.TableView(s.sidebar(r, "", tableKey), data).Render(r.Context(), w)
}

// rowsResponse is one window of a filtered and sorted table.
type rowsResponse struct {
	Table        string             `json:"table"`
	Total        int                `json:"total"`
	Start        int                `json:"start"`
	End          int                `json:"end"`
	RowHeight    int                `json:"rowHeight"`
	SpacerHeight int                `json:"spacerHeight"`
	Filters      core.ColumnFilters `json:"filters"`
	Sort         core.SortState     `json:"sort"`
	Rows         []core.Record      `json:"rows"`
}

// handleTableRows returns the rows inside the requested viewport, as a tbody
// partial for the scrolling view or as JSON.
func (s *Server) handleTableRows(w http.ResponseWriter, r *http.Request) {
	q, err := s.queryTable(r, chi.URLParam(r, "tableKey"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	data := s.viewData(r, q)
	if isHTMX(r) {
		templates.TableRows(data).Render(r.Context(), w)
		return
	}

	writeJSON(w, http.StatusOK, rowsResponse{
		Table:        data.Info.Key,
		Total:        data.Total,
		Start:        data.Window.Start,
		End:          data.Window.End,
		RowHeight:    data.Info.RowHeight,
		SpacerHeight: core.SpacerHeight(data.Total, data.Info.RowHeight),
		Filters:      data.Filters,
		Sort:         data.Sort,
		Rows:         data.Rows,
	})
}

// handleExportData exports a filtered and sorted table as a streaming CSV file.
func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	q, err := s.queryTable(r, tableKey)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", tableKey, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	csvWriter := csv.NewWriter(w)
	headers := make([]string, len(q.info.Columns))
	for i, c := range q.info.Columns {
		headers[i] = c.Label
	}
	logger := logging.FromContext(r.Context())
	if err := csvWriter.Write(headers); err != nil {
		logger.Error("export header write failed", "table", tableKey, "error", err)
		return
	}

	flusher, _ := w.(http.Flusher)
	record := make([]string, len(q.info.Columns))
	for n, rec := range q.rows {
		for i, c := range q.info.Columns {
			v, _ := rec.Get(c.Key)
			record[i] = formatCellForExport(v)
		}
		if err := csvWriter.Write(record); err != nil {
			logger.Error("export write failed", "table", tableKey, "error", err)
			return
		}
		// Flush periodically so large tables stream
		if n%500 == 499 {
			csvWriter.Flush()
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		logger.Error("export flush failed", "table", tableKey, "error", err)
	}
}
