// Package web provides HTTP handlers for the reference browser.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/web/templates"
)

// MaxBodySize bounds JSON and form request bodies (1MB).
const MaxBodySize = 1 << 20

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// parseSort reads the single-column sort state from the sort and dir params.
func parseSort(r *http.Request) core.SortState {
	col := strings.TrimSpace(r.URL.Query().Get("sort"))
	if col == "" {
		return core.SortState{}
	}
	return core.SortState{Column: col, Dir: core.ParseSortDir(r.URL.Query().Get("dir"))}
}

// parseFilters extracts filter[column]=text query parameters. Columns the
// table does not define are dropped.
func parseFilters(r *http.Request, info core.TableInfo) core.ColumnFilters {
	filters := core.ColumnFilters{}
	for key, values := range r.URL.Query() {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}

		col := key[7 : len(key)-1]
		if col == "" || !info.HasColumn(col) || len(values) == 0 {
			continue
		}
		if values[0] != "" {
			filters[col] = values[0]
		}
	}
	return filters
}

// tableQuery is a parsed table request: the filtered and sorted rows plus
// the window the viewport asked for.
type tableQuery struct {
	info    core.TableInfo
	filters core.ColumnFilters
	sort    core.SortState
	rows    []core.Record
}

// queryTable loads a table and applies the request's filters and sort.
func (s *Server) queryTable(r *http.Request, key string) (tableQuery, error) {
	table, err := s.svc.Catalog.LoadTable(key)
	if err != nil {
		return tableQuery{}, err
	}
	info := table.Info
	q := tableQuery{
		info:    info,
		filters: parseFilters(r, info),
		sort:    parseSort(r),
	}
	q.rows = table.Query(q.filters, q.sort)
	return q, nil
}

// viewData windows q according to the offset, height and overscan params.
func (s *Server) viewData(r *http.Request, q tableQuery) templates.TableViewData {
	height := parseIntParam(r, "height", s.cfg.UI.ViewportHeight)
	if height == 0 {
		height = s.cfg.UI.ViewportHeight
	}
	overscan := parseIntParam(r, "overscan", s.cfg.UI.Overscan)
	window := core.Window(core.Viewport{
		TotalRows:      len(q.rows),
		RowHeight:      q.info.RowHeight,
		ViewportHeight: height,
		ScrollOffset:   parseIntParam(r, "offset", 0),
		Overscan:       overscan,
	})
	return templates.TableViewData{
		Info:           q.info,
		Total:          len(q.rows),
		Filters:        q.filters,
		Sort:           q.sort,
		Window:         window,
		Rows:           core.SliceWindow(q.rows, window),
		ViewportHeight: height,
		Overscan:       overscan,
	}
}

// sidebar builds the navigation shared by every page.
func (s *Server) sidebar(r *http.Request, page, table string) templates.SidebarParams {
	params := templates.SidebarParams{ActivePage: page, ActiveTable: table}

	index := map[string]int{}
	for _, key := range s.svc.Catalog.Keys() {
		info, _ := s.svc.Catalog.Info(key)
		i, ok := index[info.Group]
		if !ok {
			i = len(params.Groups)
			index[info.Group] = i
			params.Groups = append(params.Groups, templates.NavGroup{Name: info.Group})
		}
		params.Groups[i].Tables = append(params.Groups[i].Tables, info)
	}

	if s.svc.Configs != nil {
		if cfg, err := s.svc.Configs.Get(r.Context()); err == nil {
			params.Edition = cfg.Edition
		}
	}
	return params
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// formValue reads a field from either a JSON body (already decoded into
// fields) or a form post.
func formValue(r *http.Request, fields map[string]string, name string) string {
	if fields != nil {
		return strings.TrimSpace(fields[name])
	}
	return strings.TrimSpace(r.PostFormValue(name))
}

// requestFields decodes a JSON object of string fields for API requests and
// returns nil for form posts.
func requestFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return nil, nil
	}
	fields := map[string]string{}
	if err := decodeJSON(w, r, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// formatCellForExport formats a cell value for CSV export.
func formatCellForExport(v core.Value) string {
	switch v.Kind() {
	case core.KindBool:
		if v.IsTrue() {
			return "Yes"
		}
		return "No"
	default:
		return v.String()
	}
}
