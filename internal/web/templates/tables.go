package templates

import (
	"context"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dgref/internal/core"
)

// TableCardData is one dashboard card.
type TableCardData struct {
	Info     core.TableInfo
	RowCount int
}

// TableGroup is a dashboard section.
type TableGroup struct {
	Name   string
	Tables []TableCardData
}

// Dashboard lists every table and the manual chapters.
func Dashboard(sidebar SidebarParams, groups []TableGroup, chapters []core.Chapter) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Dangerous Goods Reference</h1>`)
		h.raw(`<form class="lookup" action="/un" method="get"><label>UN number <input name="number" placeholder="3480" inputmode="numeric"></label><button>Look up</button></form>`)
		for _, g := range groups {
			h.rawf(`<section><h2>%s</h2><div class="cards">`, g.Name)
			for _, t := range g.Tables {
				h.rawf(`<a class="card" href="%s"><h3>%s</h3><p>%d rows</p></a>`, tableURL(t.Info.Key), t.Info.Label, t.RowCount)
			}
			h.raw(`</div></section>`)
		}
		if len(chapters) > 0 {
			h.raw(`<section><h2>Manual</h2><ol class="chapters">`)
			for _, ch := range chapters {
				h.rawf(`<li><a href="%s">%s. %s</a></li>`, chapterURL(ch.ID), ch.ID, ch.Title)
			}
			h.raw(`</ol></section>`)
		}
	})
	return Layout("Dashboard", sidebar, body)
}

// TableViewData is the state of one windowed table view.
type TableViewData struct {
	Info           core.TableInfo
	Total          int
	Filters        core.ColumnFilters
	Sort           core.SortState
	Window         core.Range
	Rows           []core.Record
	ViewportHeight int
	Overscan       int
}

// query returns the filter and sort query string of the view, without the
// scroll position.
func (d TableViewData) query() url.Values {
	q := url.Values{}
	for k, v := range d.Filters {
		if v != "" {
			q.Set("filter["+k+"]", v)
		}
	}
	if d.Sort.Active() {
		q.Set("sort", d.Sort.Column)
		q.Set("dir", string(d.Sort.Dir))
	}
	return q
}

// sortHref is the link a column header points at: clicking toggles the sort.
func (d TableViewData) sortHref(column string) templ.SafeURL {
	q := d.query()
	next := d.Sort.Toggle(column)
	q.Set("sort", next.Column)
	q.Set("dir", string(next.Dir))
	return templ.URL("/table/" + url.PathEscape(d.Info.Key) + "?" + q.Encode())
}

// TableView renders the full page for a windowed table.
func TableView(sidebar SidebarParams, data TableViewData) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<h1>%s</h1>`, data.Info.Label)
		h.rawf(`<p class="meta"><span id="row-count">%d</span> rows · <a href="%s">Export CSV</a></p>`,
			data.Total, templ.URL("/api/export/"+url.PathEscape(data.Info.Key)+"?"+data.query().Encode()))

		h.rawf(`<form class="filters" method="get" action="/table/%s">`, data.Info.Key)
		if data.Sort.Active() {
			h.rawf(`<input type="hidden" name="sort" value="%s"><input type="hidden" name="dir" value="%s">`,
				data.Sort.Column, string(data.Sort.Dir))
		}
		for _, c := range data.Info.Columns {
			if !c.Filterable {
				continue
			}
			h.rawf(`<label>%s <input name="filter[%s]" value="%s"></label>`, c.Label, c.Key, data.Filters[c.Key])
		}
		h.raw(`<button>Filter</button></form>`)

		h.rawf(`<div class="table-scroll" data-rows-url="/api/tables/%s/rows?%s" data-row-height="%d" data-overscan="%d" style="height:%dpx">`,
			data.Info.Key, data.query().Encode(), data.Info.RowHeight, data.Overscan, data.ViewportHeight)
		h.raw(`<table class="grid"><thead><tr>`)
		for _, c := range data.Info.Columns {
			indicator := ""
			if data.Sort.Column == c.Key {
				indicator = " ▲"
				if data.Sort.Dir == core.SortDesc {
					indicator = " ▼"
				}
			}
			h.rawf(`<th style="width:%dpx"><a href="%s">%s%s</a></th>`, c.Width, data.sortHref(c.Key), c.Label, indicator)
		}
		h.raw(`</tr></thead>`)
		h.render(ctx, TableRows(data))
		h.raw(`</table></div>`)
	})
	return Layout(data.Info.Label, sidebar, body)
}

// TableRows renders the windowed tbody. Rows are absolutely positioned
// inside a spacer as tall as the full result.
func TableRows(data TableViewData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		rowHeight := data.Info.RowHeight
		h.rawf(`<tbody class="window" style="height:%dpx" data-total="%d">`,
			core.SpacerHeight(data.Total, rowHeight), data.Total)
		for i, rec := range data.Rows {
			index := data.Window.Start + i
			h.rawf(`<tr style="top:%dpx;height:%dpx" data-index="%d">`, core.Offset(index, rowHeight), rowHeight, index)
			for _, c := range data.Info.Columns {
				h.raw(`<td>`)
				cell(h, data.Info.Key, c.Key, rec)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody>`)
	})
}

// cell renders one value; UN numbers link to their cross reference page.
func cell(h *htmlWriter, table, column string, rec core.Record) {
	v := rec.Text(column)
	if table == core.DatasetUNEntries && column == "un" && v != "" {
		h.rawf(`<a href="%s">%s</a>`, templ.URL("/un/"+url.PathEscape(v)), v)
		return
	}
	if column == "filler" {
		if rec.Flag("filler") {
			h.raw(`<span class="badge">generated</span>`)
		}
		return
	}
	h.text(v)
}

// EntryView shows every row for a UN number with its cross references.
func EntryView(sidebar SidebarParams, number string, refs []core.CrossReference) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<h1>UN %s</h1>`, number)
		for _, ref := range refs {
			e := ref.Entry
			h.raw(`<article class="entry">`)
			h.rawf(`<h2>%s</h2>`, e.Text("name"))
			if e.Flag("filler") {
				h.raw(`<p class="badge">generated entry</p>`)
			}
			h.raw(`<dl>`)
			for _, kv := range [][2]string{
				{"Class", "class"}, {"Sub risk", "sub_risk"}, {"PG", "pg"}, {"Label", "label"}, {"EQ", "eq"},
				{"LQ", "lq_pi"}, {"LQ max", "lq_max"}, {"PAX", "pax_pi"}, {"PAX max", "pax_max"},
				{"CAO", "cao_pi"}, {"CAO max", "cao_max"}, {"SP", "sp"}, {"ERG", "erg"},
			} {
				if v := e.Text(kv[1]); v != "" {
					h.rawf(`<dt>%s</dt><dd>%s</dd>`, kv[0], v)
				}
			}
			h.raw(`</dl>`)

			refList(h, "Packing instructions", ref.PackingInstructions, "code", "title")
			refList(h, "Special provisions", ref.SpecialProvisions, "code", "text")
			refList(h, "Variations", ref.Variations, "code", "text")
			if ref.Segregation != nil {
				h.rawf(`<h3>Segregation (class %s)</h3><p>`, ref.Segregation.Text("class"))
				var parts []string
				for _, k := range ref.Segregation.Keys() {
					if ref.Segregation.Text(k) == "X" {
						parts = append(parts, k)
					}
				}
				if len(parts) == 0 {
					h.raw(`No segregation required.`)
				} else {
					h.text("Segregate from classes " + strings.Join(parts, ", "))
				}
				h.raw(`</p>`)
			}
			h.rawf(`<form method="post" action="/assistant/verify" class="verify"><input type="hidden" name="un" value="%s"><input type="hidden" name="pg" value="%s"><button>Verify with assistant</button></form>`,
				e.Text("un"), e.Text("pg"))
			h.raw(`</article>`)
		}
	})
	return Layout("UN "+number, sidebar, body)
}

func refList(h *htmlWriter, title string, rows []core.Record, codeKey, textKey string) {
	if len(rows) == 0 {
		return
	}
	h.rawf(`<h3>%s</h3><ul class="refs">`, title)
	for _, r := range rows {
		h.rawf(`<li><strong>%s</strong> %s</li>`, r.Text(codeKey), r.Text(textKey))
	}
	h.raw(`</ul>`)
}
