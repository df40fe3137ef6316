package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dgref/internal/core"
)

// NavGroup is one group of tables in the sidebar.
type NavGroup struct {
	Name   string
	Tables []core.TableInfo
}

// SidebarParams controls the sidebar highlight and footer.
type SidebarParams struct {
	ActivePage  string // "dashboard", "manual", "assistant", "admin"
	ActiveTable string
	Groups      []NavGroup
	Edition     string
}

var pages = []struct{ key, href, label string }{
	{"dashboard", "/", "Dashboard"},
	{"manual", "/manual", "Manual"},
	{"assistant", "/assistant", "Assistant"},
	{"admin", "/admin", "Governance"},
}

// Layout wraps a page body with the document shell and sidebar.
func Layout(title string, sidebar SidebarParams, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.rawf(`<title>%s · DG Reference</title>`, title)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/table.js" defer></script></head><body>`)

		h.raw(`<nav class="sidebar"><a class="brand" href="/">DG Reference</a><ul class="pages">`)
		for _, p := range pages {
			active := ""
			if p.key == sidebar.ActivePage {
				active = "active"
			}
			h.rawf(`<li><a class="%s" href="%s">%s</a></li>`, active, templ.URL(p.href), p.label)
		}
		h.raw(`</ul>`)
		for _, g := range sidebar.Groups {
			h.rawf(`<h3>%s</h3><ul class="tables">`, g.Name)
			for _, t := range g.Tables {
				active := ""
				if t.Key == sidebar.ActiveTable {
					active = "active"
				}
				h.rawf(`<li><a class="%s" href="%s">%s</a></li>`, active, tableURL(t.Key), t.Label)
			}
			h.raw(`</ul>`)
		}
		if sidebar.Edition != "" {
			h.rawf(`<p class="edition">%s</p>`, sidebar.Edition)
		}
		h.raw(`</nav><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// ErrorAlert renders an error fragment for HTMX requests.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert">`)
		h.rawf(`<strong>%s</strong>`, message)
		if action != "" {
			h.rawf(`<p>%s</p>`, action)
		}
		h.rawf(`<small>Code: %s</small></div>`, code)
	})
}
