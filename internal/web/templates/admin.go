package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/core"
)

// AdminPage shows the regulatory configuration and recent consultations.
func AdminPage(sidebar SidebarParams, cfg admin.RegulatoryConfig, consultations []core.Consultation, total int64) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Governance</h1><section id="regulatory-config">`)
		h.render(ctx, ConfigPanel(cfg, nil))
		h.raw(`</section>`)

		h.rawf(`<section><h2>Recent consultations</h2><p class="meta">%d total</p>`, total)
		h.raw(`<table class="grid static"><thead><tr><th>Time</th><th>Kind</th><th>Status</th><th>Sources</th><th>Duration</th><th>Prompt</th></tr></thead><tbody>`)
		for _, c := range consultations {
			h.rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d ms</td><td>%s</td></tr>`,
				c.CreatedAt.Format("2006-01-02 15:04:05"), string(c.Kind), string(c.Status), c.Sources, c.DurationMS, c.Prompt)
		}
		h.raw(`</tbody></table></section>`)
	})
	return Layout("Governance", sidebar, body)
}

// ConfigPanel renders the configuration and, after a sync, its report.
func ConfigPanel(cfg admin.RegulatoryConfig, report *admin.Report) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		lastSync := "never"
		if cfg.LastSync != nil {
			lastSync = cfg.LastSync.Format("2006-01-02 15:04:05 MST")
		}
		h.raw(`<h2>Regulatory configuration</h2><dl>`)
		h.rawf(`<dt>Edition</dt><dd>%s</dd>`, cfg.Edition)
		h.rawf(`<dt>Effective date</dt><dd>%s</dd>`, cfg.EffectiveDate.Format(admin.DateLayout))
		h.rawf(`<dt>Data source</dt><dd>%s</dd>`, string(cfg.DataSource))
		h.rawf(`<dt>Validation</dt><dd class="status-%s">%s</dd>`, string(cfg.ValidationStatus), string(cfg.ValidationStatus))
		h.rawf(`<dt>Last sync</dt><dd>%s</dd>`, lastSync)
		h.rawf(`<dt>Active variations</dt><dd>%d</dd></dl>`, cfg.ActiveVariations)
		h.raw(`<form method="post" action="/admin/sync" data-target="#regulatory-config"><button>Validate catalog now</button></form>`)

		if report != nil {
			h.rawf(`<div class="report"><p>%d entries checked in %d ms.</p>`, report.Entries, report.DurationMS)
			problems(h, "Missing packing instructions", report.MissingPIs)
			problems(h, "Missing special provisions", report.MissingSPs)
			problems(h, "Uncovered UN numbers", report.UncoveredUN)
			h.raw(`</div>`)
		}
	})
}

func problems(h *htmlWriter, title string, items []string) {
	if len(items) == 0 {
		return
	}
	h.rawf(`<h4>%s (%d)</h4><p>`, title, len(items))
	for i, item := range items {
		if i == 20 {
			h.rawf(` and %d more`, len(items)-i)
			break
		}
		if i > 0 {
			h.raw(", ")
		}
		h.text(item)
	}
	h.raw(`</p>`)
}
