package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dgref/internal/core"
)

// ManualIndex lists the chapters matching query, or all chapters when the
// query is empty.
func ManualIndex(sidebar SidebarParams, query string, chapters []core.Chapter) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Manual</h1>`)
		h.rawf(`<form class="search" method="get" action="/manual"><input type="search" name="q" value="%s" placeholder="Search the manual"><button>Search</button></form>`, query)
		if query != "" {
			h.rawf(`<p class="meta">%d chapters match “%s”</p>`, len(chapters), query)
		}
		h.raw(`<ol class="chapters">`)
		for _, ch := range chapters {
			h.rawf(`<li><a href="%s">%s. %s</a>`, chapterURL(ch.ID), ch.ID, ch.Title)
			if ch.Summary != "" {
				h.rawf(`<p>%s</p>`, ch.Summary)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ol>`)
	})
	return Layout("Manual", sidebar, body)
}

// ChapterView renders one chapter with all its blocks.
func ChapterView(sidebar SidebarParams, ch core.Chapter) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<h1>%s. %s</h1>`, ch.ID, ch.Title)
		for _, sec := range ch.Sections {
			h.rawf(`<section id="%s"><h2>%s %s</h2>`, sec.ID, sec.ID, sec.Title)
			for _, b := range sec.Blocks {
				block(h, b)
			}
			h.raw(`</section>`)
		}
	})
	return Layout(ch.Title, sidebar, body)
}

func block(h *htmlWriter, b core.Block) {
	switch b := b.(type) {
	case core.Paragraph:
		h.rawf(`<p>%s</p>`, b.Text)
	case core.List:
		tag := "ul"
		if b.Ordered {
			tag = "ol"
		}
		h.raw("<" + tag + ">")
		for _, item := range b.Items {
			h.rawf(`<li>%s</li>`, item)
		}
		h.raw("</" + tag + ">")
	case core.TableBlock:
		h.raw(`<table class="content">`)
		if b.Caption != "" {
			h.rawf(`<caption>%s</caption>`, b.Caption)
		}
		h.raw(`<thead><tr>`)
		for _, hd := range b.Headers {
			h.rawf(`<th>%s</th>`, hd)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range b.Rows {
			h.raw(`<tr>`)
			for _, c := range row {
				h.rawf(`<td>%s</td>`, c)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	case core.Note:
		h.rawf(`<aside class="note">%s</aside>`, b.Text)
	case core.Warning:
		h.rawf(`<aside class="warning">%s</aside>`, b.Text)
	case core.DatabaseRef:
		caption := b.Caption
		if caption == "" {
			caption = b.Dataset
		}
		h.rawf(`<p class="dataset"><a href="%s">%s</a></p>`, tableURL(b.Dataset), caption)
	case core.VisualMark:
		h.rawf(`<figure class="mark mark-%s"><div class="mark-symbol">%s</div>`, b.Mark, b.Mark)
		if b.Caption != "" {
			h.rawf(`<figcaption>%s</figcaption>`, b.Caption)
		}
		h.raw(`</figure>`)
	case core.Tool:
		label := b.Label
		if label == "" {
			label = b.Name
		}
		h.rawf(`<div class="tool" data-tool="%s">%s</div>`, b.Name, label)
	}
}
