package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dgref/internal/ai"
)

// AssistantPage renders the chat and shipment audit forms.
func AssistantPage(sidebar SidebarParams, configured bool) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Assistant</h1>`)
		if !configured {
			h.rawf(`<div class="alert">%s</div>`, ai.UnconfiguredMessage)
		}
		h.raw(`<section><h2>Ask a question</h2>`)
		h.raw(`<form method="post" action="/assistant/chat" data-target="#chat-answer">`)
		h.raw(`<textarea name="question" rows="3" required></textarea><button>Ask</button></form>`)
		h.raw(`<div id="chat-answer"></div></section>`)

		h.raw(`<section><h2>Audit a shipment</h2>`)
		h.raw(`<form method="post" action="/assistant/audit" data-target="#audit-answer">`)
		h.raw(`<label>UN numbers <input name="un" placeholder="3480, 1263"></label>`)
		h.raw(`<textarea name="description" rows="3" placeholder="Packaging, quantities, aircraft type"></textarea>`)
		h.raw(`<button>Audit</button></form><div id="audit-answer"></div></section>`)
	})
	return Layout("Assistant", sidebar, body)
}

// Answer renders an assistant answer with its sources.
func Answer(answer ai.Answer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<div class="answer answer-%s"><p>%s</p>`, string(answer.Status), answer.Text)
		if len(answer.Sources) > 0 {
			h.raw(`<h4>Sources</h4><ul class="sources">`)
			for _, src := range answer.Sources {
				title := src.Title
				if title == "" {
					title = src.URI
				}
				h.rawf(`<li><a href="%s" rel="noopener noreferrer" target="_blank">%s</a></li>`, templ.URL(src.URI), title)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</div>`)
	})
}

// AnswerPage wraps Answer for non-HTMX form posts.
func AnswerPage(sidebar SidebarParams, title string, answer ai.Answer) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<h1>%s</h1>`, title)
		h.render(ctx, Answer(answer))
		h.raw(`<p><a href="/assistant">Back to the assistant</a></p>`)
	})
	return Layout(title, sidebar, body)
}
