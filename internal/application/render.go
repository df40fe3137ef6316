package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
)

// newRenderer builds a glamour renderer with a fixed style so nothing
// queries the terminal once bubbletea owns it. A nil renderer means plain
// markdown output.
func newRenderer(style string, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown falls back to the raw text when rendering fails.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// EntryMarkdown describes the cross references of a UN number.
func EntryMarkdown(refs []core.CrossReference) string {
	var b strings.Builder
	for i, ref := range refs {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		e := ref.Entry
		fmt.Fprintf(&b, "## UN %s %s\n\n", e.Text("un"), e.Text("name"))
		fmt.Fprintf(&b, "| Class | Sub risk | PG | Label | EQ | ERG |\n|---|---|---|---|---|---|\n| %s | %s | %s | %s | %s | %s |\n\n",
			cell(e.Text("class")), cell(e.Text("sub_risk")), cell(e.Text("pg")),
			cell(e.Text("label")), cell(e.Text("eq")), cell(e.Text("erg")))
		fmt.Fprintf(&b, "| | PI | Max net qty |\n|---|---|---|\n| Passenger LQ | %s | %s |\n| Passenger | %s | %s |\n| Cargo only | %s | %s |\n\n",
			cell(e.Text("lq_pi")), cell(e.Text("lq_max")),
			cell(e.Text("pax_pi")), cell(e.Text("pax_max")),
			cell(e.Text("cao_pi")), cell(e.Text("cao_max")))

		section(&b, "Packing instructions", ref.PackingInstructions, func(r core.Record) string {
			return fmt.Sprintf("**%s** %s", r.Text("code"), r.Text("title"))
		})
		section(&b, "Special provisions", ref.SpecialProvisions, func(r core.Record) string {
			return fmt.Sprintf("**%s** %s", r.Text("code"), r.Text("text"))
		})
		section(&b, "Variations", ref.Variations, func(r core.Record) string {
			return fmt.Sprintf("**%s** (%s) %s", r.Text("code"), r.Text("owner"), r.Text("text"))
		})
		if ref.Segregation != nil {
			b.WriteString("### Segregation\n\n")
			seg := *ref.Segregation
			var pairs []string
			for _, k := range seg.Keys() {
				if k == "class" {
					continue
				}
				pairs = append(pairs, fmt.Sprintf("%s: %s", k, cell(seg.Text(k))))
			}
			fmt.Fprintf(&b, "Class %s against %s\n\n", seg.Text("class"), strings.Join(pairs, ", "))
		}
	}
	return b.String()
}

func section(b *strings.Builder, title string, rows []core.Record, line func(core.Record) string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, r := range rows {
		fmt.Fprintf(b, "- %s\n", line(r))
	}
	b.WriteByte('\n')
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// ChapterMarkdown renders a manual chapter.
func ChapterMarkdown(ch core.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s. %s\n\n", ch.ID, ch.Title)
	if ch.Summary != "" {
		fmt.Fprintf(&b, "_%s_\n\n", ch.Summary)
	}
	for _, s := range ch.Sections {
		fmt.Fprintf(&b, "## %s %s\n\n", s.ID, s.Title)
		for _, block := range s.Blocks {
			writeBlock(&b, block)
		}
	}
	return b.String()
}

func writeBlock(b *strings.Builder, block core.Block) {
	switch v := block.(type) {
	case core.Paragraph:
		fmt.Fprintf(b, "%s\n\n", v.Text)
	case core.List:
		for i, item := range v.Items {
			if v.Ordered {
				fmt.Fprintf(b, "%d. %s\n", i+1, item)
			} else {
				fmt.Fprintf(b, "- %s\n", item)
			}
		}
		b.WriteByte('\n')
	case core.TableBlock:
		if v.Caption != "" {
			fmt.Fprintf(b, "**%s**\n\n", v.Caption)
		}
		if len(v.Headers) > 0 {
			fmt.Fprintf(b, "| %s |\n|%s\n", strings.Join(v.Headers, " | "), strings.Repeat("---|", len(v.Headers)))
			for _, row := range v.Rows {
				fmt.Fprintf(b, "| %s |\n", strings.Join(row, " | "))
			}
			b.WriteByte('\n')
		}
	case core.Note:
		fmt.Fprintf(b, "> **Note:** %s\n\n", v.Text)
	case core.Warning:
		fmt.Fprintf(b, "> **Warning:** %s\n\n", v.Text)
	case core.DatabaseRef:
		fmt.Fprintf(b, "_See table %s: %s_\n\n", v.Dataset, v.Caption)
	case core.VisualMark:
		fmt.Fprintf(b, "_[%s] %s_\n\n", v.Mark, v.Caption)
	case core.Tool:
		fmt.Fprintf(b, "_Tool: %s_\n\n", v.Label)
	}
}

// AnswerMarkdown renders an assistant answer and its sources.
func AnswerMarkdown(answer ai.Answer) string {
	var b strings.Builder
	b.WriteString(answer.Text)
	if len(answer.Sources) > 0 {
		b.WriteString("\n\n### Sources\n\n")
		for _, s := range answer.Sources {
			fmt.Fprintf(&b, "- [%s](%s)\n", s.Title, s.URI)
		}
	}
	return b.String()
}

// RenderMarkdown renders md with a glamour style for the given width.
func RenderMarkdown(style string, width int, md string) string {
	return renderMarkdown(newRenderer(style, width), md)
}
