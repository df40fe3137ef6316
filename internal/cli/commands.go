package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/application"
	"github.com/JonMunkholm/dgref/internal/core"
)

const markdownWidth = 100

var errCatalogInvalid = errors.New("catalog validation failed")

/* ----------------------------------------
	CATALOG
---------------------------------------- */

type tableSummary struct {
	Key   string `json:"key"`
	Group string `json:"group"`
	Label string `json:"label"`
	Rows  int    `json:"rows"`
}

func (r *runner) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}

			var out []tableSummary
			for _, key := range app.Catalog.Keys() {
				t, err := app.Catalog.LoadTable(key)
				if err != nil {
					return err
				}
				out = append(out, tableSummary{Key: key, Group: t.Info.Group, Label: t.Info.Label, Rows: t.Len()})
			}

			if r.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, len(out))
			for i, s := range out {
				rows[i] = []string{s.Key, s.Group, s.Label, fmt.Sprint(s.Rows)}
			}
			return printTable(cmd.OutOrStdout(), []string{"Table", "Group", "Label", "Rows"}, rows)
		},
	}
}

type rowsOutput struct {
	Table   string             `json:"table"`
	Total   int                `json:"total"`
	Start   int                `json:"start"`
	End     int                `json:"end"`
	Filters core.ColumnFilters `json:"filters"`
	Sort    core.SortState     `json:"sort"`
	Rows    []core.Record      `json:"rows"`
}

func (r *runner) rowsCmd() *cobra.Command {
	var (
		filters []string
		sortCol string
		desc    bool
		offset  int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "rows <table>",
		Short: "Print a filtered, sorted window of a table",
		Long: `Print a filtered, sorted window of a table.

  Filters are case-insensitive substring matches on one column each. Filters
  and sort columns that are not part of the table are ignored.`,
		Example: `  dgref rows un-entries --filter class=9 --sort name --limit 5
  dgref rows packing-instructions --filter code=96 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			t, err := app.Catalog.LoadTable(args[0])
			if err != nil {
				return err
			}

			fs := core.ColumnFilters{}
			for _, f := range filters {
				col, text, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q: want column=text", f)
				}
				if t.Info.HasColumn(col) {
					fs[col] = text
				}
			}
			var sort core.SortState
			if sortCol != "" && t.Info.HasColumn(sortCol) {
				sort = core.SortState{Column: sortCol, Dir: core.SortAsc}
				if desc {
					sort.Dir = core.SortDesc
				}
			}

			rows := t.Query(fs, sort)
			w := core.Window(core.Viewport{
				TotalRows:      len(rows),
				RowHeight:      1,
				ViewportHeight: max(limit, 0),
				ScrollOffset:   max(offset, 0),
			})
			page := core.SliceWindow(rows, w)

			if r.json {
				return writeJSON(cmd.OutOrStdout(), rowsOutput{
					Table: t.Info.Key, Total: len(rows), Start: w.Start, End: w.End,
					Filters: fs.Active(), Sort: sort, Rows: page,
				})
			}

			headers := make([]string, len(t.Info.Columns))
			for i, c := range t.Info.Columns {
				headers[i] = c.Label
			}
			cells := make([][]string, len(page))
			for i, rec := range page {
				cells[i] = make([]string, len(t.Info.Columns))
				for j, c := range t.Info.Columns {
					cells[i][j] = rec.Text(c.Key)
				}
			}
			if err := printTable(cmd.OutOrStdout(), headers, cells); err != nil {
				return err
			}
			if w.Empty() {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "no rows (%d matching)\n", len(rows))
			} else {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "rows %d-%d of %d\n", w.Start+1, w.End, len(rows))
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "column=text filter, repeatable")
	cmd.Flags().StringVarP(&sortCol, "sort", "s", "", "column to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&offset, "offset", 0, "first row to print")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of rows to print")
	return cmd
}

/* ----------------------------------------
	LOOKUP AND MANUAL
---------------------------------------- */

type lookupOutput struct {
	UN      string                `json:"un"`
	Entries []core.CrossReference `json:"entries"`
}

func (r *runner) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <un-number>",
		Short:   "Show a UN entry with its packing instructions, provisions and variations",
		Example: "  dgref lookup 3480\n  dgref lookup UN1263 --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			number, err := core.ParseUN(args[0])
			if err != nil {
				return err
			}
			entries := app.Catalog.EntriesByUN(number)
			if len(entries) == 0 {
				return fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
			}

			resolver := core.NewResolver(app.Catalog)
			refs := make([]core.CrossReference, len(entries))
			for i, e := range entries {
				refs[i] = resolver.Resolve(e)
			}

			if r.json {
				return writeJSON(cmd.OutOrStdout(), lookupOutput{UN: number, Entries: refs})
			}
			return printMarkdown(cmd.OutOrStdout(), application.EntryMarkdown(refs))
		},
	}
}

type chapterOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type searchOutput struct {
	Query    string          `json:"query"`
	Chapters []chapterOutput `json:"chapters"`
	Entries  []core.Record   `json:"entries"`
}

func (r *runner) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the manual; UN numbers also match catalog entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))

			out := searchOutput{Query: query, Chapters: []chapterOutput{}, Entries: []core.Record{}}
			for _, ch := range app.Manual.Search(query) {
				out.Chapters = append(out.Chapters, chapterOutput{ID: ch.ID, Title: ch.Title})
			}
			if number, err := core.ParseUN(query); err == nil {
				if entries := app.Catalog.EntriesByUN(number); entries != nil {
					out.Entries = entries
				}
			}

			if r.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			if len(out.Chapters) == 0 && len(out.Entries) == 0 {
				_, err := fmt.Fprintf(w, "no matches for %q\n", query)
				return err
			}
			for _, e := range out.Entries {
				fmt.Fprintf(w, "UN %s  %s  class %s  PG %s\n", e.Text("un"), e.Text("name"), e.Text("class"), e.Text("pg"))
			}
			for _, ch := range out.Chapters {
				fmt.Fprintf(w, "%-4s %s\n", ch.ID, ch.Title)
			}
			return nil
		},
	}
}

func (r *runner) chapterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapter <id>",
		Short: "Print a manual chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			ch, ok := app.Manual.Chapter(args[0])
			if !ok {
				return fmt.Errorf("chapter not found: %q: %w", args[0], core.ErrNotFound)
			}
			if r.json {
				return writeJSON(cmd.OutOrStdout(), ch)
			}
			return printMarkdown(cmd.OutOrStdout(), application.ChapterMarkdown(ch))
		},
	}
}

/* ----------------------------------------
	ASSISTANT
---------------------------------------- */

func (r *runner) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			answer := app.Assistant.Chat(cmd.Context(), strings.Join(args, " "))
			return r.printAnswer(cmd.OutOrStdout(), answer)
		},
	}
}

func (r *runner) auditCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:     "audit <un-number>...",
		Short:   "Ask the assistant to audit a shipment",
		Example: `  dgref audit 3480 1263 --description "power banks packed with paint"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			shipment := ai.Shipment{Description: description}
			for _, raw := range args {
				number, err := core.ParseUN(raw)
				if err != nil {
					return err
				}
				entries := app.Catalog.EntriesByUN(number)
				if len(entries) == 0 {
					return fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
				}
				shipment.Entries = append(shipment.Entries, entries...)
			}
			if len(shipment.Entries) == 0 && strings.TrimSpace(description) == "" {
				return errors.New("audit needs UN numbers or a --description")
			}
			return r.printAnswer(cmd.OutOrStdout(), app.Assistant.AuditShipment(cmd.Context(), shipment))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description of the shipment")
	return cmd
}

func (r *runner) verifyCmd() *cobra.Command {
	var pg string

	cmd := &cobra.Command{
		Use:   "verify <un-number>",
		Short: "Ask the assistant to check a catalog entry against current regulations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			number, err := core.ParseUN(args[0])
			if err != nil {
				return err
			}
			entries := app.Catalog.EntriesByUN(number)
			if len(entries) == 0 {
				return fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
			}
			entry := entries[0]
			for _, e := range entries {
				if pg != "" && e.Text("pg") == pg {
					entry = e
					break
				}
			}
			return r.printAnswer(cmd.OutOrStdout(), app.Assistant.VerifyRecord(cmd.Context(), core.DatasetUNEntries, entry))
		},
	}
	cmd.Flags().StringVar(&pg, "pg", "", "packing group of the entry (I, II or III)")
	return cmd
}

// printAnswer prints the answer; a failed request exits non-zero after the
// message is shown.
func (r *runner) printAnswer(w io.Writer, answer ai.Answer) error {
	var err error
	if r.json {
		err = writeJSON(w, answer)
	} else {
		err = printMarkdown(w, application.AnswerMarkdown(answer))
	}
	if err != nil {
		return err
	}
	if answer.Status == core.StatusFailed {
		return errors.New("assistant request failed")
	}
	return nil
}

/* ----------------------------------------
	GOVERNANCE AND BROWSER
---------------------------------------- */

func (r *runner) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every catalog reference resolves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			report, err := app.Syncer.Run(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if r.json {
				err = writeJSON(w, report)
			} else {
				fmt.Fprintf(w, "entries: %d\nactive variations: %d\n", report.Entries, report.ActiveVariations)
				printList(w, "missing packing instructions", report.MissingPIs)
				printList(w, "missing special provisions", report.MissingSPs)
				printList(w, "uncovered UN numbers", report.UncoveredUN)
			}
			if err != nil {
				return err
			}
			if !report.OK() {
				return errCatalogInvalid
			}
			return nil
		},
	}
}

func (r *runner) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive terminal browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.services(cmd)
			if err != nil {
				return err
			}
			model := application.New(application.Deps{
				Catalog:   app.Catalog,
				Manual:    app.Manual,
				Assistant: app.Assistant,
				Syncer:    app.Syncer,
				Style:     markdownStyle(cmd.OutOrStdout()),
			})
			_, err = tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

/* ----------------------------------------
	OUTPUT
---------------------------------------- */

func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printMarkdown(w io.Writer, md string) error {
	_, err := fmt.Fprintln(w, application.RenderMarkdown(markdownStyle(w), markdownWidth, md))
	return err
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d): %s\n", title, len(items), strings.Join(items, ", "))
}
