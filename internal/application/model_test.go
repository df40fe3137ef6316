package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
)

type stubProvider struct {
	prompt string
}

func (p *stubProvider) Generate(ctx context.Context, request ai.Request) (*ai.Response, error) {
	p.prompt = request.Prompt
	return &ai.Response{Text: "Cargo aircraft only."}, nil
}

func rec(kv ...string) core.Record {
	fields := make(map[string]core.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = core.Text(kv[i+1])
	}
	return core.NewRecord(fields)
}

func static(key string, cols []string, rows ...core.Record) core.TableDefinition {
	columns := make([]core.Column, len(cols))
	for i, c := range cols {
		columns[i] = core.Column{Key: c, Label: strings.ToUpper(c), Width: 80, Filterable: true}
	}
	return core.TableDefinition{
		Info: core.TableInfo{Key: key, Group: "Lookups", Label: key, Columns: columns, RowHeight: 45},
		Load: func() []core.Record { return rows },
	}
}

func testCatalog() *core.Store {
	return core.NewStore(
		static(core.DatasetUNEntries, []string{"un", "name", "class", "pg", "pax_pi", "cao_pi", "sp"},
			rec("un", "1203", "name", "Gasoline", "class", "3", "pg", "II", "pax_pi", "353"),
			rec("un", "1263", "name", "Paint", "class", "3", "pg", "II", "pax_pi", "353"),
			rec("un", "1263", "name", "Paint", "class", "3", "pg", "III", "pax_pi", "353"),
			rec("un", "3480", "name", "Lithium ion batteries", "class", "9", "pax_pi", "Forbidden", "cao_pi", "965", "sp", "A88"),
		),
		static(core.DatasetPackingInstructions, []string{"code", "title"},
			rec("code", "353", "title", "Flammable liquids"),
			rec("code", "965", "title", "Lithium ion batteries"),
		),
		static(core.DatasetSpecialProvisions, []string{"code", "text"},
			rec("code", "A88", "text", "Prototype batteries"),
		),
		static(core.DatasetVariations, []string{"code", "text"}),
	)
}

func testModel(t *testing.T, provider ai.Provider) *Model {
	t.Helper()
	catalog := testCatalog()
	configs := admin.NewMemoryStore(admin.Default("67th Edition 2026", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	deps := Deps{
		Catalog: catalog,
		Manual: core.NewManual([]core.Chapter{{ID: "4", Title: "Identification", Sections: []core.Section{
			{ID: "4.2", Title: "Batteries", Blocks: []core.Block{core.Paragraph{Text: "Lithium batteries are class 9."}}},
		}}}),
		Syncer: admin.NewSyncer(catalog, configs, admin.SyncOptions{FirstUN: 1203, LastUN: 1203}),
		Style:  "notty",
	}
	if provider != nil {
		deps.Assistant = ai.NewAssistant(provider, nil, ai.Options{})
	}

	m := New(deps)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 80})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds every resulting message back into the model.
func press(m *Model, msg tea.KeyMsg) {
	_, cmd := m.Update(msg)
	for _, out := range drain(cmd) {
		m.Update(out)
	}
}

// drain runs cmd and flattens batches into their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, drain(c)...)
	}
	return out
}

func typeLine(m *Model, s string) {
	m.Update(runes(s))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestMenuNavigation(t *testing.T) {
	m := testModel(t, nil)
	assert.Equal(t, "Dangerous Goods Reference", m.menu.Title)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Tables", m.menu.Title)
	assert.Contains(t, m.View(), "Lookups / "+core.DatasetUNEntries)

	press(m, runes("j"))
	assert.Equal(t, 1, m.cursor)

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, "Dangerous Goods Reference", m.menu.Title)
	assert.Equal(t, 0, m.cursor)
}

func TestMenuBackItemReturnsToParent(t *testing.T) {
	m := testModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}) // Tables
	for range len(m.menu.Items) - 1 {
		press(m, runes("j"))
	}
	require.Equal(t, "Back", m.menu.Items[m.cursor].Label)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Dangerous Goods Reference", m.menu.Title)
}

func TestOpenTableSortsSelectedColumn(t *testing.T) {
	m := testModel(t, nil)
	m.Update(openTableMsg{key: core.DatasetUNEntries})
	require.Equal(t, modeTable, m.mode)
	require.Len(t, m.table.rows, 4)

	press(m, runes("l")) // name column
	press(m, runes("s"))
	assert.Equal(t, "Gasoline", m.table.rows[0].Text("name"))
	assert.Contains(t, m.View(), "sort name asc")

	press(m, runes("s"))
	assert.Equal(t, "Paint", m.table.rows[0].Text("name"))
	assert.Equal(t, "Gasoline", m.table.rows[3].Text("name"))
}

func TestTableFilterPrompt(t *testing.T) {
	m := testModel(t, nil)
	m.Update(openTableMsg{key: core.DatasetUNEntries})

	press(m, runes("/"))
	require.Equal(t, modeInput, m.mode)
	assert.Contains(t, m.View(), "Filter UN")

	typeLine(m, "1263")
	assert.Equal(t, modeTable, m.mode)
	assert.Len(t, m.table.rows, 2)
	assert.Contains(t, m.View(), `un~"1263"`)

	press(m, runes("/"))
	typeLine(m, "")
	assert.Len(t, m.table.rows, 4)
}

func TestTableCursorScrolls(t *testing.T) {
	m := testModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 8}) // two visible rows
	m.Update(openTableMsg{key: core.DatasetUNEntries})
	require.Equal(t, 2, m.table.height)

	press(m, runes("G"))
	assert.Equal(t, 3, m.table.cursor)
	assert.Equal(t, 2, m.table.offset)
	w := m.table.window()
	assert.Equal(t, 2, w.Start)
	assert.Equal(t, 4, w.End)

	press(m, runes("g"))
	assert.Equal(t, 0, m.table.offset)
}

func TestSelectEntryShowsCrossReferences(t *testing.T) {
	m := testModel(t, nil)
	m.Update(openTableMsg{key: core.DatasetUNEntries})
	press(m, runes("G"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, modeText, m.mode)
	view := m.View()
	assert.Contains(t, view, "UN 3480")
	assert.Contains(t, view, "965")
	assert.Contains(t, view, "A88")

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeTable, m.mode)
}

func TestLookupPrompt(t *testing.T) {
	m := testModel(t, nil)

	press(m, runes("u"))
	require.Equal(t, modeInput, m.mode)
	typeLine(m, "un1263")
	require.Equal(t, modeText, m.mode)
	assert.Contains(t, m.View(), "Paint")

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeMenu, m.mode)

	press(m, runes("u"))
	typeLine(m, "9999")
	assert.Equal(t, modeMenu, m.mode)
	assert.True(t, errors.Is(m.err, core.ErrNotFound))
	assert.Contains(t, m.View(), "reference not found")
}

func TestPromptEscapeCancels(t *testing.T) {
	m := testModel(t, nil)
	press(m, runes("u"))
	m.Update(runes("12"))
	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeMenu, m.mode)
	assert.Nil(t, m.err)
}

func TestOpenChapter(t *testing.T) {
	m := testModel(t, nil)
	m.Update(openChapterMsg{id: "4"})
	require.Equal(t, modeText, m.mode)
	assert.Contains(t, m.View(), "Lithium batteries are class 9.")

	m.Update(openChapterMsg{id: "99"})
	assert.True(t, errors.Is(m.err, core.ErrNotFound))
}

func TestAskAssistant(t *testing.T) {
	provider := &stubProvider{}
	m := testModel(t, provider)

	press(m, runes("a"))
	typeLine(m, "Can I carry spare batteries?")

	assert.False(t, m.busy)
	require.Equal(t, modeText, m.mode)
	assert.Equal(t, "Assistant", m.textTitle)
	assert.Contains(t, m.View(), "Cargo aircraft only.")
	assert.Contains(t, provider.prompt, "spare batteries")
}

func TestVerifySelectedEntry(t *testing.T) {
	provider := &stubProvider{}
	m := testModel(t, provider)
	m.Update(openTableMsg{key: core.DatasetUNEntries})

	press(m, runes("v"))
	require.Equal(t, modeText, m.mode)
	assert.Equal(t, "Verify UN 1203", m.textTitle)
	assert.Contains(t, provider.prompt, "1203")

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeTable, m.mode)
}

func TestAuditPrompt(t *testing.T) {
	provider := &stubProvider{}
	m := testModel(t, provider)

	m.Update(promptMsg{label: "UN numbers", submit: submitAudit})
	typeLine(m, "1203, 3480")
	require.Equal(t, modeText, m.mode)
	assert.Equal(t, "Shipment audit", m.textTitle)
	assert.Contains(t, provider.prompt, "3480")

	m.Update(promptMsg{label: "UN numbers", submit: submitAudit})
	typeLine(m, "12a")
	assert.NotNil(t, m.err)
}

func TestAskWithoutAssistant(t *testing.T) {
	m := testModel(t, nil)
	press(m, runes("a"))
	typeLine(m, "hello")
	assert.ErrorIs(t, m.err, errNoAssistant)
	assert.Equal(t, modeMenu, m.mode)
}

func TestValidateCatalog(t *testing.T) {
	m := testModel(t, nil)
	for i, item := range m.menu.Items {
		if item.Label == "Validate catalog" {
			m.cursor = i
		}
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.busy)
	assert.Contains(t, m.status, "Catalog valid: 4 entries")
}

func TestQuit(t *testing.T) {
	m := testModel(t, nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
