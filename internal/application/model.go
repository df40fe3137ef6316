package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	// Lines taken by the title, status and help bars.
	chromeHeight = 5
)

var errNoAssistant = errors.New("assistant not available")

type mode int

const (
	modeMenu mode = iota
	modeTable
	modeText
	modeInput
)

// Deps are the services the terminal browser reads from. Syncer and
// Assistant may be nil.
type Deps struct {
	Catalog   *core.Store
	Manual    *core.Manual
	Assistant *ai.Assistant
	Syncer    *admin.Syncer

	// Style is the glamour style used for answers and chapters.
	Style string
}

// Model is the bubbletea model of the terminal browser.
type Model struct {
	deps     Deps
	keys     KeyMap
	resolver *core.Resolver

	mode mode
	back mode // mode restored when a text or input screen closes

	menu   *Menu
	cursor int

	table *tableView

	text      viewport.Model
	textTitle string
	renderer  *glamour.TermRenderer

	input  textinput.Model
	prompt promptMsg

	spinner spinner.Model
	busy    bool

	status string
	err    error

	width  int
	height int
}

// New builds the browser model.
func New(deps Deps) *Model {
	if deps.Style == "" {
		deps.Style = "dark"
	}

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	m := &Model{
		deps:     deps,
		keys:     DefaultKeyMap,
		resolver: core.NewResolver(deps.Catalog),
		text:     viewport.New(defaultWidth, defaultHeight-chromeHeight),
		renderer: newRenderer(deps.Style, defaultWidth-4),
		input:    in,
		spinner:  spin,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.menu = buildMenuTree(m)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		m.showText(msg.title, renderMarkdown(m.renderer, AnswerMarkdown(msg.answer)))
		return m, nil

	case openTableMsg:
		m.openTable(msg.key)
		return m, nil

	case openChapterMsg:
		m.showChapter(msg.id)
		return m, nil

	case promptMsg:
		return m, m.openPrompt(msg)

	case admin.SyncMsg:
		m.busy = false
		m.handleSync(msg)
		return m, nil

	case DoneMsg:
		m.busy = false
		m.status, m.err = string(msg), nil
		return m, nil

	case ErrMsg:
		m.busy = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	body := max(m.height-chromeHeight, 1)

	m.text.Width = m.width
	m.text.Height = body
	m.input.Width = max(m.width-4, 10)
	m.renderer = newRenderer(m.deps.Style, m.width-4)

	if m.table != nil {
		m.table.resize(body - 1) // header line
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if m.mode == modeInput {
		return m.handleInputKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	m.err = nil

	switch m.mode {
	case modeTable:
		return m.handleTableKey(msg)
	case modeText:
		return m.handleTextKey(msg)
	default:
		return m.handleMenuKey(msg)
	}
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Back):
		if m.menu.Parent != nil {
			m.menu, m.cursor = m.menu.Parent, 0
		}
	case key.Matches(msg, m.keys.Lookup):
		return emit(promptMsg{label: "UN number", submit: submitLookup})
	case key.Matches(msg, m.keys.Ask):
		return emit(promptMsg{label: "Question", submit: submitQuestion})
	case key.Matches(msg, m.keys.Select):
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.menu, m.cursor = item.Submenu, 0
		case item.Action != nil:
			return item.Action()
		}
	}
	return nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	tv := m.table
	switch {
	case key.Matches(msg, m.keys.Up):
		tv.move(-1)
	case key.Matches(msg, m.keys.Down):
		tv.move(1)
	case key.Matches(msg, m.keys.PageUp):
		tv.move(-tv.height)
	case key.Matches(msg, m.keys.PageDown):
		tv.move(tv.height)
	case key.Matches(msg, m.keys.Home):
		tv.move(-len(tv.rows))
	case key.Matches(msg, m.keys.End):
		tv.move(len(tv.rows))
	case key.Matches(msg, m.keys.Left):
		tv.moveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		tv.moveColumn(1)
	case key.Matches(msg, m.keys.Sort):
		tv.toggleSort()
	case key.Matches(msg, m.keys.Filter):
		col := tv.selectedColumn()
		return emit(promptMsg{label: "Filter " + col.Label, submit: submitFilter})
	case key.Matches(msg, m.keys.Lookup):
		return emit(promptMsg{label: "UN number", submit: submitLookup})
	case key.Matches(msg, m.keys.Select):
		if rec, ok := tv.selected(); ok && tv.table.Info.Key == core.DatasetUNEntries {
			m.showEntry(rec.Text("un"))
		}
	case key.Matches(msg, m.keys.Verify):
		if rec, ok := tv.selected(); ok && tv.table.Info.Key == core.DatasetUNEntries {
			return m.ask(verifyCmd(m.deps.Assistant, rec))
		}
	case key.Matches(msg, m.keys.Back):
		m.mode = modeMenu
	}
	return nil
}

func (m *Model) handleTextKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Back) {
		m.mode = m.back
		return nil
	}
	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	return cmd
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = m.back
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		value := m.input.Value()
		m.mode = m.back
		m.input.Blur()
		return m.prompt.submit(m, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) openPrompt(p promptMsg) tea.Cmd {
	if m.mode != modeInput {
		m.back = m.mode
	}
	m.prompt = p
	m.mode = modeInput
	m.input.Placeholder = p.label
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) openTable(name string) {
	table, err := m.deps.Catalog.LoadTable(name)
	if err != nil {
		m.err = err
		return
	}
	m.table = newTableView(table, max(m.height-chromeHeight-1, 1))
	m.mode = modeTable
}

func (m *Model) showChapter(id string) {
	if m.deps.Manual == nil {
		return
	}
	ch, ok := m.deps.Manual.Chapter(id)
	if !ok {
		m.err = fmt.Errorf("chapter %q: %w", id, core.ErrNotFound)
		return
	}
	m.showText(ch.Title, renderMarkdown(m.renderer, ChapterMarkdown(ch)))
}

// showEntry opens the cross references of a UN number.
func (m *Model) showEntry(number string) {
	entries := m.deps.Catalog.EntriesByUN(number)
	if len(entries) == 0 {
		m.err = fmt.Errorf("UN %s: %w", number, core.ErrNotFound)
		return
	}
	refs := make([]core.CrossReference, len(entries))
	for i, e := range entries {
		refs[i] = m.resolver.Resolve(e)
	}
	m.showText("UN "+number, renderMarkdown(m.renderer, EntryMarkdown(refs)))
}

func (m *Model) showText(title, content string) {
	if m.mode != modeText {
		m.back = m.mode
	}
	m.textTitle = title
	m.text.SetContent(content)
	m.text.GotoTop()
	m.mode = modeText
}

// ask starts an assistant request and the spinner.
func (m *Model) ask(cmd tea.Cmd) tea.Cmd {
	if m.deps.Assistant == nil {
		m.err = errNoAssistant
		return nil
	}
	m.busy = true
	m.status = "Asking the assistant..."
	return tea.Batch(cmd, m.spinner.Tick)
}

// startSync runs a catalog validation with the spinner showing.
func (m *Model) startSync() tea.Cmd {
	m.busy = true
	m.status = "Validating catalog..."
	return tea.Batch(m.deps.Syncer.SyncCmd(), m.spinner.Tick)
}

func (m *Model) handleSync(msg admin.SyncMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		return
	}
	r := msg.Report
	if r.OK() {
		m.status = fmt.Sprintf("Catalog valid: %d entries, %d active variations", r.Entries, r.ActiveVariations)
		return
	}
	m.status = fmt.Sprintf("Catalog invalid: %d missing PIs, %d missing SPs, %d uncovered UN numbers",
		len(r.MissingPIs), len(r.MissingSPs), len(r.UncoveredUN))
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	switch m.mode {
	case modeTable:
		b.WriteString(titleStyle.Render(m.table.table.Info.Label))
		b.WriteByte('\n')
		b.WriteString(m.table.render(m.width))
	case modeText:
		b.WriteString(titleStyle.Render(m.textTitle))
		b.WriteByte('\n')
		b.WriteString(m.text.View())
		b.WriteByte('\n')
	case modeInput:
		b.WriteString(titleStyle.Render(m.input.Placeholder))
		b.WriteByte('\n')
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	default:
		b.WriteString(m.viewMenu())
	}

	b.WriteByte('\n')
	b.WriteString(m.viewStatus())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteByte('\n')
	for i, item := range m.menu.Items {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + item.Label))
		} else {
			b.WriteString(itemStyle.Render(item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) viewStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case m.busy:
		return m.spinner.View() + " " + statusStyle.Render(m.status)
	case m.mode == modeTable:
		return statusStyle.Render(m.table.status())
	default:
		return statusStyle.Render(m.status)
	}
}

func (m *Model) help() string {
	var bindings []key.Binding
	switch m.mode {
	case modeTable:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Sort, m.keys.Filter, m.keys.Select, m.keys.Verify, m.keys.Back}
	case modeText:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Back, m.keys.Quit}
	case modeInput:
		return "enter submit • esc cancel"
	default:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Lookup, m.keys.Ask, m.keys.Back, m.keys.Quit}
	}
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, " • ")
}
