package application

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "Dangerous Goods Reference",
		Items: []MenuItem{
			{Label: "Tables ->", Submenu: loadTablesMenu(m)},
			{Label: "Look up UN number", Action: func() tea.Cmd {
				return emit(promptMsg{label: "UN number", submit: submitLookup})
			}},
			{Label: "Manual ->", Submenu: loadManualMenu(m)},
			{Label: "Ask the assistant", Action: func() tea.Cmd {
				return emit(promptMsg{label: "Question", submit: submitQuestion})
			}},
			{Label: "Audit shipment", Action: func() tea.Cmd {
				return emit(promptMsg{label: "UN numbers, comma separated", submit: submitAudit})
			}},
		},
	}

	if m.deps.Syncer != nil {
		root.Items = append(root.Items, MenuItem{Label: "Validate catalog", Action: m.startSync})
	}
	root.Items = append(root.Items, MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }})

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

// loadTablesMenu lists the catalog tables under their group names.
func loadTablesMenu(m *Model) *Menu {
	menu := &Menu{Title: "Tables"}
	for _, key := range m.deps.Catalog.Keys() {
		info, _ := m.deps.Catalog.Info(key)
		label := info.Label
		if info.Group != "" {
			label = info.Group + " / " + info.Label
		}
		menu.Items = append(menu.Items, MenuItem{Label: label, Action: func() tea.Cmd {
			return emit(openTableMsg{key: key})
		}})
	}
	menu.Items = append(menu.Items, MenuItem{Label: "Back"})
	return menu
}

func loadManualMenu(m *Model) *Menu {
	menu := &Menu{Title: "Manual"}
	if m.deps.Manual != nil {
		for _, ch := range m.deps.Manual.Chapters() {
			menu.Items = append(menu.Items, MenuItem{Label: fmt.Sprintf("%s. %s", ch.ID, ch.Title), Action: func() tea.Cmd {
				return emit(openChapterMsg{id: ch.ID})
			}})
		}
	}
	menu.Items = append(menu.Items, MenuItem{Label: "Back"})
	return menu
}

/* ----------------------------------------
	PROMPT HANDLERS
---------------------------------------- */

func submitLookup(m *Model, value string) tea.Cmd {
	number, err := core.ParseUN(value)
	if err != nil {
		return emit(ErrMsg{Err: err})
	}
	m.showEntry(number)
	return nil
}

func submitQuestion(m *Model, value string) tea.Cmd {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return m.ask(chatCmd(m.deps.Assistant, value))
}

func submitAudit(m *Model, value string) tea.Cmd {
	var shipment ai.Shipment
	for _, raw := range strings.Split(value, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		number, err := core.ParseUN(raw)
		if err != nil {
			return emit(ErrMsg{Err: err})
		}
		entries := m.deps.Catalog.EntriesByUN(number)
		if len(entries) == 0 {
			return emit(ErrMsg{Err: fmt.Errorf("UN %s: %w", number, core.ErrNotFound)})
		}
		shipment.Entries = append(shipment.Entries, entries...)
	}
	if len(shipment.Entries) == 0 {
		return nil
	}
	return m.ask(auditCmd(m.deps.Assistant, shipment))
}

// submitFilter applies the input to the selected column of the open table.
func submitFilter(m *Model, value string) tea.Cmd {
	if m.table != nil {
		m.table.setFilter(value)
	}
	return nil
}
