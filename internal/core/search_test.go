package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manualYAML = `
chapters:
  - id: "1"
    title: Applicability
    sections:
      - id: "1.1"
        title: General
        blocks:
          - type: paragraph
            text: These regulations apply to all operators.
          - type: note
            text: Hidden Needle inside a note.
  - id: "4"
    title: Identification
    sections:
      - id: "4.2"
        title: List of Dangerous Goods
        blocks:
          - type: table
            caption: Columns
            headers: [Column, Meaning]
            rows:
              - [A, UN number]
              - [L, Passenger packing instruction]
          - type: database
            dataset: un-entries
  - id: "10"
    title: Radioactive Material
    sections:
      - id: "10.5"
        title: Transport Index
        blocks:
          - type: warning
            text: Check the transport index.
          - type: list
            ordered: true
            items: [Measure, Round up]
          - type: visual-mark
            mark: radioactive-yellow-iii
          - type: tool
            name: ti-calculator
`

func loadManual(t *testing.T) *Manual {
	t.Helper()
	chapters, err := ParseChapters([]byte(manualYAML))
	require.NoError(t, err)
	return NewManual(chapters)
}

func chapterIDs(chs []Chapter) []string {
	out := make([]string, len(chs))
	for i, c := range chs {
		out[i] = c.ID
	}
	return out
}

func TestParseChapters(t *testing.T) {
	m := loadManual(t)
	require.Len(t, m.Chapters(), 3)

	ch, ok := m.Chapter("10")
	require.True(t, ok)
	blocks := ch.Sections[0].Blocks
	require.Len(t, blocks, 4)
	assert.Equal(t, Warning{Text: "Check the transport index."}, blocks[0])
	assert.Equal(t, List{Ordered: true, Items: []string{"Measure", "Round up"}}, blocks[1])
	assert.Equal(t, "visual-mark", blocks[2].BlockType())
	assert.Equal(t, Tool{Name: "ti-calculator"}, blocks[3])

	_, ok = m.Chapter("99")
	assert.False(t, ok)
}

func TestParseChaptersUnknownBlock(t *testing.T) {
	_, err := ParseChapters([]byte(`
chapters:
  - id: "1"
    title: Bad
    sections:
      - id: "1.1"
        title: Bad
        blocks:
          - type: video
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown block type "video"`)
}

func TestSearchChapters(t *testing.T) {
	m := loadManual(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title case insensitive", "RADIOACTIVE", []string{"10"}},
		{"section title", "list of dangerous", []string{"4"}},
		{"paragraph text", "operators", []string{"1"}},
		{"table cell", "passenger packing", []string{"4"}},
		{"note not indexed", "needle", []string{}},
		{"warning not indexed", "check the transport", []string{}},
		{"list not indexed", "round up", []string{}},
		{"id literal", "10", []string{"10"}},
		{"empty query matches all", "", []string{"1", "4", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Search(tt.query)
			assert.Equal(t, tt.want, chapterIDs(got))
		})
	}
}

func TestSearchChaptersDeepTableRow(t *testing.T) {
	rows := make([][]string, 1000)
	for i := range rows {
		rows[i] = []string{FormatUN(i + 1), "Filler entry", "9"}
	}
	rows[500][1] = "Sodium azide"

	chapters := []Chapter{
		{ID: "2", Title: "Limitations", Sections: []Section{{ID: "2.1", Title: "General"}}},
		{ID: "4", Title: "Identification", Sections: []Section{
			{ID: "4.2", Title: "List", Blocks: []Block{TableBlock{Headers: []string{"UN", "Name", "Class"}, Rows: rows}}},
		}},
	}

	assert.Equal(t, []string{"4"}, chapterIDs(SearchChapters(chapters, "SODIUM AZIDE")))
	assert.Equal(t, []string{"4"}, chapterIDs(SearchChapters(chapters, "1000")))
	assert.Empty(t, chapterIDs(SearchChapters(chapters, "potassium")))
}

func TestBlockMatches(t *testing.T) {
	tests := []struct {
		block Block
		want  bool
	}{
		{Paragraph{Text: "Lithium batteries"}, true},
		{TableBlock{Rows: [][]string{{"x"}, {"LITHIUM"}}}, true},
		{TableBlock{Headers: []string{"Lithium"}}, false},
		{Note{Text: "lithium"}, false},
		{Warning{Text: "lithium"}, false},
		{List{Items: []string{"lithium"}}, false},
		{DatabaseRef{Dataset: "lithium"}, false},
		{VisualMark{Mark: "lithium"}, false},
		{Tool{Name: "lithium"}, false},
	}

	for _, tt := range tests {
		if got := BlockMatches(tt.block, "lithium"); got != tt.want {
			t.Errorf("BlockMatches(%#v) = %v, want %v", tt.block, got, tt.want)
		}
	}
}

func TestSectionMarshalJSON(t *testing.T) {
	sec := Section{ID: "1.1", Title: "General", Blocks: []Block{Note{Text: "n"}}}
	data, err := json.Marshal(sec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1.1","title":"General","blocks":[{"type":"note","data":{"text":"n"}}]}`, string(data))
}

func TestRegisteredChapters(t *testing.T) {
	chapterLoadersMu.Lock()
	saved := chapterLoaders
	chapterLoaders = nil
	chapterLoadersMu.Unlock()
	t.Cleanup(func() {
		chapterLoadersMu.Lock()
		chapterLoaders = saved
		chapterLoadersMu.Unlock()
	})

	RegisterChapters(func() []Chapter { return []Chapter{{ID: "1"}} })
	RegisterChapters(func() []Chapter { return []Chapter{{ID: "2"}, {ID: "3"}} })

	assert.Equal(t, []string{"1", "2", "3"}, chapterIDs(RegisteredChapters()))
}
