package core

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Chapter is a top-level part of the regulatory manual.
type Chapter struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Summary  string    `yaml:"summary" json:"summary,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section is a titled run of content blocks inside a chapter.
type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Blocks []Block `yaml:"-" json:"blocks"`
}

// Block is one content block. The set of implementations is closed: only the
// types in this file satisfy it.
type Block interface {
	// BlockType returns the tag used in the embedded manual data.
	BlockType() string
	sealed()
}

// Paragraph is running text.
type Paragraph struct {
	Text string `yaml:"text" json:"text"`
}

// List is a bulleted or numbered list.
type List struct {
	Ordered bool     `yaml:"ordered" json:"ordered"`
	Items   []string `yaml:"items" json:"items"`
}

// TableBlock is a table embedded in the manual text. Cells are kept as
// strings; numeric cells are written as text in the source data.
type TableBlock struct {
	Caption string     `yaml:"caption" json:"caption,omitempty"`
	Headers []string   `yaml:"headers" json:"headers"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// Note is an informational callout.
type Note struct {
	Text string `yaml:"text" json:"text"`
}

// Warning is a cautionary callout.
type Warning struct {
	Text string `yaml:"text" json:"text"`
}

// DatabaseRef embeds a live view of a dataset.
type DatabaseRef struct {
	Dataset string `yaml:"dataset" json:"dataset"`
	Caption string `yaml:"caption" json:"caption,omitempty"`
}

// VisualMark shows a hazard label or handling mark.
type VisualMark struct {
	Mark    string `yaml:"mark" json:"mark"`
	Caption string `yaml:"caption" json:"caption,omitempty"`
}

// Tool embeds an interactive helper (calculator, checklist).
type Tool struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label,omitempty"`
}

func (Paragraph) BlockType() string   { return "paragraph" }
func (List) BlockType() string        { return "list" }
func (TableBlock) BlockType() string  { return "table" }
func (Note) BlockType() string        { return "note" }
func (Warning) BlockType() string     { return "warning" }
func (DatabaseRef) BlockType() string { return "database" }
func (VisualMark) BlockType() string  { return "visual-mark" }
func (Tool) BlockType() string        { return "tool" }

func (Paragraph) sealed()   {}
func (List) sealed()        {}
func (TableBlock) sealed()  {}
func (Note) sealed()        {}
func (Warning) sealed()     {}
func (DatabaseRef) sealed() {}
func (VisualMark) sealed()  {}
func (Tool) sealed()        {}

// UnmarshalYAML decodes a section and its tagged blocks.
func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		ID     string      `yaml:"id"`
		Title  string      `yaml:"title"`
		Blocks []yaml.Node `yaml:"blocks"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Title = raw.Title
	s.Blocks = make([]Block, 0, len(raw.Blocks))
	for i := range raw.Blocks {
		b, err := decodeBlock(&raw.Blocks[i])
		if err != nil {
			return fmt.Errorf("section %s block %d: %w", raw.ID, i, err)
		}
		s.Blocks = append(s.Blocks, b)
	}
	return nil
}

// MarshalJSON emits each block together with its type tag.
func (s Section) MarshalJSON() ([]byte, error) {
	type taggedBlock struct {
		Type string `json:"type"`
		Data Block  `json:"data"`
	}
	blocks := make([]taggedBlock, len(s.Blocks))
	for i, b := range s.Blocks {
		blocks[i] = taggedBlock{Type: b.BlockType(), Data: b}
	}
	return json.Marshal(struct {
		ID     string        `json:"id"`
		Title  string        `json:"title"`
		Blocks []taggedBlock `json:"blocks"`
	}{s.ID, s.Title, blocks})
}

// decodeBlock picks the concrete block type from the node's "type" field.
func decodeBlock(node *yaml.Node) (Block, error) {
	var tag struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case "paragraph":
		var b Paragraph
		err := node.Decode(&b)
		return b, err
	case "list":
		var b List
		err := node.Decode(&b)
		return b, err
	case "table":
		var b TableBlock
		err := node.Decode(&b)
		return b, err
	case "note":
		var b Note
		err := node.Decode(&b)
		return b, err
	case "warning":
		var b Warning
		err := node.Decode(&b)
		return b, err
	case "database":
		var b DatabaseRef
		err := node.Decode(&b)
		return b, err
	case "visual-mark":
		var b VisualMark
		err := node.Decode(&b)
		return b, err
	case "tool":
		var b Tool
		err := node.Decode(&b)
		return b, err
	default:
		return nil, fmt.Errorf("unknown block type %q", tag.Type)
	}
}

// ParseChapters decodes a YAML document holding a list of chapters.
func ParseChapters(data []byte) ([]Chapter, error) {
	var doc struct {
		Chapters []Chapter `yaml:"chapters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse chapters: %w", err)
	}
	return doc.Chapters, nil
}
