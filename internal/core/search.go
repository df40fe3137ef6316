package core

import (
	"strings"
	"sync"
)

var (
	chapterLoaders   []func() []Chapter
	chapterLoadersMu sync.Mutex
)

// RegisterChapters adds a source of manual chapters. Chapters from all sources
// are concatenated in registration order.
func RegisterChapters(load func() []Chapter) {
	chapterLoadersMu.Lock()
	defer chapterLoadersMu.Unlock()
	chapterLoaders = append(chapterLoaders, load)
}

// RegisteredChapters builds the chapter list from every registered source.
func RegisteredChapters() []Chapter {
	chapterLoadersMu.Lock()
	loaders := make([]func() []Chapter, len(chapterLoaders))
	copy(loaders, chapterLoaders)
	chapterLoadersMu.Unlock()

	var chapters []Chapter
	for _, load := range loaders {
		chapters = append(chapters, load()...)
	}
	return chapters
}

// Manual is the immutable chapter tree of the regulatory manual.
type Manual struct {
	chapters []Chapter
	byID     map[string]int
}

// NewManual wraps chapters in a Manual, keeping their order.
func NewManual(chapters []Chapter) *Manual {
	m := &Manual{
		chapters: make([]Chapter, len(chapters)),
		byID:     make(map[string]int, len(chapters)),
	}
	copy(m.chapters, chapters)
	for i, ch := range m.chapters {
		m.byID[ch.ID] = i
	}
	return m
}

// Chapters returns every chapter in manual order.
func (m *Manual) Chapters() []Chapter {
	out := make([]Chapter, len(m.chapters))
	copy(out, m.chapters)
	return out
}

// Chapter returns the chapter with the given id.
func (m *Manual) Chapter(id string) (Chapter, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Chapter{}, false
	}
	return m.chapters[i], true
}

// Search returns the chapters containing query. See SearchChapters.
func (m *Manual) Search(query string) []Chapter {
	return SearchChapters(m.chapters, query)
}

// SearchChapters returns the chapters that contain query, in their original
// order. Titles and block text are matched case-insensitively; the chapter id
// is matched literally. Only paragraph text and table cells are searched
// inside sections.
func SearchChapters(chapters []Chapter, query string) []Chapter {
	lower := strings.ToLower(query)
	out := make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if chapterMatches(ch, query, lower) {
			out = append(out, ch)
		}
	}
	return out
}

func chapterMatches(ch Chapter, query, lower string) bool {
	if strings.Contains(strings.ToLower(ch.Title), lower) {
		return true
	}
	if strings.Contains(ch.ID, query) {
		return true
	}
	for _, sec := range ch.Sections {
		if sectionMatches(sec, lower) {
			return true
		}
	}
	return false
}

func sectionMatches(sec Section, lower string) bool {
	if strings.Contains(strings.ToLower(sec.Title), lower) {
		return true
	}
	for _, b := range sec.Blocks {
		if BlockMatches(b, lower) {
			return true
		}
	}
	return false
}

// BlockMatches reports whether a block contains the lower-cased query.
// Notes, warnings, lists, marks, embedded datasets and tools are not indexed
// by the chapter search.
func BlockMatches(b Block, lower string) bool {
	switch b := b.(type) {
	case Paragraph:
		return strings.Contains(strings.ToLower(b.Text), lower)
	case TableBlock:
		for _, row := range b.Rows {
			for _, cell := range row {
				if strings.Contains(strings.ToLower(cell), lower) {
					return true
				}
			}
		}
		return false
	case List, Note, Warning, DatabaseRef, VisualMark, Tool:
		return false
	default:
		return false
	}
}
