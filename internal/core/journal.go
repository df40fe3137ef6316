package core

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ConsultationKind identifies which assistant request was made.
type ConsultationKind string

const (
	KindChat   ConsultationKind = "chat"
	KindAudit  ConsultationKind = "audit"
	KindVerify ConsultationKind = "verify"
)

// ConsultationStatus is the outcome of an assistant request.
type ConsultationStatus string

const (
	StatusOK           ConsultationStatus = "ok"
	StatusUnconfigured ConsultationStatus = "unconfigured"
	StatusFailed       ConsultationStatus = "failed"
)

const (
	// DefaultJournalLimit is the page size used when a filter sets none.
	DefaultJournalLimit = 50

	// DefaultJournalCapacity bounds the in-memory journal.
	DefaultJournalCapacity = 500

	// promptExcerptLen is the number of runes of the prompt kept per entry.
	promptExcerptLen = 200
)

// Consultation is one recorded assistant request.
type Consultation struct {
	ID         string             `json:"id"`
	Kind       ConsultationKind   `json:"kind"`
	Status     ConsultationStatus `json:"status"`
	Prompt     string             `json:"prompt"`
	Sources    int                `json:"sources"`
	DurationMS int64              `json:"durationMs"`
	IPAddress  string             `json:"ipAddress,omitempty"`
	UserAgent  string             `json:"userAgent,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// ConsultationParams contains the fields supplied by the caller when
// recording a consultation. IP address and user agent are taken from the
// context when left empty.
type ConsultationParams struct {
	Kind      ConsultationKind
	Status    ConsultationStatus
	Prompt    string
	Sources   int
	Duration  time.Duration
	IPAddress string
	UserAgent string
}

// JournalFilter contains filtering options for listing consultations.
type JournalFilter struct {
	Kind      ConsultationKind
	Status    ConsultationStatus
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// Journal records assistant consultations. Implementations must be safe for
// concurrent use.
type Journal interface {
	Record(ctx context.Context, params ConsultationParams) (*Consultation, error)
	List(ctx context.Context, filter JournalFilter) ([]Consultation, error)
	Count(ctx context.Context, filter JournalFilter) (int64, error)
}

// NewConsultation builds an entry with a fresh id and timestamp.
func NewConsultation(ctx context.Context, params ConsultationParams) Consultation {
	client := ClientFrom(ctx)
	ip := params.IPAddress
	if ip == "" {
		ip = client.IP
	}
	ua := params.UserAgent
	if ua == "" {
		ua = client.UserAgent
	}
	return Consultation{
		ID:         uuid.NewString(),
		Kind:       params.Kind,
		Status:     params.Status,
		Prompt:     Excerpt(params.Prompt, promptExcerptLen),
		Sources:    params.Sources,
		DurationMS: params.Duration.Milliseconds(),
		IPAddress:  ip,
		UserAgent:  ua,
		CreatedAt:  time.Now().UTC(),
	}
}

// Excerpt collapses whitespace and truncates s to at most n runes.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

// Matches reports whether c passes the filter's kind, status and time bounds.
func (f JournalFilter) Matches(c Consultation) bool {
	if f.Kind != "" && c.Kind != f.Kind {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if !f.StartTime.IsZero() && c.CreatedAt.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && c.CreatedAt.After(f.EndTime) {
		return false
	}
	return true
}

// MemoryJournal keeps the most recent consultations in a bounded ring.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Consultation
	next    int
	full    bool
}

// NewMemoryJournal creates a journal holding at most capacity entries.
func NewMemoryJournal(capacity int) *MemoryJournal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &MemoryJournal{entries: make([]Consultation, capacity)}
}

// Record stores a consultation, evicting the oldest when full.
func (j *MemoryJournal) Record(ctx context.Context, params ConsultationParams) (*Consultation, error) {
	c := NewConsultation(ctx, params)

	j.mu.Lock()
	j.entries[j.next] = c
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
	j.mu.Unlock()

	return &c, nil
}

// List returns matching consultations, newest first.
func (j *MemoryJournal) List(ctx context.Context, filter JournalFilter) ([]Consultation, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultJournalLimit
	}
	matched := j.matching(filter)
	if filter.Offset >= len(matched) {
		return []Consultation{}, nil
	}
	end := min(len(matched), filter.Offset+filter.Limit)
	return matched[filter.Offset:end], nil
}

// Count returns the number of consultations matching the filter.
func (j *MemoryJournal) Count(ctx context.Context, filter JournalFilter) (int64, error) {
	return int64(len(j.matching(filter))), nil
}

func (j *MemoryJournal) matching(filter JournalFilter) []Consultation {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.next
	if j.full {
		n = len(j.entries)
	}
	out := make([]Consultation, 0, n)
	for i := 1; i <= n; i++ {
		c := j.entries[(j.next-i+len(j.entries))%len(j.entries)]
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
