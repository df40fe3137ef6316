package database

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dgref/internal/core"
)

const insertConsultation = `INSERT INTO consultation_log
    (id, kind, status, prompt, sources, duration_ms, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const consultationColumns = `id, kind, status, prompt, sources, duration_ms, ip_address, user_agent, created_at`

// InsertConsultationParams are the columns of one consultation_log row.
type InsertConsultationParams struct {
	ID         pgtype.UUID
	Kind       string
	Status     string
	Prompt     string
	Sources    int32
	DurationMS int64
	IPAddress  *netip.Addr
	UserAgent  pgtype.Text
	CreatedAt  pgtype.Timestamptz
}

// InsertConsultation writes one journal row.
func (q *Queries) InsertConsultation(ctx context.Context, arg InsertConsultationParams) error {
	_, err := q.db.Exec(ctx, insertConsultation,
		arg.ID,
		arg.Kind,
		arg.Status,
		arg.Prompt,
		arg.Sources,
		arg.DurationMS,
		arg.IPAddress,
		arg.UserAgent,
		arg.CreatedAt,
	)
	return err
}

// JournalStore implements core.Journal on PostgreSQL.
type JournalStore struct {
	db DBTX
}

// NewJournalStore creates a journal over db.
func NewJournalStore(db DBTX) *JournalStore {
	return &JournalStore{db: db}
}

// Record inserts a consultation.
func (j *JournalStore) Record(ctx context.Context, params core.ConsultationParams) (*core.Consultation, error) {
	c := core.NewConsultation(ctx, params)
	err := New(j.db).InsertConsultation(ctx, InsertConsultationParams{
		ID:         ToPgUUID(c.ID),
		Kind:       string(c.Kind),
		Status:     string(c.Status),
		Prompt:     c.Prompt,
		Sources:    int32(c.Sources),
		DurationMS: c.DurationMS,
		IPAddress:  ToInet(c.IPAddress),
		UserAgent:  ToPgText(c.UserAgent),
		CreatedAt:  pgtype.Timestamptz{Time: c.CreatedAt, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("insert consultation: %w", err)
	}
	return &c, nil
}

// List returns matching consultations, newest first.
func (j *JournalStore) List(ctx context.Context, filter core.JournalFilter) ([]core.Consultation, error) {
	if filter.Limit <= 0 {
		filter.Limit = core.DefaultJournalLimit
	}
	wb := journalWhere(filter)
	whereClause, args := wb.Build()

	query := "SELECT " + consultationColumns + " FROM consultation_log" + whereClause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", wb.NextArgIndex(), wb.NextArgIndex()+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := j.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	out := make([]core.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of consultations matching the filter.
func (j *JournalStore) Count(ctx context.Context, filter core.JournalFilter) (int64, error) {
	whereClause, args := journalWhere(filter).Build()
	var n int64
	if err := j.db.QueryRow(ctx, "SELECT COUNT(*) FROM consultation_log"+whereClause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count consultations: %w", err)
	}
	return n, nil
}

func journalWhere(filter core.JournalFilter) *WhereBuilder {
	wb := NewWhereBuilder()
	wb.Add("kind", string(filter.Kind))
	wb.Add("status", string(filter.Status))

	start := filter.StartTime
	if start.IsZero() {
		start = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	end := filter.EndTime
	if end.IsZero() {
		end = time.Now().Add(24 * time.Hour)
	}
	wb.AddTimestampRange("created_at", start, end)
	return wb
}

func scanConsultation(row pgx.Row) (core.Consultation, error) {
	var (
		id        pgtype.UUID
		kind      string
		status    string
		c         core.Consultation
		sources   int32
		ip        *netip.Addr
		userAgent pgtype.Text
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &kind, &status, &c.Prompt, &sources, &c.DurationMS, &ip, &userAgent, &createdAt); err != nil {
		return core.Consultation{}, fmt.Errorf("scan consultation: %w", err)
	}
	c.ID = PgUUIDToString(id)
	c.Kind = core.ConsultationKind(kind)
	c.Status = core.ConsultationStatus(status)
	c.Sources = int(sources)
	if ip != nil {
		c.IPAddress = ip.String()
	}
	c.UserAgent = userAgent.String
	c.CreatedAt = createdAt.Time.UTC()
	return c, nil
}

var _ core.Journal = (*JournalStore)(nil)
