package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dgref/internal/admin"
)

const getRegulatoryConfig = `SELECT edition, effective_date, data_source, validation_status, last_sync, active_variations
FROM regulatory_config WHERE id = 1`

const upsertRegulatoryConfig = `INSERT INTO regulatory_config
    (id, edition, effective_date, data_source, validation_status, last_sync, active_variations, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
    edition = EXCLUDED.edition,
    effective_date = EXCLUDED.effective_date,
    data_source = EXCLUDED.data_source,
    validation_status = EXCLUDED.validation_status,
    last_sync = EXCLUDED.last_sync,
    active_variations = EXCLUDED.active_variations,
    updated_at = now()`

// RegulatoryConfigRow is the stored form of admin.RegulatoryConfig.
type RegulatoryConfigRow struct {
	Edition          string
	EffectiveDate    pgtype.Date
	DataSource       string
	ValidationStatus string
	LastSync         pgtype.Timestamptz
	ActiveVariations int32
}

// GetRegulatoryConfig returns the stored row or pgx.ErrNoRows.
func (q *Queries) GetRegulatoryConfig(ctx context.Context) (RegulatoryConfigRow, error) {
	var row RegulatoryConfigRow
	err := q.db.QueryRow(ctx, getRegulatoryConfig).Scan(
		&row.Edition,
		&row.EffectiveDate,
		&row.DataSource,
		&row.ValidationStatus,
		&row.LastSync,
		&row.ActiveVariations,
	)
	return row, err
}

// UpsertRegulatoryConfig writes the single configuration row.
func (q *Queries) UpsertRegulatoryConfig(ctx context.Context, row RegulatoryConfigRow) error {
	_, err := q.db.Exec(ctx, upsertRegulatoryConfig,
		row.Edition,
		row.EffectiveDate,
		row.DataSource,
		row.ValidationStatus,
		row.LastSync,
		row.ActiveVariations,
	)
	return err
}

// RegulatoryStore implements admin.Store on PostgreSQL. When no row exists
// yet, Get returns the fallback it was created with.
type RegulatoryStore struct {
	db       DBTX
	fallback admin.RegulatoryConfig
}

// NewRegulatoryStore creates a store over db.
func NewRegulatoryStore(db DBTX, fallback admin.RegulatoryConfig) *RegulatoryStore {
	return &RegulatoryStore{db: db, fallback: fallback}
}

func (s *RegulatoryStore) Get(ctx context.Context) (admin.RegulatoryConfig, error) {
	row, err := New(s.db).GetRegulatoryConfig(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.fallback, nil
	}
	if err != nil {
		return admin.RegulatoryConfig{}, fmt.Errorf("get regulatory config: %w", err)
	}
	return regulatoryFromRow(row), nil
}

// Save validates cfg and writes it.
func (s *RegulatoryStore) Save(ctx context.Context, cfg admin.RegulatoryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := New(s.db).UpsertRegulatoryConfig(ctx, regulatoryToRow(cfg)); err != nil {
		return fmt.Errorf("save regulatory config: %w", err)
	}
	return nil
}

func regulatoryToRow(cfg admin.RegulatoryConfig) RegulatoryConfigRow {
	return RegulatoryConfigRow{
		Edition:          cfg.Edition,
		EffectiveDate:    ToPgDate(cfg.EffectiveDate),
		DataSource:       string(cfg.DataSource),
		ValidationStatus: string(cfg.ValidationStatus),
		LastSync:         ToPgTimestamptz(cfg.LastSync),
		ActiveVariations: int32(cfg.ActiveVariations),
	}
}

func regulatoryFromRow(row RegulatoryConfigRow) admin.RegulatoryConfig {
	cfg := admin.RegulatoryConfig{
		Edition:          row.Edition,
		DataSource:       admin.DataSource(row.DataSource),
		ValidationStatus: admin.ValidationStatus(row.ValidationStatus),
		ActiveVariations: int(row.ActiveVariations),
	}
	if row.EffectiveDate.Valid {
		cfg.EffectiveDate = row.EffectiveDate.Time
	}
	if row.LastSync.Valid {
		t := row.LastSync.Time.UTC()
		cfg.LastSync = &t
	}
	return cfg
}

// compile-time check
var _ admin.Store = (*RegulatoryStore)(nil)
