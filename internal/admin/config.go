// Package admin holds the regulatory governance state of the reference
// catalog and the job that validates the catalog against it.
package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DateLayout is the wire and storage format of EffectiveDate.
const DateLayout = "2006-01-02"

// DataSource records where the loaded catalog came from.
type DataSource string

const (
	SourceEmbedded DataSource = "embedded"
	SourceSynced   DataSource = "synced"
	SourceManual   DataSource = "manual"
)

// ValidationStatus is the outcome of the last catalog validation.
type ValidationStatus string

const (
	StatusValidated ValidationStatus = "validated"
	StatusPending   ValidationStatus = "pending"
	StatusFailed    ValidationStatus = "failed"
)

// RegulatoryConfig describes which edition of the regulations the catalog
// represents and whether it has been validated.
type RegulatoryConfig struct {
	Edition          string           `json:"edition"`
	EffectiveDate    time.Time        `json:"effectiveDate"`
	DataSource       DataSource       `json:"dataSource"`
	ValidationStatus ValidationStatus `json:"validationStatus"`
	LastSync         *time.Time       `json:"lastSync,omitempty"`
	ActiveVariations int              `json:"activeVariations"`
}

// Validate reports every problem with cfg in a single error.
func (cfg RegulatoryConfig) Validate() error {
	var problems []string

	if strings.TrimSpace(cfg.Edition) == "" {
		problems = append(problems, "edition is required")
	}
	if cfg.EffectiveDate.IsZero() {
		problems = append(problems, "effective date is required")
	}
	switch cfg.DataSource {
	case SourceEmbedded, SourceSynced, SourceManual:
	default:
		problems = append(problems, fmt.Sprintf("unknown data source %q", cfg.DataSource))
	}
	switch cfg.ValidationStatus {
	case StatusValidated, StatusPending, StatusFailed:
	default:
		problems = append(problems, fmt.Sprintf("unknown validation status %q", cfg.ValidationStatus))
	}
	if cfg.ActiveVariations < 0 {
		problems = append(problems, "active variations must be >= 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid regulatory config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Default returns the configuration of a freshly started server: the
// embedded catalog, awaiting its first validation.
func Default(edition string, effective time.Time) RegulatoryConfig {
	return RegulatoryConfig{
		Edition:          edition,
		EffectiveDate:    effective,
		DataSource:       SourceEmbedded,
		ValidationStatus: StatusPending,
	}
}

// ConfigUpdate is a partial update from the admin API. Nil fields are left
// unchanged.
type ConfigUpdate struct {
	Edition       *string     `json:"edition"`
	EffectiveDate *string     `json:"effectiveDate"`
	DataSource    *DataSource `json:"dataSource"`
}

// Apply returns cfg with the update applied. Any change resets the
// validation status to pending.
func (u ConfigUpdate) Apply(cfg RegulatoryConfig) (RegulatoryConfig, error) {
	changed := false
	if u.Edition != nil {
		cfg.Edition = strings.TrimSpace(*u.Edition)
		changed = true
	}
	if u.EffectiveDate != nil {
		d, err := time.Parse(DateLayout, strings.TrimSpace(*u.EffectiveDate))
		if err != nil {
			return cfg, fmt.Errorf("invalid regulatory config: effective date %q is not YYYY-MM-DD", *u.EffectiveDate)
		}
		cfg.EffectiveDate = d
		changed = true
	}
	if u.DataSource != nil {
		cfg.DataSource = *u.DataSource
		changed = true
	}
	if changed {
		cfg.ValidationStatus = StatusPending
	}
	return cfg, cfg.Validate()
}

// Store persists the single RegulatoryConfig.
type Store interface {
	Get(ctx context.Context) (RegulatoryConfig, error)
	Save(ctx context.Context, cfg RegulatoryConfig) error
}

// MemoryStore keeps the configuration in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	cfg RegulatoryConfig
}

// NewMemoryStore creates a store seeded with initial.
func NewMemoryStore(initial RegulatoryConfig) *MemoryStore {
	return &MemoryStore{cfg: initial}
}

func (s *MemoryStore) Get(ctx context.Context) (RegulatoryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

// Save replaces the stored configuration after validating it.
func (s *MemoryStore) Save(ctx context.Context, cfg RegulatoryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
