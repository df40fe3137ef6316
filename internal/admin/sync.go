package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/logging"
)

// SyncTimeout is the maximum duration of one validation run.
const SyncTimeout = 30 * time.Second

// SyncOptions bounds the UN range that must be covered by un-entries. A zero
// LastUN skips the coverage check.
type SyncOptions struct {
	FirstUN int
	LastUN  int
}

// Report is the result of one catalog validation.
type Report struct {
	Entries          int      `json:"entries"`
	MissingPIs       []string `json:"missingPackingInstructions"`
	MissingSPs       []string `json:"missingSpecialProvisions"`
	UncoveredUN      []string `json:"uncoveredUnNumbers"`
	ActiveVariations int      `json:"activeVariations"`
	DurationMS       int64    `json:"durationMs"`
}

// OK reports whether the catalog passed every check.
func (r Report) OK() bool {
	return len(r.MissingPIs) == 0 && len(r.MissingSPs) == 0 && len(r.UncoveredUN) == 0
}

// Syncer validates the loaded catalog and records the outcome in the
// configuration store. Runs are serialized.
type Syncer struct {
	catalog *core.Store
	configs Store
	opts    SyncOptions

	mu sync.Mutex
}

// NewSyncer creates a Syncer over catalog that writes results to configs.
func NewSyncer(catalog *core.Store, configs Store, opts SyncOptions) *Syncer {
	return &Syncer{catalog: catalog, configs: configs, opts: opts}
}

// Run validates the catalog once and updates ValidationStatus, LastSync and
// ActiveVariations. A catalog that fails validation is not an error: the
// status becomes failed and the report lists the problems.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	report, err := s.check(ctx)
	if err != nil {
		return report, fmt.Errorf("validate catalog: %w", err)
	}
	report.DurationMS = time.Since(start).Milliseconds()

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return report, fmt.Errorf("load regulatory config: %w", err)
	}
	now := time.Now().UTC()
	cfg.LastSync = &now
	cfg.ActiveVariations = report.ActiveVariations
	cfg.ValidationStatus = StatusValidated
	if !report.OK() {
		cfg.ValidationStatus = StatusFailed
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return report, fmt.Errorf("save regulatory config: %w", err)
	}
	return report, nil
}

func (s *Syncer) check(ctx context.Context) (Report, error) {
	entries, err := s.catalog.LoadTable(core.DatasetUNEntries)
	if err != nil {
		return Report{}, err
	}
	pis, err := s.catalog.LoadTable(core.DatasetPackingInstructions)
	if err != nil {
		return Report{}, err
	}
	sps, err := s.catalog.LoadTable(core.DatasetSpecialProvisions)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Entries:     entries.Len(),
		MissingPIs:  []string{},
		MissingSPs:  []string{},
		UncoveredUN: []string{},
	}
	missingPI := make(map[string]bool)
	missingSP := make(map[string]bool)
	covered := make(map[string]bool, entries.Len())

	for i, row := range entries.Rows() {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
		covered[row.Text("un")] = true
		for code := range core.PackingInstructionCodes(row) {
			if _, ok := pis.Find("code", code); !ok && !missingPI[code] {
				missingPI[code] = true
				report.MissingPIs = append(report.MissingPIs, code)
			}
		}
		for _, code := range strings.Fields(strings.NewReplacer(",", " ", ";", " ").Replace(row.Text("sp"))) {
			if _, ok := sps.Find("code", code); !ok && !missingSP[code] {
				missingSP[code] = true
				report.MissingSPs = append(report.MissingSPs, code)
			}
		}
	}

	for n := s.opts.FirstUN; s.opts.LastUN > 0 && n <= s.opts.LastUN; n++ {
		if un := core.FormatUN(n); !covered[un] {
			report.UncoveredUN = append(report.UncoveredUN, un)
		}
	}

	if variations, err := s.catalog.LoadTable(core.DatasetVariations); err == nil {
		report.ActiveVariations = variations.Len()
	}
	return report, nil
}

// Schedule runs the validation immediately, then every interval until ctx is
// cancelled. Failed runs are logged and do not stop the schedule.
func (s *Syncer) Schedule(ctx context.Context, interval time.Duration) {
	logger := logging.FromContext(ctx)
	logger.Info("catalog sync scheduler started", "interval", interval.String())

	s.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("catalog sync scheduler stopped")
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *Syncer) runLogged(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, SyncTimeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	report, err := s.Run(runCtx)
	if err != nil {
		logger.Error("catalog sync failed", "error", err)
		return
	}
	logger.Info("catalog sync completed",
		"entries", report.Entries,
		"missing_pis", len(report.MissingPIs),
		"missing_sps", len(report.MissingSPs),
		"uncovered", len(report.UncoveredUN),
		"variations", report.ActiveVariations,
		"duration_ms", report.DurationMS,
	)
}

// SyncMsg carries the result of SyncCmd to a bubbletea program.
type SyncMsg struct {
	Report Report
	Err    error
}

// SyncCmd runs one validation as a bubbletea command.
func (s *Syncer) SyncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
		defer cancel()

		report, err := s.Run(ctx)
		return SyncMsg{Report: report, Err: err}
	}
}
