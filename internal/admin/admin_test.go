package admin

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dgref/internal/core"
)

var effective = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegulatoryConfig)
		wantErr string
	}{
		{"default is valid", func(*RegulatoryConfig) {}, ""},
		{"missing edition", func(c *RegulatoryConfig) { c.Edition = " " }, "edition is required"},
		{"missing date", func(c *RegulatoryConfig) { c.EffectiveDate = time.Time{} }, "effective date is required"},
		{"bad source", func(c *RegulatoryConfig) { c.DataSource = "ftp" }, `unknown data source "ftp"`},
		{"bad status", func(c *RegulatoryConfig) { c.ValidationStatus = "maybe" }, `unknown validation status "maybe"`},
		{"negative variations", func(c *RegulatoryConfig) { c.ActiveVariations = -1 }, "active variations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("67th Edition", effective)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid regulatory config: "))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	err := RegulatoryConfig{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edition is required")
	assert.Contains(t, err.Error(), "effective date is required")
	assert.Equal(t, "CFG001", core.MapError(err).Code)
}

func TestConfigUpdateApply(t *testing.T) {
	cfg := Default("66th Edition", effective)
	cfg.ValidationStatus = StatusValidated

	edition := "67th Edition"
	date := "2026-07-01"
	source := SourceManual
	got, err := ConfigUpdate{Edition: &edition, EffectiveDate: &date, DataSource: &source}.Apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, "67th Edition", got.Edition)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), got.EffectiveDate)
	assert.Equal(t, SourceManual, got.DataSource)
	assert.Equal(t, StatusPending, got.ValidationStatus)

	unchanged, err := ConfigUpdate{}.Apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, unchanged.ValidationStatus)

	bad := "01/07/2026"
	_, err = ConfigUpdate{EffectiveDate: &bad}.Apply(cfg)
	assert.ErrorContains(t, err, "not YYYY-MM-DD")

	bogus := DataSource("ftp")
	_, err = ConfigUpdate{DataSource: &bogus}.Apply(cfg)
	assert.Error(t, err)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Default("67th Edition", effective))

	err := store.Save(ctx, RegulatoryConfig{})
	require.Error(t, err)

	cfg, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "67th Edition", cfg.Edition)
}

func rec(kv ...string) core.Record {
	fields := make(map[string]core.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = core.Text(kv[i+1])
	}
	return core.NewRecord(fields)
}

func catalog(entries ...core.Record) *core.Store {
	static := func(key string, rows ...core.Record) core.TableDefinition {
		return core.TableDefinition{
			Info: core.TableInfo{Key: key},
			Load: func() []core.Record { return rows },
		}
	}
	return core.NewStore(
		static(core.DatasetUNEntries, entries...),
		static(core.DatasetPackingInstructions, rec("code", "965"), rec("code", "Y341")),
		static(core.DatasetSpecialProvisions, rec("code", "A88")),
		static(core.DatasetVariations, rec("code", "USG-01"), rec("code", "BR-01")),
	)
}

func TestSyncerValidCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Default("67th Edition", effective))
	syncer := NewSyncer(catalog(
		rec("un", "0001", "pax_pi", "Forbidden", "cao_pi", "965", "lq_pi", "See 10.5", "sp", "A88"),
		rec("un", "0002", "lq_pi", "Y341"),
	), store, SyncOptions{FirstUN: 1, LastUN: 2})

	report, err := syncer.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Entries)
	assert.Equal(t, 2, report.ActiveVariations)

	cfg, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, cfg.ValidationStatus)
	assert.Equal(t, 2, cfg.ActiveVariations)
	require.NotNil(t, cfg.LastSync)
}

func TestSyncerBrokenCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Default("67th Edition", effective))
	syncer := NewSyncer(catalog(
		rec("un", "0001", "pax_pi", "999", "cao_pi", "999", "sp", "A88, A404"),
	), store, SyncOptions{FirstUN: 1, LastUN: 3})

	report, err := syncer.Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"999"}, report.MissingPIs)
	assert.Equal(t, []string{"A404"}, report.MissingSPs)
	assert.Equal(t, []string{"0002", "0003"}, report.UncoveredUN)

	cfg, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, cfg.ValidationStatus)
}

func TestSyncerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore(Default("67th Edition", effective))
	_, err := NewSyncer(catalog(rec("un", "0001")), store, SyncOptions{FirstUN: 1, LastUN: 1}).Run(ctx)
	require.Error(t, err)

	cfg, _ := store.Get(context.Background())
	assert.Equal(t, StatusPending, cfg.ValidationStatus)
}

func TestSyncCmd(t *testing.T) {
	store := NewMemoryStore(Default("67th Edition", effective))
	syncer := NewSyncer(catalog(rec("un", "0001")), store, SyncOptions{FirstUN: 1, LastUN: 1})

	msg, ok := syncer.SyncCmd()().(SyncMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Report.OK())
}

func TestScheduleStopsOnCancel(t *testing.T) {
	store := NewMemoryStore(Default("67th Edition", effective))
	syncer := NewSyncer(catalog(rec("un", "0001")), store, SyncOptions{FirstUN: 1, LastUN: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		syncer.Schedule(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		cfg, _ := store.Get(context.Background())
		return cfg.LastSync != nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSyncerWithoutRangeSkipsCoverage(t *testing.T) {
	store := NewMemoryStore(Default("67th Edition", effective))
	report, err := NewSyncer(catalog(rec("un", "0001")), store, SyncOptions{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.UncoveredUN)
	assert.True(t, report.OK())
}
