package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/config"
	"github.com/JonMunkholm/dgref/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Regulatory: config.RegulatoryConfig{Edition: "67th Edition 2026", EffectiveDate: "2026-01-01"},
	}
}

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()
	app, err := Open(ctx, testConfig(), Options{Database: true})
	require.NoError(t, err)
	defer app.Close()

	assert.Len(t, app.Catalog.Keys(), 6)
	assert.NotEmpty(t, app.Manual.Chapters())
	assert.NotEmpty(t, app.Catalog.EntriesByUN("3480"))
	assert.False(t, app.Assistant.Configured())
	assert.IsType(t, &admin.MemoryStore{}, app.Configs)
	assert.IsType(t, &core.MemoryJournal{}, app.Journal)

	cfg, err := app.Configs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "67th Edition 2026", cfg.Edition)
}

func TestOpenSyncerRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	app, err := Open(ctx, testConfig(), Options{})
	require.NoError(t, err)

	report, err := app.Syncer.Run(ctx)
	require.NoError(t, err)
	assert.Positive(t, report.Entries)

	cfg, err := app.Configs.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg.LastSync)
	if report.OK() {
		assert.Equal(t, admin.StatusValidated, cfg.ValidationStatus)
	} else {
		assert.Equal(t, admin.StatusFailed, cfg.ValidationStatus)
	}
}

func TestOpenConfiguresAssistant(t *testing.T) {
	cfg := testConfig()
	cfg.AI.APIKey = "key"
	cfg.AI.Model = "gemini-2.5-flash"

	app, err := Open(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.True(t, app.Assistant.Configured())
}
