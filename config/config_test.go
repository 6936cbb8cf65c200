package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "intern-portal-hub", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, BackendFile, cfg.Snapshot.Backend)
	assert.Equal(t, "data/portal-snapshot.json", cfg.Snapshot.FilePath)
	assert.Equal(t, 2, cfg.Snapshot.SaveAttempts)
	assert.Equal(t, "intern-portal:snapshot", cfg.Redis.SnapshotKey)
	assert.True(t, cfg.HTTP.Enabled)
	assert.NotNil(t, cfg.Features)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SNAPSHOT_BACKEND", "memory")
	t.Setenv("SNAPSHOT_SAVE_ATTEMPTS", "5")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendMemory, cfg.Snapshot.Backend)
	assert.Equal(t, 5, cfg.Snapshot.SaveAttempts)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SNAPSHOT_BACKEND", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAPSHOT_BACKEND")
}

func TestLoadPostgresBackendNeedsURL(t *testing.T) {
	t.Setenv("SNAPSHOT_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestDatabaseURLAssembledFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "portal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "portal")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.Database.URL, "db.internal")
	assert.Contains(t, cfg.Database.URL, "portal")
}

func TestInvalidTimezoneFallsBackToFixedZone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Not/AZone")

	cfg, err := Load()
	require.NoError(t, err)

	_, offset := time.Now().In(cfg.App.Location).Zone()
	assert.Equal(t, 5*60*60, offset)
}

func TestFeatureFlagDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("FEATURE_STORE_AUDIT_LOG", "false")

	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureStoreSeedOnEmpty, nil))
	assert.False(t, ff.IsEnabled(FeatureStoreAuditLog, nil))
	assert.False(t, ff.IsEnabled("no.such.feature", nil))
}

func TestFeatureFlagRolloutFromEnv(t *testing.T) {
	t.Setenv("FEATURE_PLACEMENT_APPLICATIONS", "50")

	ff := LoadFeatureFlags()

	feats := ff.GetAllFeatures()
	require.Contains(t, feats, FeaturePlacementApplications)
	assert.Equal(t, 50, feats[FeaturePlacementApplications].RolloutPercent)

	// Bucketing is consistent: the same user always gets the same answer.
	ctx := &FeatureContext{UserID: 42}
	first := ff.IsEnabled(FeaturePlacementApplications, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeaturePlacementApplications, ctx))
	}
}

func TestFeatureFlagUserOverrideWins(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.DisableFeature(FeatureReportRemarks))

	ctx := &FeatureContext{UserID: 7}
	assert.False(t, ff.IsEnabled(FeatureReportRemarks, ctx))

	ff.SetUserOverride(7, FeatureReportRemarks, true)
	assert.True(t, ff.IsEnabled(FeatureReportRemarks, ctx))

	ff.ClearUserOverrides(7)
	assert.False(t, ff.IsEnabled(FeatureReportRemarks, ctx))
}

func TestFeatureFlagAdminSeesEverything(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.DisableFeature(FeaturePlacementCertVerify))

	assert.False(t, ff.IsEnabled(FeaturePlacementCertVerify, &FeatureContext{UserID: 3}))
	assert.True(t, ff.IsEnabled(FeaturePlacementCertVerify, &FeatureContext{UserID: 3, IsAdmin: true}))
}

func TestSetRolloutPercentValidation(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.ErrorIs(t, ff.SetRolloutPercent("no.such.feature", 50), ErrFeatureNotFound)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureReportRemarks, 150), ErrInvalidRolloutPercent)
}
