package config_test

import (
	"os"
	"path/filepath"
	"riskblock/internal/config"
	"riskblock/pkg/serrors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_defaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("missing.yml")
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "https://api.umbrella.com", cfg.Umbrella.BaseURL)
	require.Equal(t, 100, cfg.Discovery.PageLimit)
	require.Equal(t, 100*time.Millisecond, cfg.Discovery.DetailDelay)
	require.Equal(t, 500, cfg.Destinations.BatchSize)
	require.Equal(t, 200*time.Millisecond, cfg.Destinations.RequestDelay)
	require.Equal(t, "block", cfg.Destinations.Access)
	require.Equal(t, 1, cfg.Destinations.BundleTypeID)
	require.False(t, cfg.Database.Enabled)
	require.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_dotEnvAndYaml(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// godotenv never overrides variables that are already set
	t.Setenv("UMBRELLA_POLICIES_API_KEY", "")
	require.NoError(t, os.Unsetenv("UMBRELLA_POLICIES_API_KEY"))
	t.Setenv("UMBRELLA_POLICIES_API_SECRET", "from-env")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("UMBRELLA_POLICIES_API_KEY=from-dotenv\nUMBRELLA_POLICIES_API_SECRET=from-dotenv\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
environment: production
destinations:
  batchSize: 250
`), 0o600))

	cfg, err := config.Load("config.yml")
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 250, cfg.Destinations.BatchSize)
	require.Equal(t, "from-dotenv", cfg.Umbrella.Policies.Key)
	require.Equal(t, "from-env", cfg.Umbrella.Policies.Secret)
	require.NoError(t, cfg.Umbrella.Policies.Validate())
}

func TestCredentials_Validate(t *testing.T) {
	err := config.AppDiscoveryCredentials{Key: "k"}.Validate()
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Equal(t, "UMBRELLA_APP_DISCOVERY_API_SECRET is required", err.Error())

	err = config.PoliciesCredentials{}.Validate()
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Contains(t, err.Error(), "UMBRELLA_POLICIES_API_KEY is required")
}
