package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("ROLE_SETTLE_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, cfg.RoleSettleTimeout)
	require.Equal(t, 30*time.Second, cfg.RoleIdleTTL)
	require.Equal(t, time.Duration(0), cfg.AppWriteTimeout)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsNegativeTimeouts(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("ROLE_IDLE_TTL", "-1s")

	_, err := LoadConfig()
	require.Error(t, err)
}
