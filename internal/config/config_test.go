package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_SOURCE", "postgresql://localhost/taurus")
	t.Setenv("LIVE_PUBLIC_KEY", "lvpb_abc")
	t.Setenv("LIVE_PRIVATE_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "transactions.csv", cfg.JournalPath)
	assert.Equal(t, "failed_payments.txt", cfg.FailureLogPath)
	assert.False(t, cfg.Sandbox)
	assert.Equal(t, "lvpb_abc", cfg.GatewayPublicKey)
	assert.NotEmpty(t, cfg.Hostname)
}

func TestLoadRequiresDBSource(t *testing.T) {
	t.Setenv("DB_SOURCE", "")
	t.Setenv("LIVE_PUBLIC_KEY", "lvpb_abc")
	t.Setenv("LIVE_PRIVATE_KEY", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_SOURCE")
}

func TestLoadSandboxSelectsSandboxKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POS_SANDBOX", "true")
	t.Setenv("SANDBOX_PUBLIC_KEY", "sbpb_abc")
	t.Setenv("SANDBOX_PRIVATE_KEY", "sbsecret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Sandbox)
	assert.Equal(t, "sbpb_abc", cfg.GatewayPublicKey)
	assert.Equal(t, "sbsecret", cfg.GatewayPrivateKey)
}

func TestLoadRequiresKeyPair(t *testing.T) {
	t.Setenv("DB_SOURCE", "postgresql://localhost/taurus")
	t.Setenv("LIVE_PUBLIC_KEY", "")
	t.Setenv("LIVE_PRIVATE_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key pair")
}
