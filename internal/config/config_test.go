package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CRACKIFY_AUTH_TOKEN", "tok")
	t.Setenv("CRACKIFY_SESSION_ID", "sess-1")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.crackify.ai", cfg.APIBaseURL)
	assert.Equal(t, "wss://api.crackify.ai", cfg.WSBaseURL)
	assert.Equal(t, "Java", cfg.Language)
	assert.Equal(t, 48000, cfg.CaptureRate)
	assert.Equal(t, 1024, cfg.FramesPerBuffer)
	assert.False(t, cfg.VADEnabled)
	assert.Equal(t, 2, cfg.VADMode)
	assert.Equal(t, 5, cfg.ReconnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.ReconnectWait)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CRACKIFY_API_BASE_URL", "http://localhost:8080")
	t.Setenv("CRACKIFY_WS_BASE_URL", "ws://localhost:8080")
	t.Setenv("CRACKIFY_ROLE", "SRE")
	t.Setenv("CRACKIFY_COMPANY", "Acme")
	t.Setenv("CRACKIFY_LANGUAGE", "Go")
	t.Setenv("CAPTURE_RATE", "44100")
	t.Setenv("VAD_ENABLED", "true")
	t.Setenv("RECONNECT_ATTEMPTS", "3")
	t.Setenv("RECONNECT_WAIT_MS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "ws://localhost:8080", cfg.WSBaseURL)
	assert.Equal(t, "SRE", cfg.Role)
	assert.Equal(t, "Acme", cfg.Company)
	assert.Equal(t, "Go", cfg.Language)
	assert.Equal(t, 44100, cfg.CaptureRate)
	assert.True(t, cfg.VADEnabled)
	assert.Equal(t, 3, cfg.ReconnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectWait)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("CRACKIFY_AUTH_TOKEN", "")
	t.Setenv("CRACKIFY_SESSION_ID", "sess-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRACKIFY_AUTH_TOKEN")
}

func TestLoadGeneratesSessionID(t *testing.T) {
	t.Setenv("CRACKIFY_AUTH_TOKEN", "tok")
	t.Setenv("CRACKIFY_SESSION_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cfg.SessionID, "session_"))
}

func TestLoadKeepsConfiguredSessionID(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sess-1", cfg.SessionID)
}

func TestLoadInvalidVADMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VAD_MODE", "7")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAD_MODE")
}

func TestLoadMalformedIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CAPTURE_RATE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 48000, cfg.CaptureRate)
}
