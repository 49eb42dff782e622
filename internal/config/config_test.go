package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CLIENT_ORIGIN", "JWT_SECRET", "SESSION_DAYS", "SESSION_IDLE",
		"WORDS_ANSWERS_FILE", "WORDS_ALLOWED_FILE", "WORDS_URL", "WORDS_TIMEOUT",
		"DAILY_SALT", "SCORING",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 180*24*time.Hour, cfg.SessionTTL())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "wordle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
scoring: standard
words:
  url: http://words.local/api/v1/words
  timeout: 2s
`), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("SESSION_DAYS", "7")
	t.Setenv("SESSION_IDLE", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "standard", cfg.Scoring)
	assert.Equal(t, "http://words.local/api/v1/words", cfg.Words.URL)
	assert.Equal(t, 2*time.Second, cfg.Words.Timeout)
	assert.Equal(t, 7, cfg.SessionDays)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DAILY_SALT=from_dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DAILY_SALT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.DailySalt)
}

func TestLoad_BadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("scoring", func(t *testing.T) {
		t.Setenv("SCORING", "fuzzy")
		_, err := Load("")
		require.ErrorContains(t, err, "scoring")
	})
	t.Run("session days", func(t *testing.T) {
		t.Setenv("SESSION_DAYS", "soon")
		_, err := Load("")
		require.ErrorContains(t, err, "SESSION_DAYS")
	})
	t.Run("session idle", func(t *testing.T) {
		t.Setenv("SESSION_IDLE", "0s")
		_, err := Load("")
		require.ErrorContains(t, err, "session_idle")
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("WORDS_TIMEOUT", "0s")
		_, err := Load("")
		require.ErrorContains(t, err, "timeout")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
