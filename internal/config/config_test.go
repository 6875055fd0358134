package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/devfolio/internal/typewriter"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "log", cfg.Relay.Kind)
	assert.Equal(t, typewriter.DefaultTiming(), cfg.Timing())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RELAY", "smtp")
	t.Setenv("TO_EMAIL", "me@example.com")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("TYPEWRITER_TYPE_DELAY", "100ms")
	t.Setenv("TYPEWRITER_DELETE_DELAY", "20ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "smtp", cfg.Relay.Kind)
	assert.Equal(t, "bot@example.com", cfg.Relay.SMTPUser)
	assert.Equal(t, 100*time.Millisecond, cfg.Timing().Type)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown relay", func(t *testing.T) {
		t.Setenv("RELAY", "pigeon")
		_, err := Load()
		assert.ErrorContains(t, err, "RELAY")
	})

	t.Run("smtp without recipient", func(t *testing.T) {
		t.Setenv("RELAY", "smtp")
		t.Setenv("TO_EMAIL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "TO_EMAIL")
	})

	t.Run("delete slower than typing", func(t *testing.T) {
		t.Setenv("RELAY", "log")
		t.Setenv("TYPEWRITER_DELETE_DELAY", "1s")
		_, err := Load()
		assert.ErrorIs(t, err, typewriter.ErrInvalidTiming)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TYPEWRITER_PAUSE", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
