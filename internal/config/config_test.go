package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_PATH", "LOG_FILE", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "TO_EMAIL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.Equal(t, carousel.ModeWindow, cfg.Carousel.Mode)
	assert.Equal(t, carousel.DefaultBreakpoints, cfg.Carousel.Breakpoints)
	assert.Equal(t, carousel.DefaultDragThreshold, cfg.Carousel.DragThreshold)
	assert.Equal(t, defaultSessionTTL, cfg.SessionTTL)
	assert.True(t, cfg.Admin.DefaultCredentials)
}

func TestLoad_ParsesCarouselSection(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
addr = " :9090 "
session_ttl = "5m"

[carousel]
loop_mode = "item"
transition_ms = 300
drag_threshold = 0.3
autoplay_ms = 4000

[[carousel.breakpoints]]
min_width = 0
visible = 1

[[carousel.breakpoints]]
min_width = 900
visible = 4

[[preview.breakpoints]]
min_width = 0
visible = 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, carousel.ModeItem, cfg.Carousel.Mode)
	assert.Equal(t, 300*time.Millisecond, cfg.Carousel.Transition)
	assert.Equal(t, 0.3, cfg.Carousel.DragThreshold)
	assert.Equal(t, 4*time.Second, cfg.Carousel.AutoplayInterval)
	assert.Equal(t, carousel.Breakpoints{{MinWidth: 0, Visible: 1}, {MinWidth: 900, Visible: 4}}, cfg.Carousel.Breakpoints)
	assert.Equal(t, carousel.Breakpoints{{MinWidth: 0, Visible: 2}}, cfg.Preview.Breakpoints)
}

func TestLoad_RejectsNonAscendingBreakpoints(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[[carousel.breakpoints]]
min_width = 1024
visible = 3

[[carousel.breakpoints]]
min_width = 640
visible = 2
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, carousel.ErrBreakpointOrder)
}

func TestLoad_RejectsZeroVisibleCount(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[[carousel.breakpoints]]
min_width = 0
visible = 0
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, carousel.ErrBreakpointVisible)
}

func TestLoad_RejectsIncompleteBreakpoint(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[[carousel.breakpoints]]
visible = 3
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "needs min_width and visible")
}

func TestLoad_RejectsUnknownLoopMode(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[carousel]
loop_mode = "spiral"
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, carousel.ErrUnknownMode)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("DB_PATH", "/tmp/site.db")
	t.Setenv("ADMIN_USERNAME", "zach")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SMTP_USER", "me@example.com")

	path := writeConfig(t, `
[server]
addr = ":9090"
db_path = "/var/lib/portfolio.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/tmp/site.db", cfg.DBPath)
	assert.Equal(t, "zach", cfg.Admin.Username)
	assert.False(t, cfg.Admin.DefaultCredentials)
	assert.Equal(t, "me@example.com", cfg.Mail.User)
	assert.Equal(t, defaultSMTPHost, cfg.Mail.Host)
}

func TestLoad_MalformedTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `[carousel`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}
