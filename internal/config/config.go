package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
)

// Config is everything the site and the preview need at startup.
type Config struct {
	Addr       string
	DBPath     string
	LogFile    string
	ImagesDir  string
	SessionTTL time.Duration

	Carousel Carousel
	Preview  Preview
	Admin    Admin
	Mail     Mail
}

// Carousel configures the featured-projects widget on the site.
type Carousel struct {
	Mode             carousel.Mode
	Breakpoints      carousel.Breakpoints
	Transition       time.Duration
	DragThreshold    float64
	AutoplayInterval time.Duration
	Frame            time.Duration
	DefaultWidth     int
}

// Preview configures the terminal preview. Widths are in columns.
type Preview struct {
	Breakpoints      carousel.Breakpoints
	AutoplayInterval time.Duration
}

type Admin struct {
	Username string
	Password string
	// DefaultCredentials is set when either value fell back to the dev default.
	DefaultCredentials bool
}

type Mail struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

const (
	defaultAddr         = ":8080"
	defaultDBPath       = "portfolio.db"
	defaultImagesDir    = "./images"
	defaultSessionTTL   = 30 * time.Minute
	defaultDefaultWidth = 1280
	defaultAdminUser    = "admin"
	defaultAdminPass    = "admin123"
	defaultSMTPHost     = "smtp.gmail.com"
	defaultSMTPPort     = "587"
)

var defaultPreviewBreakpoints = carousel.Breakpoints{
	{MinWidth: 0, Visible: 1},
	{MinWidth: 80, Visible: 2},
	{MinWidth: 120, Visible: 3},
}

type rawBreakpoint struct {
	MinWidth *int `toml:"min_width"`
	Visible  *int `toml:"visible"`
}

type rawConfig struct {
	Server struct {
		Addr       string `toml:"addr"`
		DBPath     string `toml:"db_path"`
		LogFile    string `toml:"log_file"`
		ImagesDir  string `toml:"images_dir"`
		SessionTTL string `toml:"session_ttl"`
	} `toml:"server"`
	Carousel struct {
		LoopMode      string          `toml:"loop_mode"`
		TransitionMS  *int            `toml:"transition_ms"`
		DragThreshold *float64        `toml:"drag_threshold"`
		AutoplayMS    *int            `toml:"autoplay_ms"`
		FrameMS       *int            `toml:"frame_ms"`
		DefaultWidth  *int            `toml:"default_width"`
		Breakpoints   []rawBreakpoint `toml:"breakpoints"`
	} `toml:"carousel"`
	Preview struct {
		AutoplayMS  *int            `toml:"autoplay_ms"`
		Breakpoints []rawBreakpoint `toml:"breakpoints"`
	} `toml:"preview"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Addr:       defaultAddr,
		DBPath:     defaultDBPath,
		ImagesDir:  defaultImagesDir,
		SessionTTL: defaultSessionTTL,
		Carousel: Carousel{
			Mode:             carousel.ModeWindow,
			Breakpoints:      append(carousel.Breakpoints(nil), carousel.DefaultBreakpoints...),
			Transition:       carousel.DefaultTransition,
			DragThreshold:    carousel.DefaultDragThreshold,
			AutoplayInterval: carousel.DefaultAutoplayInterval,
			Frame:            carousel.DefaultFrame,
			DefaultWidth:     defaultDefaultWidth,
		},
		Preview: Preview{
			Breakpoints:      append(carousel.Breakpoints(nil), defaultPreviewBreakpoints...),
			AutoplayInterval: carousel.DefaultAutoplayInterval,
		},
		Admin: Admin{Username: defaultAdminUser, Password: defaultAdminPass, DefaultCredentials: true},
		Mail:  Mail{Host: defaultSMTPHost, Port: defaultSMTPPort},
	}
}

// Load reads the TOML file at path (a missing file means defaults) and then
// applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the carousel cannot run with.
func (c Config) Validate() error {
	if err := c.Carousel.Breakpoints.Validate(); err != nil {
		return fmt.Errorf("carousel: %w", err)
	}
	if err := c.Preview.Breakpoints.Validate(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if c.Carousel.DragThreshold <= 0 || c.Carousel.DragThreshold > 1 {
		return fmt.Errorf("carousel: drag_threshold %v outside (0, 1]", c.Carousel.DragThreshold)
	}
	if c.Carousel.DefaultWidth <= 0 {
		return fmt.Errorf("carousel: default_width must be positive")
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Server.Addr); v != "" {
		c.Addr = v
	}
	if v := strings.TrimSpace(raw.Server.DBPath); v != "" {
		c.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Server.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Server.ImagesDir); v != "" {
		c.ImagesDir = v
	}
	if v := strings.TrimSpace(raw.Server.SessionTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("parse config: session_ttl %q: must be a positive duration", v)
		}
		c.SessionTTL = ttl
	}

	rc := raw.Carousel
	if c.Carousel.Mode, err = carousel.ParseMode(strings.TrimSpace(rc.LoopMode)); err != nil {
		return fmt.Errorf("parse config: loop_mode: %w", err)
	}
	if rc.TransitionMS != nil {
		c.Carousel.Transition = millis(*rc.TransitionMS)
	}
	if rc.DragThreshold != nil {
		c.Carousel.DragThreshold = *rc.DragThreshold
	}
	if rc.AutoplayMS != nil {
		c.Carousel.AutoplayInterval = millis(*rc.AutoplayMS)
	}
	if rc.FrameMS != nil && *rc.FrameMS > 0 {
		c.Carousel.Frame = millis(*rc.FrameMS)
	}
	if rc.DefaultWidth != nil {
		c.Carousel.DefaultWidth = *rc.DefaultWidth
	}
	if rc.Breakpoints != nil {
		if c.Carousel.Breakpoints, err = convertBreakpoints(rc.Breakpoints); err != nil {
			return fmt.Errorf("parse config: carousel.breakpoints: %w", err)
		}
	}

	if raw.Preview.AutoplayMS != nil {
		c.Preview.AutoplayInterval = millis(*raw.Preview.AutoplayMS)
	}
	if raw.Preview.Breakpoints != nil {
		if c.Preview.Breakpoints, err = convertBreakpoints(raw.Preview.Breakpoints); err != nil {
			return fmt.Errorf("parse config: preview.breakpoints: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		c.Addr = ":" + port
	}
	if v := strings.TrimSpace(os.Getenv("DB_PATH")); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		c.LogFile = v
	}

	c.Admin.DefaultCredentials = false
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		c.Admin.Username = v
	} else {
		c.Admin.DefaultCredentials = true
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	} else {
		c.Admin.DefaultCredentials = true
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Mail.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		c.Mail.Port = v
	}
	c.Mail.User = os.Getenv("SMTP_USER")
	c.Mail.Pass = os.Getenv("SMTP_PASS")
	c.Mail.To = os.Getenv("TO_EMAIL")
}

// convertBreakpoints requires both keys on every entry so a typo cannot
// silently become a zero width.
func convertBreakpoints(raw []rawBreakpoint) (carousel.Breakpoints, error) {
	out := make(carousel.Breakpoints, 0, len(raw))
	for i, r := range raw {
		if r.MinWidth == nil || r.Visible == nil {
			return nil, fmt.Errorf("entry %d needs min_width and visible", i)
		}
		out = append(out, carousel.Breakpoint{MinWidth: *r.MinWidth, Visible: *r.Visible})
	}
	return out, nil
}

func millis(ms int) time.Duration {
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
