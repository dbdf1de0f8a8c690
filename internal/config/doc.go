// Package config loads the portfolio site's configuration.
//
// Settings come from an optional TOML file and are then overridden by the
// environment (PORT, DB_PATH, LOG_FILE, ADMIN_USERNAME, ADMIN_PASSWORD and the
// SMTP_* variables), which godotenv may have populated from a .env file.
// A missing file is not an error. A malformed breakpoint table or an unknown
// loop mode is, and Load fails fast with a descriptive message.
//
// Example portfolio.toml:
//
//	[server]
//	addr = ":8080"
//	db_path = "~/.local/share/portfolio/portfolio.db"
//
//	[carousel]
//	loop_mode = "window"
//	transition_ms = 450
//	drag_threshold = 0.25
//
//	[[carousel.breakpoints]]
//	min_width = 0
//	visible = 1
//
//	[[carousel.breakpoints]]
//	min_width = 640
//	visible = 2
package config
