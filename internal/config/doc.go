// Package config handles configuration loading for the chatwidget hosts.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file, chosen by extension,
// with environment variable expansion. Default returns the settings used
// when no file is given.
//
// # Configuration File
//
//	widget:
//	  api_base: "https://bot.example.com/"
//	  title: "Support"
//	  origin: "https://shop.example.com"
//	  poll_interval: "20s"
//	  typing_interval: "400ms"
//	  request_timeout: "30s"
//
//	storage:
//	  path: "./chatwidget.db"
//	  signal_dir: "./signals"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text or json
//	  file: ""        # optional rotated log file
//
// The TOML form uses the same table and key names.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	widget:
//	  api_base: "${CHATWIDGET_API_BASE}"
//
// Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax. Zero or absent
// durations leave the widget's built-in defaults in place.
//
// # Validation
//
// storage.path is required. widget.origin, when set, must be an absolute
// URL. logging.format must be text or json.
package config
