// Package config loads and validates the application configuration from an
// optional YAML file with FLOOD_* environment variable overrides. Defaults
// produce a working setup with no file and no environment at all.
package config
