// Package cli provides the command-line interface for prefs.
// This file re-exports config types from internal/config for public API.
package cli

import (
	"github.com/zot/prefs/internal/config"
)

// Re-export config types for public API
type (
	Config         = config.Config
	AppConfig      = config.AppConfig
	StoreConfig    = config.StoreConfig
	AutosaveConfig = config.AutosaveConfig
	LoggingConfig  = config.LoggingConfig
	Duration       = config.Duration
)

// Re-export config functions for public API
var (
	DefaultConfig = config.DefaultConfig
	Load          = config.Load
	NewLogger     = config.NewLogger
)
