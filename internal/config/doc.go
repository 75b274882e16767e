// Package config provides configuration management for static-gallery.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation of settings before a generation run
//
// # Default Settings
//
// Use DefaultSettings() to get the usual gallery defaults:
//
//	settings := config.DefaultSettings()
//	// Thumbnails cover 960x540, display and background 2560x1440
//	// Lanczos3 resizing at JPEG quality 75
//	// One render worker per logical core
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/gallery.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Validation
//
// Validate reports every problem at once:
//
//	if err := settings.Validate(); err != nil {
//	    // errors.Is(err, config.ErrInvalid) == true
//	}
package config
