// Package logging builds the structured loggers used across static-gallery.
//
// A logger is created once by the command and handed to every component that
// logs; there is no package-level logger or global level. Components accept a
// nil *slog.Logger and fall back to Discard.
package logging
