// Package logging builds the structured logger the rest of the
// application shares.
//
// The logger is a standard *slog.Logger configured from the telemetry
// section of the configuration: level, output format (JSON or text),
// and optional source locations. Components derive scoped loggers
// with logger.With("component", ...) rather than receiving their own
// configuration.
package logging
