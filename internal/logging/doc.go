// Package logging assembles the structured slog loggers used by hoopsync.
//
// It owns the console (tint) and JSON handlers, the standard field keys that
// every sub-job tags its log lines with, and a no-op logger for tests and
// wiring code that cannot fail. Prefer these constructors over hand-rolled
// slog setup so every component emits records with the same shape.
package logging
