// Package config loads, normalizes, and validates hoopsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files. Every knob the sync jobs and CLI need
// lives on Config: where the canonical store sits, which pages and feeds to
// pull, how hard to retry, and how strict name resolution should be.
package config
