// Package pipeline runs the sync jobs against the canonical store.
//
// A run executes any subset of the stats, profiles and injuries jobs in that
// order. Jobs are independent: a failed job is reported in its Summary and
// the next job still runs. Fatal preconditions and structural problems never
// touch the files on disk; every write replaces a file atomically.
package pipeline
