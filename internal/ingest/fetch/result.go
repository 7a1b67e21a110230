package fetch

import "errors"

// ErrEmpty signals that the source answered but had no rows. It is not retried.
var ErrEmpty = errors.New("source returned no data")

// Outcome classifies a segment fetch.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailure Outcome = "failure"
)

// Result is the terminal state of one segment fetch.
type Result[T any] struct {
	Segment  string
	Outcome  Outcome
	Data     T
	Err      error
	Attempts int
}

// Collected groups segment results by outcome, preserving input order.
type Collected[T any] struct {
	Data   []T
	Loaded []string
	Empty  []string
	Failed []string
}

// Collect partitions results by outcome.
func Collect[T any](results []Result[T]) Collected[T] {
	var c Collected[T]
	for _, r := range results {
		switch r.Outcome {
		case OutcomeSuccess:
			c.Data = append(c.Data, r.Data)
			c.Loaded = append(c.Loaded, r.Segment)
		case OutcomeEmpty:
			c.Empty = append(c.Empty, r.Segment)
		default:
			c.Failed = append(c.Failed, r.Segment)
		}
	}
	return c
}
