package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fortuna/hoopsync/internal/pipeline"
)

// consoleReporter prints run progress for an operator watching the terminal.
type consoleReporter struct {
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

func (c *consoleReporter) OnRunStart(runID string, jobs []pipeline.JobType) {
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = string(job)
	}
	fmt.Fprintf(c.out, "Run %s: %s\n", runID, strings.Join(names, ", "))
}

func (c *consoleReporter) OnJobStart(job pipeline.JobType) {
	fmt.Fprintf(c.out, "Starting %s\n", job)
}

func (c *consoleReporter) OnProgress(job pipeline.JobType, message string) {
	fmt.Fprintf(c.out, "  [%s] %s\n", job, message)
}

func (c *consoleReporter) OnJobComplete(s pipeline.Summary) {
	if s.Failed() {
		fmt.Fprintf(c.out, "Job %s failed: %v\n", s.Job, s.Err)
		return
	}
	fmt.Fprintf(c.out, "Job %s %s\n", s.Job, s.Status)
}
