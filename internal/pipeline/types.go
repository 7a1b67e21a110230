package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobType enumerates the sync jobs.
type JobType string

const (
	JobStats    JobType = "stats"
	JobProfiles JobType = "profiles"
	JobInjuries JobType = "injuries"
)

// AllJobs is the default job list in execution order.
var AllJobs = []JobType{JobStats, JobProfiles, JobInjuries}

// ParseJobType accepts a job name case-insensitively.
func ParseJobType(s string) (JobType, error) {
	switch JobType(strings.ToLower(strings.TrimSpace(s))) {
	case JobStats:
		return JobStats, nil
	case JobProfiles:
		return JobProfiles, nil
	case JobInjuries:
		return JobInjuries, nil
	default:
		return "", fmt.Errorf("unknown job %q (want stats, profiles or injuries)", s)
	}
}

// JobStatus is the terminal state of a job.
type JobStatus string

const (
	StatusSuccess  JobStatus = "success"
	StatusUpToDate JobStatus = "up_to_date"
	StatusFailed   JobStatus = "failed"
)

var (
	// ErrFatalPrecondition means a required input file is absent.
	ErrFatalPrecondition = errors.New("required input missing")
	// ErrNoSegments means every source segment failed.
	ErrNoSegments = errors.New("no source segment could be fetched")
)

// Summary reports the outcome of one job.
type Summary struct {
	Job      JobType
	Status   JobStatus
	Added    int
	Updated  int
	Resolved int
	Skipped  int
	Duration time.Duration
	Message  string
	Err      error
}

// Failed reports whether the job ended in failure.
func (s Summary) Failed() bool { return s.Status == StatusFailed }

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnRunStart(runID string, jobs []JobType)
	OnJobStart(job JobType)
	OnProgress(job JobType, message string)
	OnJobComplete(summary Summary)
}

type nopReporter struct{}

func (nopReporter) OnRunStart(string, []JobType) {}
func (nopReporter) OnJobStart(JobType) {}
func (nopReporter) OnProgress(JobType, string) {}
func (nopReporter) OnJobComplete(Summary) {}
