package model

import "time"

// Outcome classifies how a unit's run ended.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeFailure        Outcome = "failure"
)

// RunResult captures metrics from migrating a single unit.
type RunResult struct {
	Unit             string
	Collection       string
	RunID            string
	State            State
	Outcome          Outcome
	RecordsExtracted int64
	RecordsLoaded    int64
	RecordsPurged    int64
	Error            string
	Duration         time.Duration
}

// RunSummary captures the results of one pass over every configured unit.
type RunSummary struct {
	RunID    string
	Results  []RunResult
	Duration time.Duration
}

// Failed reports whether any unit ended with something other than success.
func (s *RunSummary) Failed() bool {
	for _, r := range s.Results {
		if r.Outcome != OutcomeSuccess {
			return true
		}
	}
	return false
}

// Totals sums record counts across all units.
func (s *RunSummary) Totals() (extracted, loaded, purged int64) {
	for _, r := range s.Results {
		extracted += r.RecordsExtracted
		loaded += r.RecordsLoaded
		purged += r.RecordsPurged
	}
	return extracted, loaded, purged
}
