package driver

import "time"

// Stage is a state of the per-invocation state machine:
//
//	start → parse-instance → parse-failed
//	                       → lint → solution-skipped
//	                              → parse-solution → parse-failed
//	                                               → verify → report
//
// Every path ends in report. There are no cycles and no retries.
type Stage string

const (
	StageStart           Stage = "start"
	StageParseInstance   Stage = "parse-instance"
	StageParseFailed     Stage = "parse-failed"
	StageLint            Stage = "lint"
	StageSolutionSkipped Stage = "solution-skipped"
	StageParseSolution   Stage = "parse-solution"
	StageVerify          Stage = "verify"
	StageReport          Stage = "report"
)

// next lists the legal successors of every stage.
var next = map[Stage][]Stage{
	StageStart:           {StageParseInstance},
	StageParseInstance:   {StageParseFailed, StageLint},
	StageLint:            {StageSolutionSkipped, StageParseSolution},
	StageParseSolution:   {StageParseFailed, StageVerify},
	StageParseFailed:     {StageReport},
	StageSolutionSkipped: {StageReport},
	StageVerify:          {StageReport},
}

// CanFollow reports whether to is a legal successor of from.
func CanFollow(from, to Stage) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a stage has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    Stage
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during a check.
type PhaseObserver func(PhaseEvent)
