package solver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutcomeKind is the stable classification of a solver run.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "SUCCESS"
	OutcomeSystemError      OutcomeKind = "SYSTEM_ERROR"
	OutcomeInfeasible       OutcomeKind = "INFEASIBLE"
	OutcomeOutputError      OutcomeKind = "SOLVER_OUTPUT_ERROR"
	OutcomeMissingTimetable OutcomeKind = "MISSING_TIMETABLE"
)

const infeasibleMarker = "INFEASIBLE"

// Session is one element of the solver's JSON output.
type Session struct {
	Group      string `json:"group" validate:"required"`
	Slot       string `json:"slot" validate:"required"`
	CourseName string `json:"course_name" validate:"required"`
	Teacher    string `json:"teacher" validate:"required"`
	Room       string `json:"room" validate:"required"`
}

// Outcome is the classified result of a solver run.
type Outcome struct {
	Kind     OutcomeKind
	Detail   string
	Sessions []Session
}

// Classify maps raw solver output onto an Outcome. Checks run in priority
// order: process failure, infeasible marker on stderr (even with exit 0),
// malformed stdout, empty timetable, success.
func Classify(out RawOutput) Outcome {
	if out.StartErr != nil || out.ExitCode != 0 {
		detail := strings.TrimSpace(out.Stderr)
		if detail == "" {
			if out.StartErr != nil {
				detail = out.StartErr.Error()
			} else {
				detail = fmt.Sprintf("solver exited with status %d", out.ExitCode)
			}
		}
		return Outcome{Kind: OutcomeSystemError, Detail: detail}
	}

	if strings.Contains(strings.ToUpper(out.Stderr), infeasibleMarker) {
		return Outcome{
			Kind:   OutcomeInfeasible,
			Detail: "The solver could not find a solution that satisfies all constraints. Check your hard rules and input data.",
		}
	}

	var sessions []Session
	if err := json.Unmarshal([]byte(strings.TrimSpace(out.Stdout)), &sessions); err != nil {
		return Outcome{Kind: OutcomeOutputError, Detail: err.Error()}
	}
	if len(sessions) == 0 {
		return Outcome{Kind: OutcomeMissingTimetable, Detail: "solver output contained no sessions"}
	}
	for i, session := range sessions {
		if err := validate.Struct(session); err != nil {
			return Outcome{Kind: OutcomeOutputError, Detail: fmt.Sprintf("session %d: %v", i, err)}
		}
	}
	return Outcome{Kind: OutcomeSuccess, Sessions: sessions}
}
