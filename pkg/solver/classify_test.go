package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOutput = `[{"group":"G1","slot":"S1","course_name":"Math","teacher":"T1","room":"R1"}]`

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		out  RawOutput
		kind OutcomeKind
	}{
		{"success", RawOutput{Stdout: validOutput}, OutcomeSuccess},
		{"success with surrounding whitespace", RawOutput{Stdout: "\n  " + validOutput + "\n"}, OutcomeSuccess},
		{"non zero exit", RawOutput{ExitCode: 1, Stderr: "Traceback"}, OutcomeSystemError},
		{"non zero exit wins over infeasible", RawOutput{ExitCode: 2, Stderr: "INFEASIBLE"}, OutcomeSystemError},
		{"start failure", RawOutput{ExitCode: -1, StartErr: errors.New("exec: not found")}, OutcomeSystemError},
		{"infeasible", RawOutput{Stderr: "status: INFEASIBLE"}, OutcomeInfeasible},
		{"infeasible mixed case", RawOutput{Stderr: "model is Infeasible", Stdout: validOutput}, OutcomeInfeasible},
		{"not json", RawOutput{Stdout: "Solution found!"}, OutcomeOutputError},
		{"empty stdout", RawOutput{}, OutcomeOutputError},
		{"object instead of array", RawOutput{Stdout: `{"timetable":[]}`}, OutcomeOutputError},
		{"wrong element type", RawOutput{Stdout: `[{"group":"G1","slot":7,"course_name":"Math","teacher":"T1","room":"R1"}]`}, OutcomeOutputError},
		{"missing field", RawOutput{Stdout: `[{"group":"G1","slot":"S1","course_name":"Math","teacher":"T1"}]`}, OutcomeOutputError},
		{"empty array", RawOutput{Stdout: "[]"}, OutcomeMissingTimetable},
		{"null", RawOutput{Stdout: "null"}, OutcomeMissingTimetable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := Classify(tc.out)
			assert.Equal(t, tc.kind, outcome.Kind)
			if tc.kind != OutcomeSuccess {
				assert.NotEmpty(t, outcome.Detail)
				assert.Empty(t, outcome.Sessions)
			}
		})
	}
}

func TestClassifySuccessCarriesSessions(t *testing.T) {
	outcome := Classify(RawOutput{Stdout: validOutput})
	require.Equal(t, OutcomeSuccess, outcome.Kind)
	require.Len(t, outcome.Sessions, 1)
	assert.Equal(t, Session{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"}, outcome.Sessions[0])
}

func TestClassifySystemErrorDetail(t *testing.T) {
	outcome := Classify(RawOutput{ExitCode: 1, Stderr: "  boom \n"})
	assert.Equal(t, "boom", outcome.Detail)

	outcome = Classify(RawOutput{ExitCode: 3})
	assert.Equal(t, "solver exited with status 3", outcome.Detail)
}
