package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/solver"
)

type solverMetrics interface {
	SolverStarted()
	SolverFinished(outcome string, duration time.Duration)
}

// SolverBridge marshals master data for the solver, runs it through a
// Runner and maps the classified outcome onto typed errors.
type SolverBridge struct {
	runner  solver.Runner
	slots   *semaphore.Weighted
	metrics solverMetrics
	logger  *zap.Logger
}

// NewSolverBridge constructs a bridge allowing at most maxConcurrent solver
// runs at once.
func NewSolverBridge(runner solver.Runner, maxConcurrent int, metrics solverMetrics, logger *zap.Logger) *SolverBridge {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverBridge{
		runner:  runner,
		slots:   semaphore.NewWeighted(int64(maxConcurrent)),
		metrics: metrics,
		logger:  logger,
	}
}

// BuildDataset converts a master data snapshot into solver records.
func BuildDataset(snapshot models.MasterDataSnapshot) solver.Dataset {
	ds := solver.Dataset{
		Teachers: make([]solver.TeacherRecord, 0, len(snapshot.Teachers)),
		Rooms:    make([]solver.RoomRecord, 0, len(snapshot.Rooms)),
		Courses:  make([]solver.CourseRecord, 0, len(snapshot.Courses)),
		Slots:    make([]solver.SlotRecord, 0, len(snapshot.Slots)),
		Groups:   make([]solver.GroupRecord, 0, len(snapshot.Groups)),
	}
	for _, t := range snapshot.Teachers {
		ds.Teachers = append(ds.Teachers, solver.TeacherRecord{
			ID:               t.ID,
			Name:             t.Name,
			QualifiedCourses: []string(t.QualifiedCourses),
			AvailableDays:    []string(t.AvailableDays),
			PreferredPeriods: []int(t.PreferredPeriods),
		})
	}
	for _, r := range snapshot.Rooms {
		ds.Rooms = append(ds.Rooms, solver.RoomRecord{ID: r.ID, Name: r.Name, Capacity: r.Capacity})
	}
	for _, c := range snapshot.Courses {
		ds.Courses = append(ds.Courses, solver.CourseRecord{ID: c.ID, Course: c.Course, Hours: c.Hours, Group: c.Group, Size: c.Size})
	}
	for _, s := range snapshot.Slots {
		ds.Slots = append(ds.Slots, solver.SlotRecord{ID: s.ID, Day: s.Day, Period: s.Period})
	}
	for _, g := range snapshot.Groups {
		ds.Groups = append(ds.Groups, solver.GroupRecord{ID: g.ID, Name: g.Name})
	}
	return ds
}

// Solve runs the solver over snapshot. Solves beyond the concurrency limit
// wait for a free slot or for ctx to end.
func (b *SolverBridge) Solve(ctx context.Context, snapshot models.MasterDataSnapshot) ([]models.ScheduledSession, error) {
	if err := b.slots.Acquire(ctx, 1); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolverSystem.Code, appErrors.ErrSolverSystem.Status, "Timetable generation was cancelled while waiting for the solver.")
	}
	defer b.slots.Release(1)

	if b.metrics != nil {
		b.metrics.SolverStarted()
	}
	start := time.Now()
	outcome, err := b.run(ctx, snapshot)
	if b.metrics != nil {
		b.metrics.SolverFinished(string(outcome.Kind), time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return b.mapOutcome(outcome)
}

func (b *SolverBridge) run(ctx context.Context, snapshot models.MasterDataSnapshot) (solver.Outcome, error) {
	raw, err := b.runner.Submit(ctx, BuildDataset(snapshot))
	if err != nil {
		b.logger.Error("failed to prepare solver input", zap.Error(err))
		outcome := solver.Outcome{Kind: solver.OutcomeSystemError, Detail: err.Error()}
		if errors.Is(err, solver.ErrInvalidDataset) {
			return outcome, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "Master data cannot be sent to the solver."), err.Error())
		}
		return outcome, appErrors.WithDetails(appErrors.Clone(appErrors.ErrInternal, "Failed to prepare data for the solver."), err.Error())
	}
	if raw.Stderr != "" {
		b.logger.Warn("solver stderr", zap.String("stderr", raw.Stderr))
	}
	return solver.Classify(raw), nil
}

func (b *SolverBridge) mapOutcome(outcome solver.Outcome) ([]models.ScheduledSession, error) {
	var base *appErrors.Error
	switch outcome.Kind {
	case solver.OutcomeSuccess:
		sessions := make([]models.ScheduledSession, len(outcome.Sessions))
		for i, s := range outcome.Sessions {
			sessions[i] = models.ScheduledSession{
				Group:      s.Group,
				Slot:       s.Slot,
				CourseName: s.CourseName,
				Teacher:    s.Teacher,
				Room:       s.Room,
			}
		}
		b.logger.Info("timetable generated", zap.Int("sessions", len(sessions)))
		return sessions, nil
	case solver.OutcomeInfeasible:
		base = appErrors.ErrSolverInfeasible
	case solver.OutcomeOutputError:
		base = appErrors.ErrSolverOutput
	case solver.OutcomeMissingTimetable:
		base = appErrors.ErrSolverMissingTimetable
	default:
		base = appErrors.ErrSolverSystem
	}
	b.logger.Warn("timetable generation failed", zap.String("outcome", string(outcome.Kind)), zap.String("detail", outcome.Detail))
	return nil, appErrors.WithDetails(base, outcome.Detail)
}
