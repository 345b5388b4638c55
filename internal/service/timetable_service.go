package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

const publishedCacheKey = "timetable:published"

type solutionStore interface {
	Create(ctx context.Context, sessions []models.ScheduledSession, isLocked bool) (*models.TimetableSolution, error)
	GetLatest(ctx context.Context) (*models.TimetableSolution, error)
	GetLatestLocked(ctx context.Context) (*models.TimetableSolution, error)
	GetByID(ctx context.Context, id string) (*models.TimetableSolution, error)
	ListSummaries(ctx context.Context) ([]models.SolutionSummary, error)
	ToggleLock(ctx context.Context, id string) (bool, error)
}

type masterDataReader interface {
	Snapshot(ctx context.Context) (models.MasterDataSnapshot, error)
}

type feasibilityCheck interface {
	Check(snapshot models.MasterDataSnapshot) error
}

type timetableSolver interface {
	Solve(ctx context.Context, snapshot models.MasterDataSnapshot) ([]models.ScheduledSession, error)
}

type publishedCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type timetableRenderer interface {
	Render(solution *models.TimetableSolution, format ExportFormat, groupFilter string) (*ExportFile, error)
}

type timetableMetrics interface {
	RecordPrecheckFailure(code string)
	RecordCacheOperation(hit bool, duration time.Duration)
	RecordSolutionSaved(locked bool)
	RecordLockToggle(locked bool)
}

// Actor identifies the caller of a role-aware operation.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// TimetableServiceConfig tunes the timetable service.
type TimetableServiceConfig struct {
	PublishedTTL time.Duration
}

// TimetableServiceParams groups the collaborators of TimetableService.
type TimetableServiceParams struct {
	Store       solutionStore
	MasterData  masterDataReader
	Feasibility feasibilityCheck
	Solver      timetableSolver
	Cache       publishedCache
	Exporter    timetableRenderer
	Metrics     timetableMetrics
	Validator   *validator.Validate
	Logger      *zap.Logger
	Config      TimetableServiceConfig
}

// TimetableService coordinates generation, persistence, publication and
// projection of timetable solutions.
type TimetableService struct {
	store       solutionStore
	masterData  masterDataReader
	feasibility feasibilityCheck
	solver      timetableSolver
	cache       publishedCache
	exporter    timetableRenderer
	metrics     timetableMetrics
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         TimetableServiceConfig

	// cacheMu orders cache fills against invalidations. publishedGen counts
	// invalidations; a fill whose read started in an older generation is
	// dropped.
	cacheMu      sync.Mutex
	publishedGen uint64
}

// NewTimetableService wires the service.
func NewTimetableService(params TimetableServiceParams) *TimetableService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Feasibility == nil {
		params.Feasibility = NewFeasibilityChecker(params.Logger)
	}
	if params.Exporter == nil {
		params.Exporter = NewExportService(params.Logger, nil, nil)
	}
	if params.Config.PublishedTTL <= 0 {
		params.Config.PublishedTTL = 5 * time.Minute
	}
	return &TimetableService{
		store:       params.Store,
		masterData:  params.MasterData,
		feasibility: params.Feasibility,
		solver:      params.Solver,
		cache:       params.Cache,
		exporter:    params.Exporter,
		metrics:     params.Metrics,
		validator:   params.Validator,
		logger:      params.Logger,
		cfg:         params.Config,
	}
}

// Generate runs the feasibility checks over the current master data and, if
// they pass, solves. The result is not persisted.
func (s *TimetableService) Generate(ctx context.Context) ([]models.ScheduledSession, error) {
	snapshot, err := s.masterData.Snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to load master data", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to prepare data for the solver.")
	}

	if err := s.feasibility.Check(snapshot); err != nil {
		if s.metrics != nil {
			s.metrics.RecordPrecheckFailure(appErrors.FromError(err).Code)
		}
		return nil, err
	}

	for _, drift := range CatalogDrift(snapshot.Slots) {
		s.logger.Warn("slot catalog disagrees with slot codec",
			zap.String("slot_id", drift.SlotID),
			zap.String("catalog_day", drift.CatalogDay),
			zap.Int("catalog_period", drift.CatalogPeriod),
			zap.String("codec_key", drift.CodecKey),
		)
	}

	s.logger.Info("timetable generation started",
		zap.Int("teachers", len(snapshot.Teachers)),
		zap.Int("rooms", len(snapshot.Rooms)),
		zap.Int("courses", len(snapshot.Courses)),
		zap.Int("total_slots", snapshot.TotalSlots()),
	)
	return s.solver.Solve(ctx, snapshot)
}

// Save persists a session list.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveSolutionRequest) (*models.TimetableSolution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "No timetable data provided to save."), err.Error())
	}

	solution, err := s.store.Create(ctx, req.Timetable, req.IsLocked)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to save timetable solution.")
	}
	if solution.IsLocked {
		s.invalidatePublished(ctx)
	}
	if s.metrics != nil {
		s.metrics.RecordSolutionSaved(solution.IsLocked)
	}
	s.logger.Info("timetable saved", zap.String("solution_id", solution.ID), zap.Bool("locked", solution.IsLocked), zap.Int("sessions", len(solution.Sessions)))
	return solution, nil
}

// LoadLast returns the latest solution in any lock state.
func (s *TimetableService) LoadLast(ctx context.Context) (*models.TimetableSolution, error) {
	solution, err := s.store.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No saved timetables found.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load last timetable solution.")
	}
	return solution, nil
}

// LoadLocked returns the published solution, the most recently created
// locked one.
func (s *TimetableService) LoadLocked(ctx context.Context) (*models.TimetableSolution, error) {
	if cached, ok := s.cachedPublished(ctx); ok {
		return cached, nil
	}

	gen := s.publishedGeneration()
	solution, err := s.store.GetLatestLocked(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoPublished
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load last locked timetable solution.")
	}

	s.fillPublished(ctx, gen, solution)
	return solution, nil
}

// ListSolutions returns the history, newest first, without sessions.
func (s *TimetableService) ListSolutions(ctx context.Context) ([]models.SolutionSummary, error) {
	summaries, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to retrieve solution history.")
	}
	return summaries, nil
}

// LoadByID returns one solution.
func (s *TimetableService) LoadByID(ctx context.Context, id string) (*models.TimetableSolution, error) {
	solution, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Solution with ID %s not found.", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load specific timetable solution.")
	}
	return solution, nil
}

// ToggleLock flips the lock flag of a solution and returns the new value.
func (s *TimetableService) ToggleLock(ctx context.Context, id string) (bool, error) {
	locked, err := s.store.ToggleLock(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Solution with ID %s not found.", id))
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to toggle solution lock status.")
	}
	s.invalidatePublished(ctx)
	if s.metrics != nil {
		s.metrics.RecordLockToggle(locked)
	}
	s.logger.Info("timetable lock toggled", zap.String("solution_id", id), zap.Bool("locked", locked))
	return locked, nil
}

// View projects a stored solution. An empty SolutionID means the published
// solution; only admins may name another one. Teachers may only open their
// own teacher grid.
func (s *TimetableService) View(ctx context.Context, query dto.ViewQuery, actor Actor) (TimetableView, error) {
	mode, err := s.authorizeView(ViewMode(query.Mode), query.ID, actor)
	if err != nil {
		return TimetableView{}, err
	}

	var solution *models.TimetableSolution
	if query.SolutionID == "" {
		solution, err = s.LoadLocked(ctx)
	} else {
		if actor.Role != models.RoleAdmin {
			return TimetableView{}, appErrors.Clone(appErrors.ErrForbidden, "only administrators can view unpublished solutions")
		}
		solution, err = s.LoadByID(ctx, query.SolutionID)
	}
	if err != nil {
		return TimetableView{}, err
	}
	return Project(solution.Sessions, mode, query.ID), nil
}

// Project projects a caller-supplied session array. Malformed input and an
// unknown mode yield the empty view.
func (s *TimetableService) Project(raw []byte, mode, id string, actor Actor) (TimetableView, error) {
	if mode != "" && !ViewMode(mode).Valid() {
		return emptyView(), nil
	}
	viewMode, err := s.authorizeView(ViewMode(mode), id, actor)
	if err != nil {
		return TimetableView{}, err
	}
	return ProjectRaw(raw, viewMode, id), nil
}

// Export renders a stored solution.
func (s *TimetableService) Export(ctx context.Context, id string, format ExportFormat, groupFilter string) (*ExportFile, error) {
	solution, err := s.LoadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(solution, format, groupFilter)
}

func (s *TimetableService) authorizeView(mode ViewMode, id string, actor Actor) (ViewMode, error) {
	if mode == "" {
		mode = ViewModeGroup
	}
	if !mode.Valid() {
		return "", appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid view mode"), fmt.Sprintf("mode %q must be group or teacher", mode))
	}
	if mode == ViewModeTeacher {
		if id == "" {
			return "", appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "teacher id is required"), "teacher view needs an id")
		}
		if actor.Role == models.RoleTeacher && actor.UserID != id {
			return "", appErrors.Clone(appErrors.ErrForbidden, "teachers can only view their own timetable")
		}
	}
	return mode, nil
}

func (s *TimetableService) cachedPublished(ctx context.Context) (*models.TimetableSolution, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := time.Now()
	var cached models.TimetableSolution
	err := s.cache.Get(ctx, publishedCacheKey, &cached)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, time.Since(start))
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("published timetable cache read failed", zap.Error(err))
	}
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (s *TimetableService) publishedGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.publishedGen
}

// fillPublished caches solution unless the published state changed after gen
// was taken.
func (s *TimetableService) fillPublished(ctx context.Context, gen uint64, solution *models.TimetableSolution) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.publishedGen != gen {
		s.logger.Debug("published timetable changed during read, skipping cache fill", zap.String("solution_id", solution.ID))
		return
	}
	if err := s.cache.Set(ctx, publishedCacheKey, solution, s.cfg.PublishedTTL); err != nil {
		s.logger.Warn("published timetable cache write failed", zap.Error(err))
	}
}

func (s *TimetableService) invalidatePublished(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.publishedGen++
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey); err != nil {
		s.logger.Warn("published timetable cache invalidation failed", zap.Error(err))
	}
}
