package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/logging"
	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/repository"
)

// SettingsService owns per-location coverage settings and coverage areas.
// It is the layer that rejects invalid thresholds and shapes; the engine
// itself accepts whatever it is given.
type SettingsService struct {
	settings *repository.SettingsRepository
	areas    *repository.AreaRepository
	defaults coverage.Settings
	logger   logging.Logger
}

// NewSettingsService creates a settings service. defaults is returned for
// locations that never stored settings.
func NewSettingsService(settings *repository.SettingsRepository, areas *repository.AreaRepository, defaults coverage.Settings, logger logging.Logger) *SettingsService {
	if logger == nil {
		logger = logging.Noop()
	}
	return &SettingsService{
		settings: settings,
		areas:    areas,
		defaults: defaults,
		logger:   logger.With(logging.String("component", "settings")),
	}
}

// Get returns the stored settings of a location, or the defaults
func (s *SettingsService) Get(ctx context.Context, locationID string) (models.CoverageSettings, error) {
	stored, err := s.settings.Get(ctx, locationID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.FromEngineSettings(locationID, s.defaults), nil
	}
	if err != nil {
		return models.CoverageSettings{}, err
	}
	return *stored, nil
}

// EngineSettings resolves the explicit engine configuration for a location
func (s *SettingsService) EngineSettings(ctx context.Context, locationID string) (coverage.Settings, error) {
	stored, err := s.Get(ctx, locationID)
	if err != nil {
		return coverage.Settings{}, err
	}
	return stored.EngineSettings(), nil
}

// Update validates and stores the settings of a location. Empty names take
// the defaults.
func (s *SettingsService) Update(ctx context.Context, in models.CoverageSettings) (models.CoverageSettings, error) {
	normalized, err := s.normalize(in)
	if err != nil {
		return models.CoverageSettings{}, err
	}
	if err := s.settings.Save(ctx, &normalized); err != nil {
		return models.CoverageSettings{}, err
	}
	s.logger.Info(ctx, "coverage settings updated",
		logging.String("location_id", normalized.LocationID),
		logging.String("model", normalized.Model),
		logging.String("interpolation", normalized.Interpolation),
	)
	return normalized, nil
}

func (s *SettingsService) normalize(in models.CoverageSettings) (models.CoverageSettings, error) {
	out := in
	if strings.TrimSpace(out.LocationID) == "" {
		return out, validationError("locationId is required")
	}

	out.Model = strings.ToLower(strings.TrimSpace(out.Model))
	if out.Model == "" {
		out.Model = string(s.defaults.Model)
	}
	if string(propagation.ParseMethod(out.Model)) != out.Model {
		return out, validationError("unknown propagation model %q", in.Model)
	}

	out.Interpolation = strings.ToLower(strings.TrimSpace(out.Interpolation))
	if out.Interpolation == "" {
		out.Interpolation = string(s.defaults.Interpolation)
	}
	if string(coverage.ParseWeighting(out.Interpolation).Method()) != out.Interpolation {
		return out, validationError("unknown interpolation %q", in.Interpolation)
	}

	if out.Resolution == 0 {
		out.Resolution = s.defaults.Resolution
	}
	if !positive(out.Resolution) {
		return out, wrapValidation(coverage.ErrInvalidResolution)
	}
	if out.MaxDistance == 0 {
		out.MaxDistance = s.defaults.MaxDistance
	}
	if !positive(out.MaxDistance) {
		return out, wrapValidation(coverage.ErrInvalidMaxDistance)
	}

	if err := validateEnvironment(&out.Environment); err != nil {
		return out, err
	}
	if out.Thresholds == (coverage.Thresholds{}) {
		out.Thresholds = s.defaults.Thresholds
	}
	if err := out.Thresholds.Validate(); err != nil {
		return out, wrapValidation(err)
	}
	return out, nil
}

func validateEnvironment(env *propagation.Environment) error {
	if env.Type == "" {
		env.Type = propagation.EnvOffice
	}
	if !propagation.KnownEnvironment(env.Type) {
		return validationError("unknown environment type %q", env.Type)
	}
	if env.PathLossExponent != nil && !positive(*env.PathLossExponent) {
		return validationError("pathLossExponent must be positive")
	}
	for name, v := range map[string]*float64{"wallLossDb": env.WallLossDB, "floorLossDb": env.FloorLossDB} {
		if v != nil && (math.IsNaN(*v) || *v < 0) {
			return validationError("%s must not be negative", name)
		}
	}
	o := env.Obstacles
	if env.FloorsCrossed < 0 || o.ThinWalls < 0 || o.ThickWalls < 0 || o.Floors < 0 || o.GlassPanels < 0 {
		return validationError("obstacle and floor counts must not be negative")
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ListAreas returns the coverage areas of a location
func (s *SettingsService) ListAreas(ctx context.Context, filter models.AreaFilter) ([]models.CoverageAreaRecord, error) {
	return s.areas.List(ctx, filter)
}

// GetArea returns one coverage area
func (s *SettingsService) GetArea(ctx context.Context, id string) (*models.CoverageAreaRecord, error) {
	return s.areas.GetByID(ctx, id)
}

// CreateArea validates the shape and thresholds, then stores the area
func (s *SettingsService) CreateArea(ctx context.Context, in models.CoverageAreaInput) (*models.CoverageAreaRecord, error) {
	if strings.TrimSpace(in.LocationID) == "" || strings.TrimSpace(in.FloorID) == "" {
		return nil, validationError("locationId and floorId are required")
	}
	if err := in.Area.Validate(); err != nil {
		return nil, wrapValidation(err)
	}

	rec := models.CoverageAreaRecord{
		ID:         in.Area.ID,
		LocationID: in.LocationID,
		FloorID:    in.FloorID,
		Area:       in.Area,
	}
	if err := s.areas.Create(ctx, &rec); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "coverage area created",
		logging.String("area_id", rec.ID),
		logging.String("shape", string(rec.Area.Shape.Kind())),
	)
	return &rec, nil
}

// DeleteArea removes a coverage area
func (s *SettingsService) DeleteArea(ctx context.Context, id string) error {
	return s.areas.Delete(ctx, id)
}
