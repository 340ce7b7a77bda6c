package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/logging"
	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/repository"
)

// MonitorService handles business logic for monitors
type MonitorService struct {
	repo   *repository.MonitorRepository
	logger logging.Logger
}

// NewMonitorService creates a new monitor service
func NewMonitorService(repo *repository.MonitorRepository, logger logging.Logger) *MonitorService {
	if logger == nil {
		logger = logging.Noop()
	}
	return &MonitorService{repo: repo, logger: logger.With(logging.String("component", "monitors"))}
}

// List retrieves monitors with filtering
func (s *MonitorService) List(ctx context.Context, filter models.MonitorFilter) ([]models.Monitor, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, validationError("unknown status %q", filter.Status)
	}
	return s.repo.List(ctx, filter)
}

// Get retrieves a single monitor
func (s *MonitorService) Get(ctx context.Context, id string) (*models.Monitor, error) {
	return s.repo.GetByID(ctx, id)
}

// Save validates and stores a monitor
func (s *MonitorService) Save(ctx context.Context, in models.MonitorInput) (*models.Monitor, error) {
	m := models.Monitor{
		ID:                   in.ID,
		LocationID:           strings.TrimSpace(in.LocationID),
		FloorID:              strings.TrimSpace(in.FloorID),
		Name:                 in.Name,
		Status:               strings.ToLower(strings.TrimSpace(in.Status)),
		X:                    in.X,
		Y:                    in.Y,
		FrequencyMHz:         in.FrequencyMHz,
		CalibratedTxPowerDBm: in.CalibratedTxPowerDBm,
		LastKnownRSSIDBm:     in.LastKnownRSSIDBm,
	}
	if m.Status == "" {
		m.Status = string(coverage.StatusActive)
	}
	if m.FrequencyMHz <= 0 {
		m.FrequencyMHz = coverage.DefaultFrequencyMHz
	}
	if err := validateMonitor(m); err != nil {
		return nil, err
	}

	if m.ID != "" {
		existing, err := s.repo.GetByID(ctx, m.ID)
		switch {
		case err == nil:
			m.CreatedAt = existing.CreatedAt
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, &m); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "monitor saved",
		logging.String("monitor_id", m.ID),
		logging.String("location_id", m.LocationID),
		logging.String("floor_id", m.FloorID),
		logging.String("status", m.Status),
	)
	return &m, nil
}

// Transmitters loads the monitors of a floor and converts them for the engine
func (s *MonitorService) Transmitters(ctx context.Context, locationID, floorID string) ([]coverage.Transmitter, []models.Monitor, error) {
	monitors, err := s.repo.List(ctx, models.MonitorFilter{LocationID: locationID, FloorID: floorID})
	if err != nil {
		return nil, nil, err
	}
	return models.Transmitters(monitors), monitors, nil
}

func validStatus(status string) bool {
	switch coverage.Status(strings.ToLower(status)) {
	case coverage.StatusActive, coverage.StatusInactive:
		return true
	}
	return false
}

func validateMonitor(m models.Monitor) error {
	if m.LocationID == "" || m.FloorID == "" {
		return validationError("locationId and floorId are required")
	}
	if !validStatus(m.Status) {
		return validationError("unknown status %q", m.Status)
	}
	if (m.X == nil) != (m.Y == nil) {
		return validationError("position needs both x and y")
	}
	for name, v := range map[string]*float64{
		"x":                    m.X,
		"y":                    m.Y,
		"calibratedTxPowerDbm": m.CalibratedTxPowerDBm,
		"lastKnownRssi":        m.LastKnownRSSIDBm,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return validationError("%s must be finite", name)
		}
	}
	return nil
}
