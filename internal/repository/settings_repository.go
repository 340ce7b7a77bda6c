package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
)

// SettingsRepository stores per-location coverage settings
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings of a location or ErrNotFound
func (r *SettingsRepository) Get(ctx context.Context, locationID string) (*models.CoverageSettings, error) {
	query := `SELECT location_id, model, interpolation, resolution, max_distance, shadowing,
		environment_type, path_loss_exponent, wall_loss_db, floor_loss_db, floors_crossed,
		thin_walls, thick_walls, floors, glass_panels,
		threshold_excellent, threshold_good, threshold_fair, threshold_poor,
		updated_at
		FROM coverage_settings WHERE location_id = ?`

	var s models.CoverageSettings
	var envType string
	env := &s.Environment
	err := r.db.QueryRowContext(ctx, query, locationID).Scan(
		&s.LocationID, &s.Model, &s.Interpolation, &s.Resolution, &s.MaxDistance, &s.Shadowing,
		&envType, &env.PathLossExponent, &env.WallLossDB, &env.FloorLossDB, &env.FloorsCrossed,
		&env.Obstacles.ThinWalls, &env.Obstacles.ThickWalls, &env.Obstacles.Floors, &env.Obstacles.GlassPanels,
		&s.Thresholds.Excellent, &s.Thresholds.Good, &s.Thresholds.Fair, &s.Thresholds.Poor,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coverage settings: %w", err)
	}
	env.Type = propagation.EnvironmentType(envType)

	return &s, nil
}

// Save upserts the settings of a location
func (r *SettingsRepository) Save(ctx context.Context, s *models.CoverageSettings) error {
	s.UpdatedAt = time.Now().Unix()
	env := s.Environment

	_, err := r.db.ExecContext(ctx, `INSERT INTO coverage_settings (
			location_id, model, interpolation, resolution, max_distance, shadowing,
			environment_type, path_loss_exponent, wall_loss_db, floor_loss_db, floors_crossed,
			thin_walls, thick_walls, floors, glass_panels,
			threshold_excellent, threshold_good, threshold_fair, threshold_poor,
			updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location_id) DO UPDATE SET
			model = excluded.model,
			interpolation = excluded.interpolation,
			resolution = excluded.resolution,
			max_distance = excluded.max_distance,
			shadowing = excluded.shadowing,
			environment_type = excluded.environment_type,
			path_loss_exponent = excluded.path_loss_exponent,
			wall_loss_db = excluded.wall_loss_db,
			floor_loss_db = excluded.floor_loss_db,
			floors_crossed = excluded.floors_crossed,
			thin_walls = excluded.thin_walls,
			thick_walls = excluded.thick_walls,
			floors = excluded.floors,
			glass_panels = excluded.glass_panels,
			threshold_excellent = excluded.threshold_excellent,
			threshold_good = excluded.threshold_good,
			threshold_fair = excluded.threshold_fair,
			threshold_poor = excluded.threshold_poor,
			updated_at = excluded.updated_at`,
		s.LocationID, s.Model, s.Interpolation, s.Resolution, s.MaxDistance, s.Shadowing,
		string(env.Type), env.PathLossExponent, env.WallLossDB, env.FloorLossDB, env.FloorsCrossed,
		env.Obstacles.ThinWalls, env.Obstacles.ThickWalls, env.Obstacles.Floors, env.Obstacles.GlassPanels,
		s.Thresholds.Excellent, s.Thresholds.Good, s.Thresholds.Fair, s.Thresholds.Poor,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save coverage settings: %w", err)
	}
	return nil
}
