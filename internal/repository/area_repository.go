package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// AreaRepository stores coverage areas. The shape and thresholds are kept as
// the area's JSON form in area_json.
type AreaRepository struct {
	db *sql.DB
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db *sql.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

func scanArea(row rowScanner) (models.CoverageAreaRecord, error) {
	var rec models.CoverageAreaRecord
	var raw string
	if err := row.Scan(&rec.ID, &rec.LocationID, &rec.FloorID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(raw), &rec.Area); err != nil {
		return rec, fmt.Errorf("failed to decode area %s: %w", rec.ID, err)
	}
	rec.Area.ID = rec.ID
	return rec, nil
}

// List retrieves the areas of a location, optionally restricted to a floor
func (r *AreaRepository) List(ctx context.Context, filter models.AreaFilter) ([]models.CoverageAreaRecord, error) {
	query := `SELECT id, location_id, floor_id, area_json, created_at, updated_at
		FROM coverage_areas WHERE location_id = ?`
	args := []any{filter.LocationID}
	if filter.FloorID != "" {
		query += " AND floor_id = ?"
		args = append(args, filter.FloorID)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage areas: %w", err)
	}
	defer rows.Close()

	areas := []models.CoverageAreaRecord{}
	for rows.Next() {
		rec, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage area: %w", err)
		}
		areas = append(areas, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coverage areas: %w", err)
	}
	return areas, nil
}

// GetByID retrieves a single area
func (r *AreaRepository) GetByID(ctx context.Context, id string) (*models.CoverageAreaRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, location_id, floor_id, area_json, created_at, updated_at
		FROM coverage_areas WHERE id = ?`, id)
	rec, err := scanArea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coverage area: %w", err)
	}
	return &rec, nil
}

// Create inserts a new area, generating its ID when empty
func (r *AreaRepository) Create(ctx context.Context, rec *models.CoverageAreaRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Area.ID = rec.ID
	now := time.Now().Unix()
	rec.CreatedAt, rec.UpdatedAt = now, now

	raw, err := json.Marshal(rec.Area)
	if err != nil {
		return fmt.Errorf("failed to encode area: %w", err)
	}
	var kind spatial.ShapeKind
	if rec.Area.Shape != nil {
		kind = rec.Area.Shape.Kind()
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO coverage_areas
		(id, location_id, floor_id, name, shape_type, area_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.LocationID, rec.FloorID, rec.Area.Name, string(kind), string(raw), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create coverage area: %w", err)
	}
	return nil
}

// Delete removes an area
func (r *AreaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coverage_areas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coverage area: %w", err)
	}
	return requireAffected(res)
}
