package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
)

const monitorColumns = `id, location_id, floor_id, name, status,
		x, y, frequency_mhz, calibrated_tx_power_dbm, last_known_rssi_dbm,
		created_at, updated_at`

// MonitorRepository handles database operations for monitors
type MonitorRepository struct {
	db *sql.DB
}

// NewMonitorRepository creates a new monitor repository
func NewMonitorRepository(db *sql.DB) *MonitorRepository {
	return &MonitorRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonitor(row rowScanner) (models.Monitor, error) {
	var m models.Monitor
	err := row.Scan(
		&m.ID, &m.LocationID, &m.FloorID, &m.Name, &m.Status,
		&m.X, &m.Y, &m.FrequencyMHz, &m.CalibratedTxPowerDBm, &m.LastKnownRSSIDBm,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// List retrieves monitors with filtering
func (r *MonitorRepository) List(ctx context.Context, filter models.MonitorFilter) ([]models.Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors`

	conditions := []string{"location_id = ?"}
	args := []any{filter.LocationID}
	if filter.FloorID != "" {
		conditions = append(conditions, "floor_id = ?")
		args = append(args, filter.FloorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	query += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monitors: %w", err)
	}
	defer rows.Close()

	monitors := []models.Monitor{}
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitor: %w", err)
		}
		monitors = append(monitors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monitors: %w", err)
	}

	return monitors, nil
}

// GetByID retrieves a single monitor
func (r *MonitorRepository) GetByID(ctx context.Context, id string) (*models.Monitor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+monitorColumns+` FROM monitors WHERE id = ?`, id)
	m, err := scanMonitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monitor: %w", err)
	}
	return &m, nil
}

// Save inserts or updates a monitor. A missing ID is generated; created_at
// is kept on update.
func (r *MonitorRepository) Save(ctx context.Context, m *models.Monitor) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO monitors (`+monitorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			location_id = excluded.location_id,
			floor_id = excluded.floor_id,
			name = excluded.name,
			status = excluded.status,
			x = excluded.x,
			y = excluded.y,
			frequency_mhz = excluded.frequency_mhz,
			calibrated_tx_power_dbm = excluded.calibrated_tx_power_dbm,
			last_known_rssi_dbm = excluded.last_known_rssi_dbm,
			updated_at = excluded.updated_at`,
		m.ID, m.LocationID, m.FloorID, m.Name, m.Status,
		m.X, m.Y, m.FrequencyMHz, m.CalibratedTxPowerDBm, m.LastKnownRSSIDBm,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save monitor: %w", err)
	}
	return nil
}

// Delete removes a monitor
func (r *MonitorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monitors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete monitor: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
