package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yegors/flightplanner/pkg/logger"
)

// ErrRouteNotFound is returned when no saved route has the requested ID
var ErrRouteNotFound = errors.New("saved route not found")

// fixed-width so updated_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RouteStorage handles storage of saved routes
type RouteStorage struct {
	db     *sql.DB
	logger *logger.Logger
	now    func() time.Time
}

// NewRouteStorage creates a new SQLite route storage
func NewRouteStorage(db *sql.DB, log *logger.Logger) (*RouteStorage, error) {
	storage := &RouteStorage{
		db:     db,
		logger: log.Named("sqlite-routes"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := storage.initDB(); err != nil {
		storage.logger.Error("Failed to initialize route storage", logger.Error(err))
		return nil, err
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *RouteStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			aircraft TEXT NOT NULL,
			content TEXT NOT NULL,
			waypoint_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create routes table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_routes_name ON routes(name)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_updated_at ON routes(updated_at)`,
	}

	for _, indexSQL := range indexes {
		if _, err = s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create route index: %w", err)
		}
	}

	return nil
}

// SaveRoute inserts a route, or replaces the content of an existing one.
// An empty ID is assigned a new one. The stored record is returned.
func (s *RouteStorage) SaveRoute(record *RouteRecord) (*RouteRecord, error) {
	saved := *record
	now := s.now()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	saved.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO routes
		(id, name, aircraft, content, waypoint_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			aircraft = excluded.aircraft,
			content = excluded.content,
			waypoint_count = excluded.waypoint_count,
			updated_at = excluded.updated_at`,
		saved.ID,
		saved.Name,
		saved.Aircraft,
		saved.Content,
		saved.WaypointCount,
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save route: %w", err)
	}

	stored, err := s.GetRoute(saved.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved route",
		logger.String("id", stored.ID),
		logger.String("name", stored.Name),
		logger.Int("waypoints", stored.WaypointCount))
	return stored, nil
}

// GetRoute returns a saved route including its content
func (s *RouteStorage) GetRoute(id string) (*RouteRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, name, aircraft, content, waypoint_count, created_at, updated_at
		FROM routes
		WHERE id = ?`,
		id,
	)

	record, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRoutes returns saved routes without content, most recently updated first
func (s *RouteStorage) ListRoutes(limit int) ([]*RouteRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, name, aircraft, '', waypoint_count, created_at, updated_at
		FROM routes
		ORDER BY updated_at DESC, name ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	records := []*RouteRecord{}
	for rows.Next() {
		record, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate routes: %w", err)
	}

	return records, nil
}

// DeleteRoute removes a saved route
func (s *RouteStorage) DeleteRoute(id string) error {
	result, err := s.db.Exec(`DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRoute scans a single row into a RouteRecord
func scanRoute(row rowScanner) (*RouteRecord, error) {
	var record RouteRecord
	var createdAt, updatedAt string

	if err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Aircraft,
		&record.Content,
		&record.WaypointCount,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}

	var err error
	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &record, nil
}
