package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store persists projects
type Store interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]ListItem, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// ListItem is the summary row of a stored project
type ListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         VARCHAR(36) PRIMARY KEY,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// SQLStore keeps projects as JSON documents in a SQL table
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *zap.SugaredLogger
	now    func() time.Time
}

// OpenSQLStore opens the database and creates the schema if needed
func OpenSQLStore(ctx context.Context, driver, dsn string, logger *zap.SugaredLogger) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported project store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create projects table: %w", err)
	}

	logger.Infof("project store ready (%s)", driver)
	return &SQLStore{db: db, driver: driver, logger: logger, now: time.Now}, nil
}

// rebind rewrites ? placeholders to $n for postgres
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Create assigns a new ID and stores p
func (s *SQLStore) Create(ctx context.Context, p *Project) error {
	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO projects (id, name, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.Name(), string(payload), now.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	s.logger.Debugf("created project %s (%s)", p.ID, p.Name())
	return nil
}

// Get loads a project by ID
func (s *SQLStore) Get(ctx context.Context, id string) (*Project, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM projects WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	var p Project
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &p, nil
}

// List returns all projects, most recently updated first
func (s *SQLStore) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	items := []ListItem{}
	for rows.Next() {
		var item ListItem
		var updated int64
		if err := rows.Scan(&item.ID, &item.Name, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		item.UpdatedAt = time.Unix(0, updated).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update stores p over the existing row with the same ID
func (s *SQLStore) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = s.now().UTC()
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE projects SET name = ?, payload = ?, updated_at = ? WHERE id = ?`),
		p.Name(), string(payload), p.UpdatedAt.UnixNano(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return s.expectOneRow(res, p.ID)
}

// Delete removes a project
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return s.expectOneRow(res, id)
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
