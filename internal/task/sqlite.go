package task

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/task/migrations"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// SQLiteStore persists tasks in a SQLite database so job state survives
// restarts.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the task database at path and
// applies pending migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// WAL mode for concurrent readers while the runner writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate applies all pending migrations.
func (s *SQLiteStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Create persists a new task.
func (s *SQLiteStore) Create(ctx context.Context, t *Task) error {
	resultJSON, err := marshalResult(t.Result)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, status, filename, direction, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, string(t.Status), t.Filename, t.Direction, resultJSON, t.Error, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "constraint") {
			return fmt.Errorf("task %s: %w", t.ID, ErrExists)
		}
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// Get returns the task with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, filename, direction, result, error, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// Update persists a task's state after validating the status change.
func (s *SQLiteStore) Update(ctx context.Context, t *Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM tasks WHERE id = ?", t.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading current status: %w", err)
	}
	if err := checkTransition(Status(current), t.Status); err != nil {
		return err
	}

	resultJSON, err := marshalResult(t.Result)
	if err != nil {
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, filename = ?, direction = ?, result = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, string(t.Status), t.Filename, t.Direction, resultJSON, t.Error, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// List returns all tasks, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, filename, direction, result, error, created_at, updated_at
		FROM tasks ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task //nolint:prealloc // size unknown from query
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// marshalResult encodes a result as JSON for storage; nil maps to NULL.
func marshalResult(result *domain.TranslationResult) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling result: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanTask(row *sql.Row) (*Task, error) {
	var t Task
	var status string
	var resultJSON sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&t.ID, &status, &t.Filename, &t.Direction,
		&resultJSON, &t.Error, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return finishTask(&t, status, resultJSON, createdAt, updatedAt)
}

func scanTaskRows(rows *sql.Rows) (*Task, error) {
	var t Task
	var status string
	var resultJSON sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := rows.Scan(&t.ID, &status, &t.Filename, &t.Direction,
		&resultJSON, &t.Error, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return finishTask(&t, status, resultJSON, createdAt, updatedAt)
}

func finishTask(t *Task, status string, resultJSON sql.NullString, createdAt, updatedAt sql.NullTime) (*Task, error) {
	t.Status = Status(status)
	if resultJSON.Valid && resultJSON.String != jsonNull {
		var result domain.TranslationResult
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return nil, fmt.Errorf("unmarshalling result: %w", err)
		}
		t.Result = &result
	}
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = updatedAt.Time
	}
	return t, nil
}
