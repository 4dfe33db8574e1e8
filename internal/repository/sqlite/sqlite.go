package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"nxfacts/internal/domain"
	"nxfacts/internal/logger"
	"nxfacts/internal/repository"
)

// ErrRunNotFound is returned when no stored run matches
var ErrRunNotFound = errors.New("run not found")

// Repository implements repository.SnapshotRepository using SQLite
type Repository struct {
	db  *sql.DB
	log logger.Logger
}

var _ repository.SnapshotRepository = (*Repository)(nil)

// New opens (creating if needed) the history database at dbPath
func New(dbPath string, log logger.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, log: log.WithComponent("store")}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	PRAGMA busy_timeout = 5000;
	PRAGMA journal_mode = WAL;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		host TEXT NOT NULL,
		hostname TEXT,
		subsets JSON NOT NULL,
		facts JSON NOT NULL,
		warnings JSON NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_host_created ON runs(host, created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRun stores snap, assigning ID and CreatedAt when unset
func (r *Repository) SaveRun(ctx context.Context, snap *domain.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	snap.CreatedAt = snap.CreatedAt.UTC()

	subsets, err := marshalJSONField(snap.Subsets, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal subsets: %w", err)
	}
	facts, err := marshalJSONField(snap.Facts, "{}")
	if err != nil {
		return fmt.Errorf("failed to marshal facts: %w", err)
	}
	warnings, err := marshalJSONField(snap.Warnings, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, host, hostname, subsets, facts, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Host, stringToNull(snap.Hostname), subsets, facts, warnings, formatTime(snap.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	r.log.Debug().Str("run_id", snap.ID).Str("host", snap.Host).Int("facts", len(snap.Facts)).Msg("saved run")
	return nil
}

// GetRun loads one run by ID
func (r *Repository) GetRun(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, host, hostname, subsets, facts, warnings, created_at
		FROM runs WHERE id = ?
	`, id)
	return scanSnapshot(row)
}

// LatestRun returns the newest run for host
func (r *Repository) LatestRun(ctx context.Context, host string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, host, hostname, subsets, facts, warnings, created_at
		FROM runs WHERE host = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, host)
	return scanSnapshot(row)
}

// ListRuns returns summaries newest first. An empty host lists every device; a
// non-positive limit returns all rows.
func (r *Repository) ListRuns(ctx context.Context, host string, limit int) ([]domain.SnapshotSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, host, hostname, subsets, warnings, created_at
		FROM runs
		WHERE ? = '' OR host = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, host, host, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.SnapshotSummary, 0)
	for rows.Next() {
		var (
			sum                        domain.SnapshotSummary
			hostname                   sql.NullString
			subsets, warnings, created string
			warningList                []string
		)
		if err := rows.Scan(&sum.ID, &sum.Host, &hostname, &subsets, &warnings, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		sum.Hostname = nullToString(hostname)
		if err := unmarshalJSONField(subsets, &sum.Subsets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal subsets: %w", err)
		}
		if err := unmarshalJSONField(warnings, &warningList); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
		sum.WarningCount = len(warningList)
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// DeleteRun removes one run
func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Close releases the database handle
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var (
		snap                              domain.Snapshot
		hostname                          sql.NullString
		subsets, facts, warnings, created string
	)

	err := row.Scan(&snap.ID, &snap.Host, &hostname, &subsets, &facts, &warnings, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	snap.Hostname = nullToString(hostname)
	if err := unmarshalJSONField(subsets, &snap.Subsets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subsets: %w", err)
	}
	if err := unmarshalJSONField(facts, &snap.Facts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal facts: %w", err)
	}
	if err := unmarshalJSONField(warnings, &snap.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}
	if snap.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	return &snap, nil
}
