package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/worklog-dashboard/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// snapshotRow is the on-disk shape of a snapshot. fetched_at is stored as
// Unix milliseconds.
type snapshotRow struct {
	ID        string `db:"id"`
	RangeKey  string `db:"range_key"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	FetchedAt int64  `db:"fetched_at"`
	Issues    string `db:"issues"`
	Worklogs  string `db:"worklogs"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveSnapshot inserts or replaces a snapshot.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}

	issues, err := json.Marshal(nonNil(snap.Issues))
	if err != nil {
		return fmt.Errorf("marshaling issues for snapshot %s: %w", snap.ID, err)
	}
	worklogs, err := json.Marshal(nonNil(snap.Worklogs))
	if err != nil {
		return fmt.Errorf("marshaling worklogs for snapshot %s: %w", snap.ID, err)
	}

	row := snapshotRow{
		ID:        snap.ID,
		RangeKey:  snap.RangeKey,
		StartDate: snap.StartDate,
		EndDate:   snap.EndDate,
		FetchedAt: snap.FetchedAt.UnixMilli(),
		Issues:    string(issues),
		Worklogs:  string(worklogs),
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO snapshots (
			id, range_key, start_date, end_date, fetched_at, issues, worklogs
		) VALUES (
			:id, :range_key, :start_date, :end_date, :fetched_at, :issues, :worklogs
		)`, row)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", snap.ID, err)
	}

	return nil
}

// GetLatestSnapshot retrieves the newest snapshot for rangeKey.
func (s *SQLiteStore) GetLatestSnapshot(
	ctx context.Context,
	rangeKey string,
) (*model.Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, `
		SELECT * FROM snapshots
		WHERE range_key = ?
		ORDER BY fetched_at DESC
		LIMIT 1`, rangeKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot for %s: %w", rangeKey, err)
	}

	return row.toModel()
}

// PruneSnapshots removes snapshots fetched before olderThan.
func (s *SQLiteStore) PruneSnapshots(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE fetched_at < ?", olderThan.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

func (r snapshotRow) toModel() (*model.Snapshot, error) {
	snap := &model.Snapshot{
		ID:        r.ID,
		RangeKey:  r.RangeKey,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		FetchedAt: time.UnixMilli(r.FetchedAt),
	}
	if err := json.Unmarshal([]byte(r.Issues), &snap.Issues); err != nil {
		return nil, fmt.Errorf("unmarshaling issues of snapshot %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Worklogs), &snap.Worklogs); err != nil {
		return nil, fmt.Errorf("unmarshaling worklogs of snapshot %s: %w", r.ID, err)
	}
	return snap, nil
}

// nonNil stores empty lists as "[]" rather than "null".
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
