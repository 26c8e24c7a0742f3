package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/metaflux/metaflux/internal/driver"
)

// RunMeta describes one persisted simulation run.
type RunMeta struct {
	ID              int64
	PathwayID       string
	PathwayName     string
	MetaboliteOrder []string // pathway declaration order, for CSV export
	TimeStep        float64
	Duration        float64
	ProfileDigest   string
	CreatedAt       time.Time
}

// SQLiteTrajectoryStore persists runs and their sampled trajectories in a
// SQLite database.
type SQLiteTrajectoryStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates or opens a trajectory database at path.
func Open(path string) (*SQLiteTrajectoryStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteTrajectoryStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteTrajectoryStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts run metadata and returns its id.
func (s *SQLiteTrajectoryStore) CreateRun(ctx context.Context, meta RunMeta) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (pathway_id, pathway_name, metabolite_order, time_step, duration, profile_digest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.PathwayID, meta.PathwayName, strings.Join(meta.MetaboliteOrder, ","),
		meta.TimeStep, meta.Duration, meta.ProfileDigest,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// AppendSample stores one snapshot under a run.
func (s *SQLiteTrajectoryStore) AppendSample(ctx context.Context, runID int64, snap driver.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conc, err := json.Marshal(snap.Concentrations)
	if err != nil {
		return fmt.Errorf("failed to encode concentrations: %w", err)
	}
	var fluxes any
	if snap.Fluxes != nil {
		data, err := json.Marshal(snap.Fluxes)
		if err != nil {
			return fmt.Errorf("failed to encode fluxes: %w", err)
		}
		fluxes = string(data)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO samples (run_id, time_s, concentrations, fluxes) VALUES (?, ?, ?, ?)`,
		runID, snap.TimeS, string(conc), fluxes); err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// GetRun returns the metadata for a run id.
func (s *SQLiteTrajectoryStore) GetRun(ctx context.Context, runID int64) (RunMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var meta RunMeta
	var order, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, pathway_id, pathway_name, metabolite_order, time_step, duration, profile_digest, created_at
		 FROM runs WHERE id = ?`, runID).
		Scan(&meta.ID, &meta.PathwayID, &meta.PathwayName, &order, &meta.TimeStep, &meta.Duration, &meta.ProfileDigest, &createdAt)
	if err != nil {
		return RunMeta{}, fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	if order != "" {
		meta.MetaboliteOrder = strings.Split(order, ",")
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		meta.CreatedAt = t
	}
	return meta, nil
}

// ListRuns returns all run metadata, newest first.
func (s *SQLiteTrajectoryStore) ListRuns(ctx context.Context) ([]RunMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pathway_id, pathway_name, metabolite_order, time_step, duration, profile_digest, created_at
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		var meta RunMeta
		var order, createdAt string
		if err := rows.Scan(&meta.ID, &meta.PathwayID, &meta.PathwayName, &order, &meta.TimeStep, &meta.Duration, &meta.ProfileDigest, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if order != "" {
			meta.MetaboliteOrder = strings.Split(order, ",")
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			meta.CreatedAt = t
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// GetTrajectory loads a run's samples in ascending time order.
func (s *SQLiteTrajectoryStore) GetTrajectory(ctx context.Context, runID int64) (driver.Trajectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT time_s, concentrations, fluxes FROM samples WHERE run_id = ? ORDER BY time_s ASC`, runID)
	if err != nil {
		return driver.Trajectory{}, fmt.Errorf("failed to load trajectory %d: %w", runID, err)
	}
	defer rows.Close()

	var traj driver.Trajectory
	for rows.Next() {
		var snap driver.Snapshot
		var conc string
		var fluxes sql.NullString
		if err := rows.Scan(&snap.TimeS, &conc, &fluxes); err != nil {
			return driver.Trajectory{}, fmt.Errorf("failed to scan sample: %w", err)
		}
		if err := json.Unmarshal([]byte(conc), &snap.Concentrations); err != nil {
			return driver.Trajectory{}, fmt.Errorf("failed to decode concentrations: %w", err)
		}
		if fluxes.Valid {
			if err := json.Unmarshal([]byte(fluxes.String), &snap.Fluxes); err != nil {
				return driver.Trajectory{}, fmt.Errorf("failed to decode fluxes: %w", err)
			}
		}
		traj.Append(snap)
	}
	return traj, rows.Err()
}

// SaveTrajectory persists a complete run in one call: the run metadata, then
// each sample in order. The inserts are not wrapped in one transaction; if a
// sample insert fails, the run row and the samples written before it remain.
func (s *SQLiteTrajectoryStore) SaveTrajectory(ctx context.Context, meta RunMeta, traj *driver.Trajectory) (int64, error) {
	runID, err := s.CreateRun(ctx, meta)
	if err != nil {
		return 0, err
	}
	for _, snap := range traj.Snapshots {
		if err := s.AppendSample(ctx, runID, snap); err != nil {
			return 0, err
		}
	}
	return runID, nil
}
