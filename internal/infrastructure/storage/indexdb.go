package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dungeon-sim/internal/engine"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// TickIndex - SQLite-индекс прогонов и дайджестов состояния по тикам.
type TickIndex struct {
	db *sql.DB
}

// Run - запись о прогоне.
type Run struct {
	ID        string
	Scenario  string
	Seed      uint64
	StartedAt time.Time
}

// TickDigest - дайджест состояния после тика.
type TickDigest struct {
	Tick     int
	Digest   string
	Entities int
}

func OpenTickIndex(path string) (*TickIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &TickIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			tick INTEGER NOT NULL,
			digest TEXT NOT NULL,
			entities INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (x *TickIndex) Close() error { return x.db.Close() }

func (x *TickIndex) RegisterRun(r Run) error {
	// seed хранится как int64 с тем же битовым представлением
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, scenario, seed, started_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.Scenario, int64(r.Seed), r.StartedAt.UnixNano(),
	)
	return err
}

func (x *TickIndex) Run(id string) (Run, error) {
	var (
		r       Run
		seed    int64
		started int64
	)
	err := x.db.QueryRow(`SELECT run_id, scenario, seed, started_at FROM runs WHERE run_id = ?`, id).
		Scan(&r.ID, &r.Scenario, &seed, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, err
	}
	r.Seed = uint64(seed)
	r.StartedAt = time.Unix(0, started)
	return r, nil
}

// RecordTick сохраняет дайджест. После перемотки тик перезаписывается.
func (x *TickIndex) RecordTick(runID string, d TickDigest) error {
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO ticks (run_id, tick, digest, entities) VALUES (?, ?, ?, ?)`,
		runID, d.Tick, d.Digest, d.Entities,
	)
	return err
}

func (x *TickIndex) Digest(runID string, tick int) (string, error) {
	var digest string
	err := x.db.QueryRow(`SELECT digest FROM ticks WHERE run_id = ? AND tick = ?`, runID, tick).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("run %s tick %d: %w", runID, tick, ErrNotFound)
	}
	return digest, err
}

// Digests возвращает все дайджесты прогона по возрастанию тика.
func (x *TickIndex) Digests(runID string) ([]TickDigest, error) {
	rows, err := x.db.Query(`SELECT tick, digest, entities FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TickDigest
	for rows.Next() {
		var d TickDigest
		if err := rows.Scan(&d.Tick, &d.Digest, &d.Entities); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DigestObserver пишет дайджест после каждого тика игры.
type DigestObserver struct {
	Index *TickIndex
	RunID string
}

func (o *DigestObserver) ObserveTick(g *engine.Game, _ time.Duration) {
	d := TickDigest{Tick: g.CurrentTick(), Digest: g.Digest(), Entities: g.Map.Count()}
	if err := o.Index.RecordTick(o.RunID, d); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "storage",
			"run_id":    o.RunID,
			"tick":      d.Tick,
		}).WithError(err).Error("Failed to index tick")
	}
}

// Track регистрирует прогон, пишет дайджест начального состояния и
// подписывает наблюдателя на игру.
func (x *TickIndex) Track(g *engine.Game, runID, scenario string) error {
	if err := x.RegisterRun(Run{ID: runID, Scenario: scenario, Seed: g.Config.Seed, StartedAt: time.Now()}); err != nil {
		return err
	}
	if err := x.RecordTick(runID, TickDigest{Tick: g.CurrentTick(), Digest: g.Digest(), Entities: g.Map.Count()}); err != nil {
		return err
	}
	g.AddObserver(&DigestObserver{Index: x, RunID: runID})
	return nil
}
