package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one served prediction, persisted for auditing and analytics.
type Record struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Score       float64   `json:"score"`
	RiskLevel   string    `json:"risk_level"`
	Confidence  float64   `json:"confidence"`
	City        string    `json:"city,omitempty"`
	VehicleType string    `json:"vehicle_type,omitempty"`
	InputHash   string    `json:"input_hash"`
}

// Stats summarizes the stored prediction history.
type Stats struct {
	TotalPredictions int64            `json:"total_predictions"`
	AverageScore     float64          `json:"average_score"`
	ByRiskLevel      map[string]int64 `json:"by_risk_level"`
	OldestRecord     *time.Time       `json:"oldest_record,omitempty"`
	NewestRecord     *time.Time       `json:"newest_record,omitempty"`
}

// Store persists prediction records in SQLite with connection pooling.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "nova_score.db")

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run history migrations: %w", err)
	}

	slog.Info("Prediction history store initialized", "path", dbPath)

	return s, nil
}

func (s *Store) migrate() error {
	query := `CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		score REAL NOT NULL,
		risk_level TEXT NOT NULL,
		confidence REAL NOT NULL,
		city TEXT,
		vehicle_type TEXT,
		input_hash TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_risk_level ON predictions(risk_level);`

	_, err := s.db.Exec(query)
	return err
}

// Save persists a prediction record. The ID is assigned if empty.
func (s *Store) Save(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, created_at, score, risk_level, confidence, city, vehicle_type, input_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, rec.Score, rec.RiskLevel, rec.Confidence,
		rec.City, rec.VehicleType, rec.InputHash)
	if err != nil {
		return "", fmt.Errorf("failed to save prediction record: %w", err)
	}

	return rec.ID, nil
}

// Recent returns the most recent prediction records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, score, risk_level, confidence, city, vehicle_type, input_hash
		 FROM predictions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var city, vehicle sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Score, &rec.RiskLevel,
			&rec.Confidence, &city, &vehicle, &rec.InputHash); err != nil {
			return nil, fmt.Errorf("failed to scan prediction record: %w", err)
		}
		rec.City = city.String
		rec.VehicleType = vehicle.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetStats aggregates the stored history.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByRiskLevel: make(map[string]int64)}

	var avg sql.NullFloat64
	var oldest, newest sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score), MIN(created_at), MAX(created_at) FROM predictions`).
		Scan(&stats.TotalPredictions, &avg, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prediction history: %w", err)
	}
	stats.AverageScore = avg.Float64
	if oldest.Valid {
		stats.OldestRecord = &oldest.Time
	}
	if newest.Valid {
		stats.NewestRecord = &newest.Time
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT risk_level, COUNT(*) FROM predictions GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan risk level count: %w", err)
		}
		stats.ByRiskLevel[level] = count
	}

	return stats, rows.Err()
}

// PoolStats returns connection pool statistics.
func (s *Store) PoolStats() map[string]interface{} {
	st := s.db.Stats()

	return map[string]interface{}{
		"open_connections": st.OpenConnections,
		"in_use":           st.InUse,
		"idle":             st.Idle,
		"wait_count":       st.WaitCount,
		"wait_duration_ms": st.WaitDuration.Milliseconds(),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
