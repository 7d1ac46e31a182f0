// Package postgres provides pgx-backed persistence for runners and target
// achievements.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pieinspace/runTrackingAdmin/internal/domain"
	"github.com/pieinspace/runTrackingAdmin/internal/events"
	"github.com/pieinspace/runTrackingAdmin/internal/observability"
)

const targetTopic = "target_events"

// Repository implements the domain repositories on top of PostgreSQL.
type Repository struct {
	pool     *pgxpool.Pool
	targetKM float64
}

// NewRepository constructs a Repository. targetKM is the qualifying distance
// for the achievement listing.
func NewRepository(pool *pgxpool.Pool, targetKM float64) *Repository {
	if targetKM <= 0 {
		targetKM = domain.TargetDistanceKM
	}
	return &Repository{pool: pool, targetKM: targetKM}
}

// ListRunners returns every registered runner ordered by identifier.
func (r *Repository) ListRunners(ctx context.Context) ([]domain.Runner, error) {
	const query = `SELECT id, name, rank, unit, total_distance, total_sessions, created_at
        FROM runners ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runners := make([]domain.Runner, 0)
	for rows.Next() {
		var runner domain.Runner
		if err := rows.Scan(&runner.ID, &runner.Name, &runner.Rank, &runner.Unit, &runner.TotalDistanceKM, &runner.TotalSessions, &runner.CreatedAt); err != nil {
			return nil, err
		}
		runners = append(runners, runner)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runners, nil
}

// UpsertRunners inserts or refreshes runner rows in a single transaction.
func (r *Repository) UpsertRunners(ctx context.Context, runners []domain.Runner) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const stmt = `INSERT INTO runners (id, name, rank, unit, total_distance, total_sessions, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            rank = EXCLUDED.rank,
            unit = EXCLUDED.unit,
            total_distance = EXCLUDED.total_distance,
            total_sessions = EXCLUDED.total_sessions`

	for _, runner := range runners {
		if _, err := tx.Exec(ctx, stmt,
			runner.ID,
			runner.Name,
			runner.Rank,
			runner.Unit,
			runner.TotalDistanceKM,
			runner.TotalSessions,
			runner.CreatedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert runner %s: %w", runner.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(runners), nil
}

const targetColumns = `rs.id, rs.runner_id, u.name, u.rank, rs.distance_km, rs.duration_sec, rs.date_created, rs.validation_status`

// ListTargets returns qualifying sessions joined with their runner, newest
// first with distance as the tie-break.
func (r *Repository) ListTargets(ctx context.Context) ([]domain.TargetAchievement, error) {
	query := `SELECT ` + targetColumns + `
        FROM run_sessions rs
        JOIN runners u ON u.id = rs.runner_id
        WHERE rs.distance_km >= $1
        ORDER BY rs.date_created DESC, rs.distance_km DESC`

	rows, err := r.pool.Query(ctx, query, r.targetKM)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := make([]domain.TargetAchievement, 0)
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

// GetTarget retrieves one achievement by session identifier. A missing row
// returns nil without error.
func (r *Repository) GetTarget(ctx context.Context, id string) (*domain.TargetAchievement, error) {
	query := `SELECT ` + targetColumns + `
        FROM run_sessions rs
        JOIN runners u ON u.id = rs.runner_id
        WHERE rs.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	target, err := scanTarget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

// MarkValidated flips a pending achievement to validated with a single
// conditional update and records the outbox event in the same transaction.
// Concurrent callers race on the WHERE clause; exactly one observes the
// transition, the rest get nil and re-read the final state.
func (r *Repository) MarkValidated(ctx context.Context, id string, at time.Time) (*domain.TargetAchievement, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE run_sessions rs SET validation_status = 'validated'
        FROM runners u
        WHERE rs.id = $1 AND rs.validation_status = 'pending' AND u.id = rs.runner_id
        RETURNING ` + targetColumns

	row := tx.QueryRow(ctx, query, id)
	target, err := scanTarget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	payload, err := json.Marshal(events.TargetValidated{
		TargetID:    target.ID,
		RunnerID:    target.RunnerID,
		DistanceKM:  target.DistanceKM,
		ValidatedAt: at,
	})
	if err != nil {
		return nil, err
	}

	const outboxStmt = `INSERT INTO outbox (event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, outboxStmt, "target.validated", targetTopic, target.RunnerID, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.RecordValidation(at)
	return &target, nil
}

// UpsertTargets inserts or refreshes achievement rows in a single
// transaction. Runners referenced by a legacy export but not yet registered
// get a minimal runner row so the session's foreign key holds. Re-importing a
// row never downgrades a validated session back to pending.
func (r *Repository) UpsertTargets(ctx context.Context, targets []domain.TargetAchievement) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const runnerStmt = `INSERT INTO runners (id, name, rank)
        VALUES ($1,$2,$3)
        ON CONFLICT (id) DO NOTHING`

	const sessionStmt = `INSERT INTO run_sessions (id, runner_id, distance_km, duration_sec, date_created, validation_status)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE SET
            runner_id = EXCLUDED.runner_id,
            distance_km = EXCLUDED.distance_km,
            duration_sec = EXCLUDED.duration_sec,
            date_created = EXCLUDED.date_created,
            validation_status = CASE
                WHEN run_sessions.validation_status = 'validated' THEN run_sessions.validation_status
                ELSE EXCLUDED.validation_status
            END`

	for _, target := range targets {
		if _, err := tx.Exec(ctx, runnerStmt, target.RunnerID, target.RunnerName, target.RunnerRank); err != nil {
			return 0, fmt.Errorf("ensure runner %s: %w", target.RunnerID, err)
		}
		if _, err := tx.Exec(ctx, sessionStmt,
			target.ID,
			target.RunnerID,
			target.DistanceKM,
			target.DurationSec,
			target.AchievedDate,
			string(target.Validation),
		); err != nil {
			return 0, fmt.Errorf("upsert target %s: %w", target.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(targets), nil
}

func scanTarget(row pgx.Row) (domain.TargetAchievement, error) {
	var target domain.TargetAchievement
	var status string
	if err := row.Scan(&target.ID, &target.RunnerID, &target.RunnerName, &target.RunnerRank, &target.DistanceKM, &target.DurationSec, &target.AchievedDate, &status); err != nil {
		return domain.TargetAchievement{}, err
	}
	target.Validation = domain.ValidationStatus(status)
	return target, nil
}
