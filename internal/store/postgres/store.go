// Package postgres implements the catalog store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
)

// Store persists activities and participants in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps a connected, migrated pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx runs fn inside a transaction on a pooled connection.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(pgTx pgx.Tx) error {
		return fn(&tx{tx: pgTx})
	})
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

type tx struct {
	tx pgx.Tx
}

const activityColumns = `id, name, description, schedule, max_participants`

func (t *tx) ListActivities(ctx context.Context) ([]models.Activity, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var list []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetActivityByName locks the activity row until the transaction ends so
// concurrent signups for the same activity run one after another.
func (t *tx) GetActivityByName(ctx context.Context, name string) (models.Activity, error) {
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE name = $1 FOR UPDATE`
	var a models.Activity
	err := t.tx.QueryRow(ctx, q, name).Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Activity{}, store.ErrNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("get activity %q: %w", name, err)
	}
	return a, nil
}

func (t *tx) CreateActivity(ctx context.Context, a *models.Activity) error {
	const q = `INSERT INTO activities (name, description, schedule, max_participants)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := t.tx.QueryRow(ctx, q, a.Name, a.Description, a.Schedule, a.MaxParticipants).Scan(&a.ID); err != nil {
		return fmt.Errorf("create activity %q: %w", a.Name, err)
	}
	return nil
}

func (t *tx) UpdateActivity(ctx context.Context, a models.Activity) error {
	const q = `UPDATE activities SET name = $1, description = $2, schedule = $3, max_participants = $4 WHERE id = $5`
	tag, err := t.tx.Exec(ctx, q, a.Name, a.Description, a.Schedule, a.MaxParticipants, a.ID)
	if err != nil {
		return fmt.Errorf("update activity %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *tx) DeleteActivity(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *tx) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return t.queryParticipants(ctx, `SELECT id, activity_id, email FROM participants ORDER BY activity_id, id`)
}

func (t *tx) ListParticipantsByActivity(ctx context.Context, activityID int64) ([]models.Participant, error) {
	return t.queryParticipants(ctx, `SELECT id, activity_id, email FROM participants WHERE activity_id = $1 ORDER BY id`, activityID)
}

func (t *tx) queryParticipants(ctx context.Context, q string, args ...any) ([]models.Participant, error) {
	rows, err := t.tx.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var list []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.Email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (t *tx) FindParticipant(ctx context.Context, activityID int64, email string) (models.Participant, error) {
	const q = `SELECT id, activity_id, email FROM participants WHERE activity_id = $1 AND email = $2 ORDER BY id LIMIT 1`
	var p models.Participant
	err := t.tx.QueryRow(ctx, q, activityID, email).Scan(&p.ID, &p.ActivityID, &p.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Participant{}, store.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (t *tx) CountParticipants(ctx context.Context, activityID int64) (int, error) {
	var n int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM participants WHERE activity_id = $1`, activityID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

func (t *tx) CreateParticipant(ctx context.Context, p *models.Participant) error {
	const q = `INSERT INTO participants (activity_id, email) VALUES ($1, $2) RETURNING id`
	if err := t.tx.QueryRow(ctx, q, p.ActivityID, p.Email).Scan(&p.ID); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (t *tx) DeleteParticipant(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
