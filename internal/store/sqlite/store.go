// Package sqlite implements the catalog store on a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
)

// Store persists activities and participants in SQLite.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated SQLite handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// InTx begins a write-locked transaction, runs fn and commits or rolls back.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type tx struct {
	tx *sql.Tx
}

const activityColumns = `id, name, description, schedule, max_participants`

func (t *tx) ListActivities(ctx context.Context) ([]models.Activity, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var list []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (t *tx) GetActivityByName(ctx context.Context, name string) (models.Activity, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE name = ?`, name)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, store.ErrNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("get activity %q: %w", name, err)
	}
	return a, nil
}

func (t *tx) CreateActivity(ctx context.Context, a *models.Activity) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO activities (name, description, schedule, max_participants) VALUES (?, ?, ?, ?)`,
		a.Name, nullString(a.Description), nullString(a.Schedule), nullInt(a.MaxParticipants),
	)
	if err != nil {
		return fmt.Errorf("create activity %q: %w", a.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create activity %q: %w", a.Name, err)
	}
	a.ID = id
	return nil
}

func (t *tx) UpdateActivity(ctx context.Context, a models.Activity) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE activities SET name = ?, description = ?, schedule = ?, max_participants = ? WHERE id = ?`,
		a.Name, nullString(a.Description), nullString(a.Schedule), nullInt(a.MaxParticipants), a.ID,
	)
	if err != nil {
		return fmt.Errorf("update activity %d: %w", a.ID, err)
	}
	return requireAffected(res)
}

func (t *tx) DeleteActivity(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	return requireAffected(res)
}

func (t *tx) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return t.queryParticipants(ctx, `SELECT id, activity_id, email FROM participants ORDER BY activity_id, id`)
}

func (t *tx) ListParticipantsByActivity(ctx context.Context, activityID int64) ([]models.Participant, error) {
	return t.queryParticipants(ctx, `SELECT id, activity_id, email FROM participants WHERE activity_id = ? ORDER BY id`, activityID)
}

func (t *tx) queryParticipants(ctx context.Context, q string, args ...any) ([]models.Participant, error) {
	rows, err := t.tx.QueryContext(ctx, q, args...)
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
	var p models.Participant
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, activity_id, email FROM participants WHERE activity_id = ? AND email = ? ORDER BY id LIMIT 1`,
		activityID, email,
	).Scan(&p.ID, &p.ActivityID, &p.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, store.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (t *tx) CountParticipants(ctx context.Context, activityID int64) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE activity_id = ?`, activityID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

func (t *tx) CreateParticipant(ctx context.Context, p *models.Participant) error {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO participants (activity_id, email) VALUES (?, ?)`, p.ActivityID, p.Email)
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	p.ID = id
	return nil
}

func (t *tx) DeleteParticipant(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete participant %d: %w", id, err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(row scanner) (models.Activity, error) {
	var (
		a           models.Activity
		description sql.NullString
		schedule    sql.NullString
		maxP        sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.Name, &description, &schedule, &maxP); err != nil {
		return models.Activity{}, err
	}
	if description.Valid {
		a.Description = &description.String
	}
	if schedule.Valid {
		a.Schedule = &schedule.String
	}
	if maxP.Valid {
		n := int(maxP.Int64)
		a.MaxParticipants = &n
	}
	return a, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
