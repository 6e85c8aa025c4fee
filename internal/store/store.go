// Package store defines the catalog and registration persistence contract.
package store

import (
	"context"
	"errors"

	"github.com/mergington/activities/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store opens transactional sessions against the catalog.
type Store interface {
	// InTx runs fn in a single transaction. The transaction commits when fn
	// returns nil and rolls back otherwise, including when fn panics.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx exposes the reads and writes available inside a transaction.
type Tx interface {
	ListActivities(ctx context.Context) ([]models.Activity, error)
	// GetActivityByName returns ErrNotFound when no activity has that name.
	// Backends that support row locks hold one on the activity until the
	// transaction ends.
	GetActivityByName(ctx context.Context, name string) (models.Activity, error)
	CreateActivity(ctx context.Context, a *models.Activity) error
	UpdateActivity(ctx context.Context, a models.Activity) error
	// DeleteActivity removes the activity and, by cascade, its participants.
	DeleteActivity(ctx context.Context, id int64) error

	// ListParticipants returns every participant ordered by activity then signup order.
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	ListParticipantsByActivity(ctx context.Context, activityID int64) ([]models.Participant, error)
	// FindParticipant returns ErrNotFound when the email is not registered.
	FindParticipant(ctx context.Context, activityID int64, email string) (models.Participant, error)
	CountParticipants(ctx context.Context, activityID int64) (int, error)
	CreateParticipant(ctx context.Context, p *models.Participant) error
	DeleteParticipant(ctx context.Context, id int64) error
}
