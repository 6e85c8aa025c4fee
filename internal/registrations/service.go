package registrations

import (
	"context"
	"errors"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/observability"
	"github.com/mergington/activities/internal/store"
)

var (
	// ErrActivityNotFound is returned when no activity has the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp is returned when the email is already registered for the activity.
	ErrAlreadySignedUp = errors.New("student is already signed up")
	// ErrActivityFull is returned when the activity has reached max_participants.
	ErrActivityFull = errors.New("activity is full")
	// ErrNotSignedUp is returned when unregistering an email that is not registered.
	ErrNotSignedUp = errors.New("student is not signed up for this activity")
)

// Service applies signup and unregister rules, one store transaction per call.
type Service struct {
	store store.Store
}

// NewService creates a registrations service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Signup registers email for the named activity.
func (s *Service) Signup(ctx context.Context, activityName, email string) error {
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		activity, err := lookupActivity(ctx, tx, activityName)
		if err != nil {
			return err
		}

		_, err = tx.FindParticipant(ctx, activity.ID, email)
		if err == nil {
			return ErrAlreadySignedUp
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if activity.HasCapacityLimit() {
			count, err := tx.CountParticipants(ctx, activity.ID)
			if err != nil {
				return err
			}
			if count >= *activity.MaxParticipants {
				return ErrActivityFull
			}
		}

		return tx.CreateParticipant(ctx, &models.Participant{ActivityID: activity.ID, Email: email})
	})
	observability.RecordSignup(outcome(err))
	return err
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, activityName, email string) error {
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		activity, err := lookupActivity(ctx, tx, activityName)
		if err != nil {
			return err
		}

		participant, err := tx.FindParticipant(ctx, activity.ID, email)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotSignedUp
		}
		if err != nil {
			return err
		}
		return tx.DeleteParticipant(ctx, participant.ID)
	})
	observability.RecordUnregister(outcome(err))
	return err
}

func lookupActivity(ctx context.Context, tx store.Tx, name string) (models.Activity, error) {
	activity, err := tx.GetActivityByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return models.Activity{}, ErrActivityNotFound
	}
	return activity, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ErrActivityNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, ErrAlreadySignedUp):
		return observability.OutcomeDuplicate
	case errors.Is(err, ErrActivityFull):
		return observability.OutcomeFull
	case errors.Is(err, ErrNotSignedUp):
		return observability.OutcomeNotSignedUp
	default:
		return observability.OutcomeError
	}
}
