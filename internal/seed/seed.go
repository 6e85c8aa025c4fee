// Package seed loads the activity catalogue into the store.
//
// Activities are not created through the HTTP API; this package is the only
// writer of activity records. A catalogue file is YAML:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
//
// participants are only applied when the activity is first created.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
)

//go:embed activities.yaml
var defaultCatalog []byte

// Entry is one activity in a catalogue file.
type Entry struct {
	Name            string   `yaml:"name"`
	Description     *string  `yaml:"description"`
	Schedule        *string  `yaml:"schedule"`
	MaxParticipants *int     `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

type file struct {
	Activities []Entry `yaml:"activities"`
}

// Options tune Apply.
type Options struct {
	// Reset deletes each listed activity, and with it its participants,
	// before recreating it.
	Reset bool
}

// Result counts what Apply changed.
type Result struct {
	Created int
	Updated int
	Deleted int
}

// Parse decodes and validates a catalogue.
func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	seen := make(map[string]bool, len(f.Activities))
	for i := range f.Activities {
		e := &f.Activities[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("activity %d: name is required", i+1)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("activity %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if e.MaxParticipants != nil && *e.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive", e.Name)
		}

		emails := make(map[string]bool, len(e.Participants))
		for _, email := range e.Participants {
			if emails[email] {
				return nil, fmt.Errorf("activity %q: duplicate participant %q", e.Name, email)
			}
			emails[email] = true
		}
		if e.MaxParticipants != nil && len(e.Participants) > *e.MaxParticipants {
			return nil, fmt.Errorf("activity %q: %d participants exceed max_participants %d",
				e.Name, len(e.Participants), *e.MaxParticipants)
		}
	}
	return f.Activities, nil
}

// Load reads a catalogue from path, or the embedded default when path is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return Parse(data)
}

// Apply creates missing activities and updates existing ones in a single
// transaction. Participants of existing activities are left untouched.
func Apply(ctx context.Context, st store.Store, entries []Entry, opts Options, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var res Result
	err := st.InTx(ctx, func(tx store.Tx) error {
		res = Result{}
		for _, e := range entries {
			existing, err := tx.GetActivityByName(ctx, e.Name)
			switch {
			case errors.Is(err, store.ErrNotFound):
			case err != nil:
				return err
			case opts.Reset:
				if err := tx.DeleteActivity(ctx, existing.ID); err != nil {
					return err
				}
				res.Deleted++
			default:
				if err := checkCapacity(ctx, tx, existing.ID, e); err != nil {
					return err
				}
				existing.Description = e.Description
				existing.Schedule = e.Schedule
				existing.MaxParticipants = e.MaxParticipants
				if err := tx.UpdateActivity(ctx, existing); err != nil {
					return err
				}
				res.Updated++
				continue
			}

			if err := create(ctx, tx, e); err != nil {
				return err
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("catalogue seeded",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("deleted", res.Deleted),
	)
	return res, nil
}

// IfEmpty applies entries only when the store holds no activities.
func IfEmpty(ctx context.Context, st store.Store, entries []Entry, logger *zap.Logger) (bool, error) {
	var empty bool
	err := st.InTx(ctx, func(tx store.Tx) error {
		list, err := tx.ListActivities(ctx)
		empty = len(list) == 0
		return err
	})
	if err != nil || !empty {
		return false, err
	}
	if _, err := Apply(ctx, st, entries, Options{}, logger); err != nil {
		return false, err
	}
	return true, nil
}

// checkCapacity refuses to shrink max_participants below the current signups.
func checkCapacity(ctx context.Context, tx store.Tx, activityID int64, e Entry) error {
	if e.MaxParticipants == nil {
		return nil
	}
	count, err := tx.CountParticipants(ctx, activityID)
	if err != nil {
		return err
	}
	if count > *e.MaxParticipants {
		return fmt.Errorf("activity %q: max_participants %d is below current participant count %d",
			e.Name, *e.MaxParticipants, count)
	}
	return nil
}

func create(ctx context.Context, tx store.Tx, e Entry) error {
	a := models.Activity{
		Name:            e.Name,
		Description:     e.Description,
		Schedule:        e.Schedule,
		MaxParticipants: e.MaxParticipants,
	}
	if err := tx.CreateActivity(ctx, &a); err != nil {
		return err
	}
	for _, email := range e.Participants {
		if err := tx.CreateParticipant(ctx, &models.Participant{ActivityID: a.ID, Email: email}); err != nil {
			return err
		}
	}
	return nil
}
