// Package storetest provides helpers for tests that need a real store.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mergington/activities/config"
	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
	"github.com/mergington/activities/internal/store/backend"
)

// NewSQLite opens a migrated SQLite store in a temporary directory.
func NewSQLite(t *testing.T) store.Store {
	t.Helper()
	cfg := config.DatabaseConfig{File: filepath.Join(t.TempDir(), "activities.db"), MaxConns: 4}
	st, err := backend.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// CreateActivity inserts an activity with an optional capacity (0 = unlimited).
func CreateActivity(t *testing.T, st store.Store, name string, maxParticipants int) models.Activity {
	t.Helper()
	a := models.Activity{Name: name}
	if maxParticipants > 0 {
		a.MaxParticipants = &maxParticipants
	}
	err := st.InTx(context.Background(), func(tx store.Tx) error {
		return tx.CreateActivity(context.Background(), &a)
	})
	require.NoError(t, err)
	return a
}

// Emails returns the registered emails for the named activity in signup order.
func Emails(t *testing.T, st store.Store, name string) []string {
	t.Helper()
	ctx := context.Background()
	var emails []string
	err := st.InTx(ctx, func(tx store.Tx) error {
		a, err := tx.GetActivityByName(ctx, name)
		if err != nil {
			return err
		}
		ps, err := tx.ListParticipantsByActivity(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, p := range ps {
			emails = append(emails, p.Email)
		}
		return nil
	})
	require.NoError(t, err)
	return emails
}
