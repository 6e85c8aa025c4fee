//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
	"github.com/mergington/activities/pkg/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("school"),
		postgrescontainer.WithUsername("school"),
		postgrescontainer.WithPassword("school"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPostgresPool(ctx, connStr, 8, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	require.NoError(t, database.Migrate(ctx, pool))
	return New(pool)
}

func TestPostgresStoreLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	limit := 2

	var chessID int64
	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		a := models.Activity{Name: "Chess Club", MaxParticipants: &limit}
		if err := tx.CreateActivity(ctx, &a); err != nil {
			return err
		}
		chessID = a.ID
		return tx.CreateParticipant(ctx, &models.Participant{ActivityID: a.ID, Email: "a@x.com"})
	}))

	var (
		a          models.Activity
		count      int
		missingErr error
	)
	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		var err error
		if a, err = tx.GetActivityByName(ctx, "Chess Club"); err != nil {
			return err
		}
		if count, err = tx.CountParticipants(ctx, a.ID); err != nil {
			return err
		}
		_, missingErr = tx.FindParticipant(ctx, a.ID, "nobody@x.com")
		return nil
	}))
	assert.Equal(t, chessID, a.ID)
	assert.Nil(t, a.Description)
	require.NotNil(t, a.MaxParticipants)
	assert.Equal(t, 2, *a.MaxParticipants)
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, missingErr, store.ErrNotFound)

	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error { return tx.DeleteActivity(ctx, chessID) }))
	assert.Empty(t, listParticipants(t, st))
}

func TestPostgresActivityLockSerializesCapacityChecks(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	limit := 3

	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateActivity(ctx, &models.Activity{Name: "Chess Club", MaxParticipants: &limit})
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = st.InTx(ctx, func(tx store.Tx) error {
				a, err := tx.GetActivityByName(ctx, "Chess Club")
				if err != nil {
					return err
				}
				n, err := tx.CountParticipants(ctx, a.ID)
				if err != nil {
					return err
				}
				if n >= *a.MaxParticipants {
					return nil
				}
				email := string(rune('a'+i)) + "@x.com"
				return tx.CreateParticipant(ctx, &models.Participant{ActivityID: a.ID, Email: email})
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, listParticipants(t, st), 3)
}

func listParticipants(t *testing.T, st *Store) []models.Participant {
	t.Helper()
	var ps []models.Participant
	require.NoError(t, st.InTx(context.Background(), func(tx store.Tx) error {
		var err error
		ps, err = tx.ListParticipants(context.Background())
		return err
	}))
	return ps
}
