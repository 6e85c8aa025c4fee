package registrations

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities/internal/observability"
	"github.com/mergington/activities/internal/store/storetest"
)

func TestSignupEnforcesCapacity(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Chess Club", 2)
	svc := NewService(st)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Chess Club", "a@x.com"))
	require.NoError(t, svc.Signup(ctx, "Chess Club", "b@x.com"))
	require.ErrorIs(t, svc.Signup(ctx, "Chess Club", "c@x.com"), ErrActivityFull)

	require.NoError(t, svc.Unregister(ctx, "Chess Club", "a@x.com"))
	require.NoError(t, svc.Signup(ctx, "Chess Club", "c@x.com"))
	assert.Equal(t, []string{"b@x.com", "c@x.com"}, storetest.Emails(t, st, "Chess Club"))
}

func TestSignupDuplicateCheckedBeforeCapacity(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Math Club", 1)
	svc := NewService(st)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Math Club", "a@x.com"))
	require.ErrorIs(t, svc.Signup(ctx, "Math Club", "a@x.com"), ErrAlreadySignedUp)
	require.ErrorIs(t, svc.Signup(ctx, "Math Club", "b@x.com"), ErrActivityFull)
}

func TestSignupUnlimitedActivity(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Open Gym", 0)
	svc := NewService(st)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.Signup(ctx, "Open Gym", fmt.Sprintf("student%d@mergington.edu", i)))
	}
	assert.Len(t, storetest.Emails(t, st, "Open Gym"), 50)
}

func TestSameEmailAcrossActivities(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Chess Club", 0)
	storetest.CreateActivity(t, st, "Drama Club", 0)
	svc := NewService(st)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Chess Club", "a@x.com"))
	require.NoError(t, svc.Signup(ctx, "Drama Club", "a@x.com"))
	require.NoError(t, svc.Unregister(ctx, "Chess Club", "a@x.com"))
	assert.Empty(t, storetest.Emails(t, st, "Chess Club"))
	assert.Equal(t, []string{"a@x.com"}, storetest.Emails(t, st, "Drama Club"))
}

func TestUnknownActivity(t *testing.T) {
	svc := NewService(storetest.NewSQLite(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Signup(ctx, "Nope", "a@x.com"), ErrActivityNotFound)
	assert.ErrorIs(t, svc.Unregister(ctx, "Nope", "a@x.com"), ErrActivityNotFound)
}

func TestUnregisterWhenAbsent(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Chess Club", 0)
	svc := NewService(st)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Chess Club", "a@x.com"))
	require.ErrorIs(t, svc.Unregister(ctx, "Chess Club", "b@x.com"), ErrNotSignedUp)
	assert.Equal(t, []string{"a@x.com"}, storetest.Emails(t, st, "Chess Club"))
}

func TestConcurrentSignupsNeverExceedCapacity(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Soccer Team", 5)
	svc := NewService(st)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = map[error]int{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := svc.Signup(ctx, "Soccer Team", fmt.Sprintf("player%d@mergington.edu", i%12))
			mu.Lock()
			errs[err]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, errs[nil])
	assert.Equal(t, 20, errs[nil]+errs[ErrActivityFull]+errs[ErrAlreadySignedUp])

	emails := storetest.Emails(t, st, "Soccer Team")
	assert.Len(t, emails, 5)
	seen := map[string]bool{}
	for _, e := range emails {
		assert.False(t, seen[e], "duplicate %s", e)
		seen[e] = true
	}
}

func TestOutcomesAreCounted(t *testing.T) {
	st := storetest.NewSQLite(t)
	storetest.CreateActivity(t, st, "Chess Club", 1)
	svc := NewService(st)
	ctx := context.Background()

	success := testutil.ToFloat64(observability.SignupCounter(observability.OutcomeSuccess))
	full := testutil.ToFloat64(observability.SignupCounter(observability.OutcomeFull))
	notSignedUp := testutil.ToFloat64(observability.UnregisterCounter(observability.OutcomeNotSignedUp))

	require.NoError(t, svc.Signup(ctx, "Chess Club", "a@x.com"))
	require.ErrorIs(t, svc.Signup(ctx, "Chess Club", "b@x.com"), ErrActivityFull)
	require.ErrorIs(t, svc.Unregister(ctx, "Chess Club", "b@x.com"), ErrNotSignedUp)

	assert.Equal(t, success+1, testutil.ToFloat64(observability.SignupCounter(observability.OutcomeSuccess)))
	assert.Equal(t, full+1, testutil.ToFloat64(observability.SignupCounter(observability.OutcomeFull)))
	assert.Equal(t, notSignedUp+1, testutil.ToFloat64(observability.UnregisterCounter(observability.OutcomeNotSignedUp)))
}
