package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDbContext(t *testing.T) *DbContext {
	t.Helper()

	dbContext, err := NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbContext.Migrate())

	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func Test_Events_AddIsIdempotentOnExternalID(t *testing.T) {

	dbContext := newTestDbContext(t)
	events := NewEventsRepository(dbContext.DB)
	ctx := context.Background()

	event := models.Event{ExternalID: "ev-1", Title: "python talk", DiscoveredAt: time.Now()}
	require.NoError(t, events.Add(ctx, event))
	require.NoError(t, events.Add(ctx, event))

	count, err := events.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := events.Exists(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = events.Exists(ctx, "ev-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Executions_RetentionSweepRemovesOnlyOldRecords(t *testing.T) {

	dbContext := newTestDbContext(t)
	executions := NewExecutionsRepository(dbContext.DB)
	ctx := context.Background()

	now := time.Now()
	old := models.JobExecution{
		JobName:    "monitor",
		Outcome:    models.OutcomeSuccess,
		StartedAt:  now.Add(-100 * 24 * time.Hour),
		FinishedAt: now.Add(-100 * 24 * time.Hour),
		Attempts:   1,
	}
	recent := models.JobExecution{
		JobName:    "monitor",
		Outcome:    models.OutcomeFailure,
		StartedAt:  now.Add(-time.Hour),
		FinishedAt: now.Add(-time.Hour),
		Attempts:   3,
	}

	require.NoError(t, executions.Append(ctx, old))
	require.NoError(t, executions.Append(ctx, recent))

	removed, err := executions.DeleteOlderThan(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := executions.Recent(ctx, "monitor", 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.OutcomeFailure, remaining[0].Outcome)
}

func Test_Executions_RecentOrdersNewestFirstAndLimits(t *testing.T) {

	dbContext := newTestDbContext(t)
	executions := NewExecutionsRepository(dbContext.DB)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, executions.Append(ctx, models.JobExecution{
			JobName:    "monitor",
			Outcome:    models.OutcomeSuccess,
			StartedAt:  now.Add(time.Duration(i) * time.Minute),
			FinishedAt: now.Add(time.Duration(i)*time.Minute + time.Second),
			Attempts:   1,
		}))
	}

	recent, err := executions.Recent(ctx, "monitor", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].StartedAt.After(recent[1].StartedAt))
	assert.True(t, recent[1].StartedAt.After(recent[2].StartedAt))
}

func Test_Subscriptions_ListActiveFiltersInactive(t *testing.T) {

	dbContext := newTestDbContext(t)
	subscriptions := NewSubscriptionsRepository(dbContext.DB)
	ctx := context.Background()

	active := models.NewSubscription(1, []string{"python"}, models.ChannelEmail, "a@example.com")
	inactive := models.NewSubscription(2, []string{"golang"}, models.ChannelTelegram, "100")
	inactive.IsActive = false

	require.NoError(t, subscriptions.Add(ctx, *active))
	require.NoError(t, subscriptions.Add(ctx, *inactive))

	listed, err := subscriptions.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].UserID)
	assert.Equal(t, []string{"python"}, listed[0].KeywordsAsArray())
}
