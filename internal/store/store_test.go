package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "devfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMessages_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	m, err := s.SaveMessage(ctx, Message{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Body: "Hello there"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, StatusPending, m.Status)

	require.NoError(t, s.MarkMessage(ctx, m.ID, StatusDelivered))

	list, err := s.ListMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Hello there", list[0].Body)
	assert.Equal(t, StatusDelivered, list[0].Status)

	require.NoError(t, s.DeleteMessage(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMessage(ctx, m.ID), ErrNotFound)
	assert.ErrorIs(t, s.MarkMessage(ctx, m.ID, StatusFailed), ErrNotFound)
}

func TestVisits_StatsAndCleanup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Now().UTC()
	s.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "old", "ua", "/"))

	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "ua", "/"))
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "ua", "/contact-form"))
	require.NoError(t, s.RecordVisit(ctx, "bbbb", "ua", "/"))

	m, err := s.SaveMessage(ctx, Message{Name: "n", Email: "e", Body: "b"})
	require.NoError(t, err)
	require.NoError(t, s.MarkMessage(ctx, m.ID, StatusFailed))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.TotalVisitors)
	assert.EqualValues(t, 3, st.UniqueVisitors)
	assert.EqualValues(t, 3, st.VisitorsThisWeek)
	assert.EqualValues(t, 1, st.TotalMessages)
	assert.EqualValues(t, 1, st.FailedMessages)
	assert.Len(t, st.RecentVisitors, 4)
	assert.Equal(t, "old", st.RecentVisitors[len(st.RecentVisitors)-1].HashedIP)

	n, err := s.CleanupVisits(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visits, err := s.ListVisits(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visits, 3)
}
