package revocation

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytutor/backend/internal/testutil"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type failingPruner struct{ calls int }

func (f *failingPruner) PruneExpired(ctx context.Context) (int64, error) {
	f.calls++
	return 0, errors.New("boom")
}

func TestPrunerRemovesExpiredRecords(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemoryStore()
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, 1, "expired", now.Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, 1, "live", now.Add(time.Hour)))

	pruner, err := NewPruner(store, "@every 1h", quietLogger())
	require.NoError(t, err)

	removed, err := pruner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.RevokedCount())

	revoked, err := store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestPrunerRejectsBadSchedule(t *testing.T) {
	_, err := NewPruner(testutil.NewMemoryStore(), "not a schedule", quietLogger())
	assert.Error(t, err)
}

func TestPrunerRunLogsFailures(t *testing.T) {
	target := &failingPruner{}
	pruner, err := NewPruner(target, "@every 1h", quietLogger())
	require.NoError(t, err)

	pruner.run()
	assert.Equal(t, 1, target.calls)
}

func TestPrunerStartStop(t *testing.T) {
	pruner, err := NewPruner(testutil.NewMemoryStore(), "@every 1h", quietLogger())
	require.NoError(t, err)

	pruner.Start()
	pruner.Stop()
}
