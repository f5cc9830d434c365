package scheduler

import (
	"context"
	"testing"
	"time"

	"engilearn/backend/cache"
	"engilearn/backend/metrics"
	"engilearn/backend/models"
	"engilearn/backend/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLevels(t *testing.T) {
	conn := testutil.NewConnection(t)
	stats := cache.NewMemoryStatsCache(time.Hour)
	m := metrics.New()
	s := New(conn.DB, testutil.Logger(), m, stats)
	ctx := context.Background()

	healthy := testutil.CreateUser(t, conn, 2500, 0, nil)
	stale := testutil.CreateUser(t, conn, 2500, 0, nil)
	require.NoError(t, conn.DB.Model(&models.User{}).Where("id = ?", stale.ID).Update("level", 1).Error)
	_, err := stats.Set(ctx, stale.ID, 0, &models.UserStats{Level: 1, TotalXP: 2500})
	require.NoError(t, err)

	repaired, err := s.ReconcileLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	for _, id := range []any{healthy.ID, stale.ID} {
		var u models.User
		require.NoError(t, conn.DB.First(&u, "id = ?", id).Error)
		assert.Equal(t, 5, u.Level)
	}

	_, ok, err := stats.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, ok, "repaired user's cached stats should be dropped")

	again, err := s.ReconcileLevels(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	assert.Equal(t, float64(1), promtest.ToFloat64(m.LevelRepairs))
}

func TestStartRejectsBadTime(t *testing.T) {
	conn := testutil.NewConnection(t)
	s := New(conn.DB, testutil.Logger(), nil, nil)

	assert.Error(t, s.Start("25:99"))

	require.NoError(t, s.Start("03:00"))
	s.Stop()
}
