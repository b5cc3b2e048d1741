package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/testutil"
)

func day(offset int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, now.Location())
}

func TestMetricsRepository_GetByDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	repo := NewMetricsRepository(db)

	got, err := repo.GetByDate(day(0))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Create(&model.MetricsSnapshot{
		SnapshotDate:   day(0),
		ActiveCount:    3,
		MonthlyRevenue: 2322000,
	}))

	got, err = repo.GetByDate(day(0))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ActiveCount)
}

func TestMetricsRepository_ListRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	repo := NewMetricsRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&model.MetricsSnapshot{
			SnapshotDate: day(-i),
			ActiveCount:  int64(i),
		}))
	}

	snapshots, err := repo.ListRecent(3)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	// 新的在前
	assert.Equal(t, day(0).Format("2006-01-02"), snapshots[0].SnapshotDate.Format("2006-01-02"))
}
