package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/testutil"
)

func TestSettings_DefaultsOnFirstRead(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	f := testutil.Seed(t, gdb, "alpha")
	repo := NewSettingsGormRepository(gdb)

	s, err := repo.Get(ctx, f.Business.ID)
	require.NoError(t, err)

	assert.NotZero(t, s.ID)
	assert.Equal(t, "Asia/Jerusalem", s.Timezone)
	assert.Equal(t, "he", s.Language)
	assert.True(t, s.EnforceWorkingHours)
	assert.False(t, s.AutoApprove)
	assert.Equal(t, 8, s.CancellationLeadHours)
	assert.Empty(t, s.WorkingHours)

	again, err := repo.Get(ctx, f.Business.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
}

func TestSettings_SaveReplacesHours(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	f := testutil.Seed(t, gdb, "alpha")
	repo := NewSettingsGormRepository(gdb)

	s, err := repo.Get(ctx, f.Business.ID)
	require.NoError(t, err)

	s.EnforceWorkingHours = false
	s.AutoApprove = true
	s.CancellationLeadHours = 0
	hours := []models.WorkingHours{
		{Weekday: 0, Active: true, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: 5, Active: false},
	}
	require.NoError(t, repo.Save(ctx, s, hours))

	got, err := repo.Get(ctx, f.Business.ID)
	require.NoError(t, err)
	assert.False(t, got.EnforceWorkingHours)
	assert.True(t, got.AutoApprove)
	assert.Equal(t, 0, got.CancellationLeadHours)
	require.Len(t, got.WorkingHours, 2)
	assert.Equal(t, "09:00", got.WorkingHours[0].StartTime)
	assert.False(t, got.WorkingHours[1].Active)

	// nil leaves the schedule untouched, an empty slice clears it.
	require.NoError(t, repo.Save(ctx, got, nil))
	got, _ = repo.Get(ctx, f.Business.ID)
	assert.Len(t, got.WorkingHours, 2)

	require.NoError(t, repo.Save(ctx, got, []models.WorkingHours{}))
	got, _ = repo.Get(ctx, f.Business.ID)
	assert.Empty(t, got.WorkingHours)
}
