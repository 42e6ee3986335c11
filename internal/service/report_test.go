package service

import (
	"context"
	"testing"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2024, 3, 1, 15, 4, 5, 0, zone)

	start, end := DayWindow(at)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, zone), start)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, zone), end)
}

func TestDailyCalories_OnlyToday(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixNow(t, today)

	u := mustCreateUser(t, s, "ann@example.com", internal.GoalMaintainWeight)
	rice := mustCreateFood(t, s, "Rice", 130)

	start, end := DayWindow(today)
	logMeal(t, s, u.ID, []string{rice.ID}, start)
	logMeal(t, s, u.ID, []string{rice.ID, rice.ID}, end)
	logMeal(t, s, u.ID, []string{rice.ID}, start.Add(-time.Nanosecond))
	logMeal(t, s, u.ID, []string{rice.ID}, end.Add(time.Nanosecond))

	total, err := DailyCalories(ctx, s, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 390, total)

	unknown, err := DailyCalories(ctx, s, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, unknown)
}

func TestIsWithinDailyLimit(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixNow(t, today)

	u := mustCreateUser(t, s, "ann@example.com", internal.GoalMaintainWeight) // target 1187
	exact := mustCreateFood(t, s, "Exact", 1187)
	crumb := mustCreateFood(t, s, "Crumb", 1)

	within, err := IsWithinDailyLimit(ctx, s, s, u.ID)
	require.NoError(t, err)
	assert.True(t, within)

	logMeal(t, s, u.ID, []string{exact.ID}, today)
	within, err = IsWithinDailyLimit(ctx, s, s, u.ID)
	require.NoError(t, err)
	assert.True(t, within, "intake equal to the target is within the limit")

	logMeal(t, s, u.ID, []string{crumb.ID}, today)
	within, err = IsWithinDailyLimit(ctx, s, s, u.ID)
	require.NoError(t, err)
	assert.False(t, within)

	_, err = IsWithinDailyLimit(ctx, s, s, "ghost")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestMealHistory(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "ann@example.com", internal.GoalMaintainWeight)
	rice := mustCreateFood(t, s, "Rice", 130)

	_, err := MealHistory(ctx, s, u.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.EqualError(t, err, "No meals found for user with id "+u.ID)

	logMeal(t, s, u.ID, []string{rice.ID}, time.Now().Add(-48*time.Hour))
	logMeal(t, s, u.ID, []string{rice.ID}, time.Now())

	meals, err := MealHistory(ctx, s, u.ID)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.True(t, meals[0].Timestamp.After(meals[1].Timestamp))
}

func TestGetDailySummary(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixNow(t, today)

	u := mustCreateUser(t, s, "ann@example.com", internal.GoalMaintainWeight)
	rice := mustCreateFood(t, s, "Rice", 130)
	logMeal(t, s, u.ID, []string{rice.ID, rice.ID}, today)

	summary, err := GetDailySummary(ctx, s, s, u.ID)
	require.NoError(t, err)
	assert.Equal(t, &DailySummary{
		UserID:      u.ID,
		Date:        "2024-03-01",
		Consumed:    260,
		Target:      1187,
		Remaining:   927,
		WithinLimit: true,
	}, summary)

	_, err = GetDailySummary(ctx, s, s, "ghost")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestTrackingDay(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixNow(t, today)

	u, err := CreateUser(ctx, s, &UserRequest{Name: "Ann", Email: "ann@example.com", Age: 30, Weight: 80, Height: 180, Goal: internal.GoalMaintainWeight})
	require.NoError(t, err)
	require.Equal(t, 1187, u.DailyCalorieTarget())

	burger := mustCreateFood(t, s, "Burger", 500)
	cake := mustCreateFood(t, s, "Cake", 1000)
	logMeal(t, s, u.ID, []string{burger.ID, cake.ID}, today)

	total, err := DailyCalories(ctx, s, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500, total)

	within, err := IsWithinDailyLimit(ctx, s, s, u.ID)
	require.NoError(t, err)
	assert.False(t, within)
}
