package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *storage.FileStorage {
	t.Helper()
	dir := t.TempDir()
	s, err := storage.NewFileStorage(
		filepath.Join(dir, "foods.json"),
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "meals.json"),
		10*time.Millisecond,
		internal.NewNopLogger(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixNow pins the report clock for the duration of a test.
func fixNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func mustCreateUser(t *testing.T, s *storage.FileStorage, email string, goal internal.Goal) *internal.User {
	t.Helper()
	u, err := CreateUser(context.Background(), s, &UserRequest{
		Name: "Ann", Email: email, Age: 30, Weight: 80, Height: 180, Goal: goal,
	})
	require.NoError(t, err)
	return u
}

func mustCreateFood(t *testing.T, s *storage.FileStorage, name string, calories int) *internal.Food {
	t.Helper()
	f, _, err := CreateFood(context.Background(), s, &FoodRequest{Name: name, Calories: calories})
	require.NoError(t, err)
	return f
}

func logMeal(t *testing.T, s *storage.FileStorage, userID string, foodIDs []string, ts time.Time) {
	t.Helper()
	_, err := CreateMeal(context.Background(), s, s, s, &MealRequest{UserID: userID, FoodIDs: foodIDs, Timestamp: &ts})
	require.NoError(t, err)
}
