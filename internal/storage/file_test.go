package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStorage(t *testing.T, dir string) *FileStorage {
	t.Helper()
	s, err := NewFileStorage(
		filepath.Join(dir, "foods.json"),
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "meals.json"),
		10*time.Millisecond,
		internal.NewNopLogger(),
	)
	require.NoError(t, err)
	return s
}

func setupTestStorage(t *testing.T) *FileStorage {
	s := openTestStorage(t, t.TempDir())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFindOrCreateFood_CaseInsensitive(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	first, created, err := s.FindOrCreateFood(ctx, &internal.Food{ID: "f1", Name: "Pizza", Calories: 300})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.FindOrCreateFood(ctx, &internal.Food{ID: "f2", Name: "PIZZA", Calories: 999, Fat: 50})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 300, second.Calories)
	assert.Equal(t, "Pizza", second.Name)

	got, err := s.GetFoodByName(ctx, "pizza")
	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)

	_, err = s.GetFoodByName(ctx, "pizz")
	assert.ErrorIs(t, err, ErrNotFound)

	foods, err := s.ListFoods(ctx)
	require.NoError(t, err)
	assert.Len(t, foods, 1)
}

func TestFindOrCreateFood_ConcurrentSameName(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, _, err := s.FindOrCreateFood(ctx, &internal.Food{ID: fmt.Sprintf("f%d", i), Name: "Apple", Calories: 52})
			assert.NoError(t, err)
			ids[i] = f.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	foods, err := s.ListFoods(ctx)
	require.NoError(t, err)
	assert.Len(t, foods, 1)
}

func TestGetFoodsByIDs(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, _, _ = s.FindOrCreateFood(ctx, &internal.Food{ID: "f1", Name: "Rice", Calories: 130})
	_, _, _ = s.FindOrCreateFood(ctx, &internal.Food{ID: "f2", Name: "Beans", Calories: 120})

	found, err := s.GetFoodsByIDs(ctx, []string{"f1", "f1", "nope"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Rice", found["f1"].Name)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))

	dup := internal.NewUser("Other", "ann@example.com", 40, 70, 170, internal.GoalLoseWeight)
	dup.ID = "u2"
	assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

	// exact match only
	upper := internal.NewUser("Ann", "ANN@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	upper.ID = "u3"
	assert.NoError(t, s.CreateUser(ctx, upper))

	got, err := s.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u3", users[1].ID)
}

func TestUpdateUser(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))

	updated, err := s.UpdateUser(ctx, "u1", func(u *internal.User) error {
		u.SetGoal(internal.GoalGainWeight)
		u.Email = "changed@example.com"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1687, updated.DailyCalorieTarget())
	assert.Equal(t, "ann@example.com", updated.Email)

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1687, got.DailyCalorieTarget())
	assert.Equal(t, "ann@example.com", got.Email)

	_, err = s.UpdateUser(ctx, "nope", func(*internal.User) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_ApplyErrorLeavesUserUnchanged(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))

	_, err := s.UpdateUser(ctx, "u1", func(u *internal.User) error {
		u.SetWeight(120)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Weight())
}

func TestUpdateUser_ConcurrentFieldsAreKept(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))

	// every goroutine bumps the age by one; a lost update shows as a smaller total
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateUser(ctx, "u1", func(u *internal.User) error {
				u.SetAge(u.Age() + 1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30+n, got.Age())
	assert.Equal(t, internal.DailyCalorieTarget(80, 180, 30+n, internal.GoalMaintainWeight), got.DailyCalorieTarget())
}

func TestReturnedUsersAreCopies(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalMaintainWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	got.SetWeight(150)

	again, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, again.Weight())
}

func TestMeals_OrderAndRange(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, _, _ = s.FindOrCreateFood(ctx, &internal.Food{ID: "f1", Name: "Egg", Calories: 70})

	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	egg := internal.Food{ID: "f1", Name: "Egg", Calories: 70}
	for i, offset := range []time.Duration{0, -2 * time.Hour, 3 * time.Hour, -26 * time.Hour} {
		m := &internal.Meal{ID: fmt.Sprintf("m%d", i), UserID: "u1", Foods: []internal.Food{egg, egg}, Timestamp: base.Add(offset)}
		require.NoError(t, s.SaveMeal(ctx, m))
	}

	meals, err := s.ListMeals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, meals, 4)
	assert.Equal(t, []string{"m2", "m0", "m1", "m3"}, []string{meals[0].ID, meals[1].ID, meals[2].ID, meals[3].ID})
	assert.Equal(t, 140, meals[0].TotalCalories())

	// inclusive on both ends
	inRange, err := s.ListMealsBetween(ctx, "u1", base.Add(-2*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, inRange, 3)

	narrow, err := s.ListMealsBetween(ctx, "u1", base.Add(-2*time.Hour+time.Nanosecond), base.Add(3*time.Hour-time.Nanosecond))
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "m0", narrow[0].ID)

	empty, err := s.ListMeals(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeleteMeal(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMeal(ctx, &internal.Meal{ID: "m1", UserID: "u1", Timestamp: time.Now()}))
	require.NoError(t, s.DeleteMeal(ctx, "m1"))

	_, err := s.GetMeal(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteMeal(ctx, "m1"), ErrNotFound)

	meals, err := s.ListMeals(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestFileStorage_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openTestStorage(t, dir)
	_, _, err := s.FindOrCreateFood(ctx, &internal.Food{ID: "f1", Name: "Toast", Calories: 80})
	require.NoError(t, err)
	u := internal.NewUser("Ann", "ann@example.com", 30, 80, 180, internal.GoalLoseWeight)
	u.ID = "u1"
	require.NoError(t, s.CreateUser(ctx, u))
	toast := internal.Food{ID: "f1", Name: "Toast", Calories: 80}
	require.NoError(t, s.SaveMeal(ctx, &internal.Meal{ID: "m1", UserID: "u1", Foods: []internal.Food{toast, toast}, Timestamp: time.Now()}))
	require.NoError(t, s.Close())

	info, err := os.Stat(filepath.Join(dir, "meals.json"))
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	reopened := openTestStorage(t, dir)
	defer reopened.Close()

	food, err := reopened.GetFoodByName(ctx, "TOAST")
	require.NoError(t, err)
	assert.Equal(t, "f1", food.ID)

	user, err := reopened.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 687, user.DailyCalorieTarget())
	assert.ErrorIs(t, reopened.CreateUser(ctx, u), ErrDuplicate)

	meal, err := reopened.GetMeal(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 160, meal.TotalCalories())
	assert.Equal(t, []string{"f1", "f1"}, meal.FoodIDs())
}

func TestNewFileStorage_EmptyFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"foods.json", "users.json", "meals.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	s := openTestStorage(t, dir)
	defer s.Close()

	foods, err := s.ListFoods(context.Background())
	require.NoError(t, err)
	assert.Empty(t, foods)
}
