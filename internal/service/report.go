package service

import (
	"context"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
)

var now = time.Now

type DailySummary struct {
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Consumed    int    `json:"consumed"`
	Target      int    `json:"target"`
	Remaining   int    `json:"remaining"`
	WithinLimit bool   `json:"within_limit"`
}

// DayWindow returns the first and last instant of t's calendar day in
// t's location, both inclusive.
func DayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// DailyCalories sums today's meals for userID. The user is not looked up;
// an unknown id simply has no meals.
func DailyCalories(ctx context.Context, mealRepo storage.MealRepository, userID string) (int, error) {
	start, end := DayWindow(now())
	meals, err := mealRepo.ListMealsBetween(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range meals {
		total += meals[i].TotalCalories()
	}
	return total, nil
}

// IsWithinDailyLimit reports whether today's intake is at most the
// user's target. The user lookup and the meal sum are separate reads.
func IsWithinDailyLimit(ctx context.Context, userRepo storage.UserRepository, mealRepo storage.MealRepository, userID string) (bool, error) {
	user, err := GetUser(ctx, userRepo, userID)
	if err != nil {
		return false, err
	}
	consumed, err := DailyCalories(ctx, mealRepo, userID)
	if err != nil {
		return false, err
	}
	return consumed <= user.DailyCalorieTarget(), nil
}

// MealHistory is ListUserMeals for reports: an empty history is an error.
func MealHistory(ctx context.Context, mealRepo storage.MealRepository, userID string) ([]internal.Meal, error) {
	meals, err := mealRepo.ListMeals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, internal.NotFoundf("No meals found for user with id %s", userID)
	}
	return meals, nil
}

func GetDailySummary(ctx context.Context, userRepo storage.UserRepository, mealRepo storage.MealRepository, userID string) (*DailySummary, error) {
	user, err := GetUser(ctx, userRepo, userID)
	if err != nil {
		return nil, err
	}
	consumed, err := DailyCalories(ctx, mealRepo, userID)
	if err != nil {
		return nil, err
	}
	target := user.DailyCalorieTarget()
	return &DailySummary{
		UserID:      userID,
		Date:        now().Format("2006-01-02"),
		Consumed:    consumed,
		Target:      target,
		Remaining:   target - consumed,
		WithinLimit: consumed <= target,
	}, nil
}
