package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
	"github.com/google/uuid"
)

type MealRequest struct {
	UserID    string     `json:"user_id" validate:"required"`
	FoodIDs   []string   `json:"food_ids" validate:"required,min=1,dive,notblank"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func ValidateMealRequest(req *MealRequest) error {
	return validateStruct(req)
}

func mealNotFound(id string) error {
	return internal.NotFoundf("Meal with id %s not found", id)
}

// CreateMeal resolves the user and every food before anything is stored,
// so a failed lookup never leaves a partial meal behind.
func CreateMeal(ctx context.Context, userRepo storage.UserRepository, foodRepo storage.FoodRepository, mealRepo storage.MealRepository, req *MealRequest) (*internal.Meal, error) {
	user, err := GetUser(ctx, userRepo, req.UserID)
	if err != nil {
		return nil, err
	}
	foods, err := ResolveFoods(ctx, foodRepo, req.FoodIDs)
	if err != nil {
		return nil, err
	}

	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	meal, err := internal.NewMeal(user, foods, ts)
	if err != nil {
		return nil, err
	}
	meal.ID = uuid.NewString()
	if err := mealRepo.SaveMeal(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func GetMeal(ctx context.Context, mealRepo storage.MealRepository, id string) (*internal.Meal, error) {
	meal, err := mealRepo.GetMeal(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, mealNotFound(id)
	}
	return meal, err
}

// ListUserMeals returns the user's meals newest first. An unknown user or
// a user without meals yields an empty list.
func ListUserMeals(ctx context.Context, mealRepo storage.MealRepository, userID string) ([]internal.Meal, error) {
	return mealRepo.ListMeals(ctx, userID)
}

func DeleteMeal(ctx context.Context, mealRepo storage.MealRepository, id string) error {
	err := mealRepo.DeleteMeal(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return mealNotFound(id)
	}
	return err
}
