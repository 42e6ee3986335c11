package service

import (
	"context"
	"errors"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
	"github.com/google/uuid"
)

type FoodRequest struct {
	Name     string  `json:"name" validate:"notblank"`
	Calories int     `json:"calories" validate:"gte=1"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
}

func ValidateFoodRequest(req *FoodRequest) error {
	return validateStruct(req)
}

// CreateFood returns the catalog entry for req.Name, inserting it only if
// no food with that name exists in any letter case. An existing entry is
// returned as stored; the nutrients in req are then ignored.
func CreateFood(ctx context.Context, foodRepo storage.FoodRepository, req *FoodRequest) (*internal.Food, bool, error) {
	food := &internal.Food{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Fat:      req.Fat,
		Carbs:    req.Carbs,
	}
	return foodRepo.FindOrCreateFood(ctx, food)
}

func GetFoodByName(ctx context.Context, foodRepo storage.FoodRepository, name string) (*internal.Food, error) {
	food, err := foodRepo.GetFoodByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, internal.NotFoundf("Food with name '%s' not found", name)
	}
	return food, err
}

func ListFoods(ctx context.Context, foodRepo storage.FoodRepository) ([]internal.Food, error) {
	return foodRepo.ListFoods(ctx)
}

// ResolveFoods maps every requested id to its food, keeping order and
// repeats. It fails unless every id resolves.
func ResolveFoods(ctx context.Context, foodRepo storage.FoodRepository, ids []string) ([]internal.Food, error) {
	found, err := foodRepo.GetFoodsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	foods := make([]internal.Food, 0, len(ids))
	for _, id := range ids {
		if f, ok := found[id]; ok {
			foods = append(foods, f)
		}
	}
	if len(foods) == 0 || len(foods) != len(ids) {
		return nil, internal.NotFoundf("One or more foods not found")
	}
	return foods, nil
}
