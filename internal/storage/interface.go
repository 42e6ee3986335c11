package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
)

var (
	ErrNotFound  = errors.New("storage: record not found")
	ErrDuplicate = errors.New("storage: duplicate key")
)

type FoodRepository interface {
	// FindOrCreateFood returns the stored food whose name matches
	// case-insensitively, inserting food only when none exists. created
	// reports whether this call inserted it.
	FindOrCreateFood(ctx context.Context, food *internal.Food) (stored *internal.Food, created bool, err error)
	GetFoodByName(ctx context.Context, name string) (*internal.Food, error)
	// GetFoodsByIDs returns the known foods among ids, keyed by id.
	GetFoodsByIDs(ctx context.Context, ids []string) (map[string]internal.Food, error)
	ListFoods(ctx context.Context) ([]internal.Food, error)
}

type UserRepository interface {
	// CreateUser fails with ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, user *internal.User) error
	// UpdateUser loads the user, lets apply change it and stores the result
	// as one step, so concurrent updates to different fields are not lost.
	// An error from apply aborts the update and is returned unchanged.
	UpdateUser(ctx context.Context, id string, apply func(*internal.User) error) (*internal.User, error)
	GetUser(ctx context.Context, id string) (*internal.User, error)
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	ListUsers(ctx context.Context) ([]*internal.User, error)
}

type MealRepository interface {
	SaveMeal(ctx context.Context, meal *internal.Meal) error
	GetMeal(ctx context.Context, id string) (*internal.Meal, error)
	// ListMeals returns a user's meals newest first.
	ListMeals(ctx context.Context, userID string) ([]internal.Meal, error)
	// ListMealsBetween returns a user's meals with from <= timestamp <= to.
	ListMealsBetween(ctx context.Context, userID string, from, to time.Time) ([]internal.Meal, error)
	DeleteMeal(ctx context.Context, id string) error
}

// Pinger is implemented by backends with a remote dependency to probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
