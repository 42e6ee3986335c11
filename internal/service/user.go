package service

import (
	"context"
	"errors"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
	"github.com/google/uuid"
)

type UserRequest struct {
	Name   string        `json:"name" validate:"notblank"`
	Email  string        `json:"email" validate:"required,email"`
	Age    int           `json:"age" validate:"gte=18"`
	Weight float64       `json:"weight" validate:"gte=30,lte=300"`
	Height float64       `json:"height" validate:"gte=100,lte=250"`
	Goal   internal.Goal `json:"goal" validate:"required,goal"`
}

// UserUpdateRequest carries a partial profile change; nil fields are kept.
type UserUpdateRequest struct {
	Name   *string        `json:"name" validate:"omitempty,notblank"`
	Age    *int           `json:"age" validate:"omitempty,gte=18"`
	Weight *float64       `json:"weight" validate:"omitempty,gte=30,lte=300"`
	Height *float64       `json:"height" validate:"omitempty,gte=100,lte=250"`
	Goal   *internal.Goal `json:"goal" validate:"omitempty,goal"`
}

func ValidateUserRequest(req *UserRequest) error {
	return validateStruct(req)
}

func ValidateUserUpdateRequest(req *UserUpdateRequest) error {
	return validateStruct(req)
}

func duplicateEmail(email string) error {
	return internal.Conflictf("User with email '%s' already exists.", email)
}

// CreateUser registers a new profile. The email must not be registered
// yet; a concurrent registration that wins the race is reported the same
// way through the store's unique constraint.
func CreateUser(ctx context.Context, userRepo storage.UserRepository, req *UserRequest) (*internal.User, error) {
	_, err := userRepo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, duplicateEmail(req.Email)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user := internal.NewUser(req.Name, req.Email, req.Age, req.Weight, req.Height, req.Goal)
	user.ID = uuid.NewString()
	if err := userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, duplicateEmail(req.Email)
		}
		return nil, err
	}
	return user, nil
}

func GetUser(ctx context.Context, userRepo storage.UserRepository, id string) (*internal.User, error) {
	user, err := userRepo.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, internal.NotFoundf("User with id %s not found", id)
	}
	return user, err
}

func ListUsers(ctx context.Context, userRepo storage.UserRepository) ([]*internal.User, error) {
	return userRepo.ListUsers(ctx)
}

// UpdateUser applies the non-nil fields of req through the user's setters
// so the daily target is recomputed before the profile is stored. The
// change is applied to the stored profile atomically.
func UpdateUser(ctx context.Context, userRepo storage.UserRepository, id string, req *UserUpdateRequest) (*internal.User, error) {
	user, err := userRepo.UpdateUser(ctx, id, req.apply)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, internal.NotFoundf("User with id %s not found", id)
	}
	return user, err
}

func (req *UserUpdateRequest) apply(user *internal.User) error {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.SetAge(*req.Age)
	}
	if req.Weight != nil {
		user.SetWeight(*req.Weight)
	}
	if req.Height != nil {
		user.SetHeight(*req.Height)
	}
	if req.Goal != nil {
		user.SetGoal(*req.Goal)
	}
	return nil
}
