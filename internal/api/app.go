package api

import (
	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	FoodRepo() storage.FoodRepository
	UserRepo() storage.UserRepository
	MealRepo() storage.MealRepository
	// Pinger may be nil when the backend has nothing to probe.
	Pinger() storage.Pinger
}

type app struct {
	logger internal.Logger
	repos  *storage.Repositories
}

func NewApp(logger internal.Logger, repos *storage.Repositories) App {
	return &app{logger: logger, repos: repos}
}

func (a *app) Logger() internal.Logger           { return a.logger }
func (a *app) FoodRepo() storage.FoodRepository { return a.repos.Foods }
func (a *app) UserRepo() storage.UserRepository { return a.repos.Users }
func (a *app) MealRepo() storage.MealRepository { return a.repos.Meals }
func (a *app) Pinger() storage.Pinger           { return a.repos.Pinger }
