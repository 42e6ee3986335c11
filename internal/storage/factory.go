package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/config"
)

// Repositories bundles one backend behind the three repository interfaces.
type Repositories struct {
	Foods FoodRepository
	Users UserRepository
	Meals MealRepository
	// Pinger is nil for backends without a remote dependency.
	Pinger Pinger
	close  func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func NewFileRepositories(cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	for _, f := range []string{cfg.FileFoods, cfg.FileUsers, cfg.FileMeals} {
		if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}
	storage, err := NewFileStorage(cfg.FileFoods, cfg.FileUsers, cfg.FileMeals, cfg.SaveDelay, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Foods: storage, Users: storage, Meals: storage, close: storage.Close}, nil
}

func NewPostgresRepositories(ctx context.Context, dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	return &Repositories{Foods: storage, Users: storage, Meals: storage, Pinger: storage, close: storage.Close}, nil
}

// NewRepositories picks the backend named by cfg.DBType.
func NewRepositories(ctx context.Context, cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "file":
		return NewFileRepositories(cfg, logger)
	case "postgres":
		return NewPostgresRepositories(ctx, cfg.DBDSN, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
