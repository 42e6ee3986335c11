package config

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	LogLevel  string
	HTTPAddr  string
	DBType    string
	DBDSN     string
	FileFoods string
	FileUsers string
	FileMeals string
	SaveDelay time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		// A missing .env is fine; real environments set variables directly.
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv reads the configuration from the process environment without
// caching it.
func FromEnv() (*Config, error) {
	delay, err := time.ParseDuration(getEnv("SAVE_DELAY", "500ms"))
	if err != nil {
		return nil, errors.New("SAVE_DELAY must be a duration such as 500ms")
	}
	c := &Config{
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8088"),
		DBType:    getEnv("STORAGE_BACKEND", "file"),
		DBDSN:     getEnv("POSTGRES_DSN", ""),
		FileFoods: getEnv("FOODS_FILE", "data/foods.json"),
		FileUsers: getEnv("USERS_FILE", "data/users.json"),
		FileMeals: getEnv("MEALS_FILE", "data/meals.json"),
		SaveDelay: delay,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileFoods == "" || c.FileUsers == "" || c.FileMeals == "") {
		return errors.New("File storage requires FOODS_FILE, USERS_FILE and MEALS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
