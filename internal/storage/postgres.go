package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

const (
	foodColumns = `id, name, calories, protein, fat, carbs`
	userColumns = `id, name, email, age, weight, height, goal`

	insertFoodSQL = `INSERT INTO foods (` + foodColumns + `) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ((lower(name))) DO NOTHING
		RETURNING ` + foodColumns

	selectMealsSQL = `SELECT m.id, m.user_id, m.eaten_at, f.id, f.name, f.calories, f.protein, f.fat, f.carbs
		FROM meals m
		LEFT JOIN meal_foods mf ON mf.meal_id = m.id
		LEFT JOIN foods f ON f.id = mf.food_id`
	orderMealsSQL = ` ORDER BY m.eaten_at DESC, m.id, mf.position`
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// Migrate creates the tables and indexes if they are missing.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		p.logger.Errorf("failed to apply schema: %v", err)
		return fmt.Errorf("storage: apply schema: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func scanFood(row pgx.Row) (*internal.Food, error) {
	var f internal.Food
	if err := row.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Fat, &f.Carbs); err != nil {
		return nil, err
	}
	return &f, nil
}

func scanUser(row pgx.Row) (*internal.User, error) {
	var (
		id, name, email, goal string
		age                   int
		weight, height        float64
	)
	if err := row.Scan(&id, &name, &email, &age, &weight, &height, &goal); err != nil {
		return nil, err
	}
	u := internal.NewUser(name, email, age, weight, height, internal.Goal(goal))
	u.ID = id
	return u, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// --- FoodRepository ---

// FindOrCreateFood lets the unique index on lower(name) arbitrate
// concurrent inserts; a losing insert reads back the winner's row.
func (p *PostgresStorage) FindOrCreateFood(ctx context.Context, food *internal.Food) (*internal.Food, bool, error) {
	row := p.pool.QueryRow(ctx, insertFoodSQL, food.ID, food.Name, food.Calories, food.Protein, food.Fat, food.Carbs)
	created, err := scanFood(row)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		p.logger.Errorf("failed to insert food: %v", err)
		return nil, false, err
	}
	existing, err := p.GetFoodByName(ctx, food.Name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (p *PostgresStorage) GetFoodByName(ctx context.Context, name string) (*internal.Food, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+foodColumns+` FROM foods WHERE lower(name) = lower($1)`, name)
	f, err := scanFood(row)
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (p *PostgresStorage) GetFoodsByIDs(ctx context.Context, ids []string) (map[string]internal.Food, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ANY($1)`, ids)
	if err != nil {
		p.logger.Errorf("failed to query foods: %v", err)
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]internal.Food, len(ids))
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			p.logger.Errorf("failed to scan food: %v", err)
			return nil, err
		}
		found[f.ID] = *f
	}
	return found, rows.Err()
}

func (p *PostgresStorage) ListFoods(ctx context.Context) ([]internal.Food, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY created_at, id`)
	if err != nil {
		p.logger.Errorf("failed to query foods: %v", err)
		return nil, err
	}
	defer rows.Close()

	foods := []internal.Food{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			p.logger.Errorf("failed to scan food: %v", err)
			return nil, err
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

// --- UserRepository ---
func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`, daily_calorie_target) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.Age(), user.Weight(), user.Height(), string(user.Goal()), user.DailyCalorieTarget())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

// UpdateUser locks the row for the length of the transaction so a
// concurrent update waits and then sees this one's changes.
func (p *PostgresStorage) UpdateUser(ctx context.Context, id string, apply func(*internal.User) error) (*internal.User, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	email := user.Email
	if err := apply(user); err != nil {
		return nil, err
	}
	user.ID, user.Email = id, email

	if _, err := tx.Exec(ctx, `UPDATE users SET name = $2, age = $3, weight = $4, height = $5, goal = $6, daily_calorie_target = $7 WHERE id = $1`,
		user.ID, user.Name, user.Age(), user.Weight(), user.Height(), string(user.Goal()), user.DailyCalorieTarget()); err != nil {
		p.logger.Errorf("failed to update user: %v", err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]*internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		p.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []*internal.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			p.logger.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- MealRepository ---
func (p *PostgresStorage) SaveMeal(ctx context.Context, meal *internal.Meal) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO meals (id, user_id, eaten_at) VALUES ($1, $2, $3)`,
		meal.ID, meal.UserID, meal.Timestamp); err != nil {
		p.logger.Errorf("failed to insert meal: %v", err)
		return err
	}

	rows := make([][]any, len(meal.Foods))
	for i, f := range meal.Foods {
		rows[i] = []any{meal.ID, i, f.ID}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"meal_foods"}, []string{"meal_id", "position", "food_id"}, pgx.CopyFromRows(rows)); err != nil {
		p.logger.Errorf("failed to insert meal foods: %v", err)
		return err
	}
	return tx.Commit(ctx)
}

func (p *PostgresStorage) GetMeal(ctx context.Context, id string) (*internal.Meal, error) {
	meals, err := p.queryMeals(ctx, selectMealsSQL+` WHERE m.id = $1`+orderMealsSQL, id)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return &meals[0], nil
}

func (p *PostgresStorage) ListMeals(ctx context.Context, userID string) ([]internal.Meal, error) {
	return p.queryMeals(ctx, selectMealsSQL+` WHERE m.user_id = $1`+orderMealsSQL, userID)
}

func (p *PostgresStorage) ListMealsBetween(ctx context.Context, userID string, from, to time.Time) ([]internal.Meal, error) {
	return p.queryMeals(ctx, selectMealsSQL+` WHERE m.user_id = $1 AND m.eaten_at BETWEEN $2 AND $3`+orderMealsSQL, userID, from, to)
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete meal: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// queryMeals folds the meal/food join back into meals. Rows of one meal
// arrive together, foods in position order; a meal without foods has a
// single row of NULL food columns.
func (p *PostgresStorage) queryMeals(ctx context.Context, sql string, args ...any) ([]internal.Meal, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query meals: %v", err)
		return nil, err
	}
	defer rows.Close()

	meals := []internal.Meal{}
	for rows.Next() {
		var (
			m                  internal.Meal
			foodID, foodName   *string
			calories           *int
			protein, fat, carb *float64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Timestamp, &foodID, &foodName, &calories, &protein, &fat, &carb); err != nil {
			p.logger.Errorf("failed to scan meal: %v", err)
			return nil, err
		}
		if n := len(meals); n == 0 || meals[n-1].ID != m.ID {
			m.Foods = []internal.Food{}
			meals = append(meals, m)
		}
		if foodID == nil {
			continue
		}
		last := &meals[len(meals)-1]
		last.Foods = append(last.Foods, internal.Food{
			ID:       *foodID,
			Name:     *foodName,
			Calories: *calories,
			Protein:  *protein,
			Fat:      *fat,
			Carbs:    *carb,
		})
	}
	return meals, rows.Err()
}

// --- Compile-time assertions ---
var _ FoodRepository = (*PostgresStorage)(nil)
var _ UserRepository = (*PostgresStorage)(nil)
var _ MealRepository = (*PostgresStorage)(nil)
var _ Pinger = (*PostgresStorage)(nil)
