package internal

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNilUser = errors.New("user cannot be nil")

type Food struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// User is a registered profile. Body metrics are only reachable through
// setters so the daily target never lags behind them.
type User struct {
	ID    string
	Name  string
	Email string

	age                int
	weight             float64 // kg
	height             float64 // cm
	goal               Goal
	dailyCalorieTarget int
}

func NewUser(name, email string, age int, weight, height float64, goal Goal) *User {
	u := &User{Name: name, Email: email, age: age, weight: weight, height: height, goal: goal}
	u.recalculate()
	return u
}

func (u *User) Age() int                { return u.age }
func (u *User) Weight() float64         { return u.weight }
func (u *User) Height() float64         { return u.height }
func (u *User) Goal() Goal              { return u.goal }
func (u *User) DailyCalorieTarget() int { return u.dailyCalorieTarget }

func (u *User) SetAge(age int) {
	u.age = age
	u.recalculate()
}

func (u *User) SetWeight(weight float64) {
	u.weight = weight
	u.recalculate()
}

func (u *User) SetHeight(height float64) {
	u.height = height
	u.recalculate()
}

func (u *User) SetGoal(goal Goal) {
	u.goal = goal
	u.recalculate()
}

func (u *User) recalculate() {
	u.dailyCalorieTarget = DailyCalorieTarget(u.weight, u.height, u.age, u.goal)
}

type userJSON struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Age                int     `json:"age"`
	Weight             float64 `json:"weight"`
	Height             float64 `json:"height"`
	Goal               Goal    `json:"goal"`
	DailyCalorieTarget int     `json:"daily_calorie_target"`
}

func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Age:                u.age,
		Weight:             u.weight,
		Height:             u.height,
		Goal:               u.goal,
		DailyCalorieTarget: u.dailyCalorieTarget,
	})
}

// UnmarshalJSON ignores any stored target and derives it again.
func (u *User) UnmarshalJSON(data []byte) error {
	var j userJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*u = User{ID: j.ID, Name: j.Name, Email: j.Email, age: j.Age, weight: j.Weight, height: j.Height, goal: j.Goal}
	u.recalculate()
	return nil
}

// Meal references its user by id; foods are resolved copies in eaten order.
type Meal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Foods     []Food    `json:"foods"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMeal fails on a nil user. A zero timestamp means "now".
func NewMeal(user *User, foods []Food, ts time.Time) (*Meal, error) {
	m := &Meal{}
	if err := m.SetUser(user); err != nil {
		return nil, err
	}
	m.SetFoods(foods)
	if ts.IsZero() {
		ts = time.Now()
	}
	m.Timestamp = ts
	return m, nil
}

func (m *Meal) SetUser(user *User) error {
	if user == nil {
		return ErrNilUser
	}
	m.UserID = user.ID
	return nil
}

func (m *Meal) SetFoods(foods []Food) {
	if foods == nil {
		foods = []Food{}
	}
	m.Foods = foods
}

func (m *Meal) TotalCalories() int {
	total := 0
	for _, f := range m.Foods {
		total += f.Calories
	}
	return total
}

// FoodIDs returns the ids of the meal's foods, duplicates included.
func (m *Meal) FoodIDs() []string {
	ids := make([]string, len(m.Foods))
	for i, f := range m.Foods {
		ids[i] = f.ID
	}
	return ids
}
