package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
)

const defaultSaveDelay = 500 * time.Millisecond

// mealRecord is the persisted form of a meal; foods are kept by id.
type mealRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FoodIDs   []string  `json:"food_ids"`
	Timestamp time.Time `json:"timestamp"`
}

type FileStorage struct {
	foods         map[string]*internal.Food // id -> Food
	foodOrder     []string                  // insertion order
	foodNames     map[string]string         // lower(name) -> id
	users         map[string]*internal.User // id -> User
	userOrder     []string
	userEmails    map[string]string        // email -> id
	meals         map[string]*mealRecord   // id -> meal
	userMealIndex map[string][]*mealRecord // userID -> meals (sorted descending)
	mu            sync.RWMutex

	foodsFile     string
	usersFile     string
	mealsFile     string
	saveFoodsChan chan struct{}
	saveUsersChan chan struct{}
	saveMealsChan chan struct{}
	shutdownChan  chan struct{}
	saveDelay     time.Duration
	workers       sync.WaitGroup
	closeOnce     sync.Once
	logger        internal.Logger
}

func NewFileStorage(foodsFile, usersFile, mealsFile string, saveDelay time.Duration, logger internal.Logger) (*FileStorage, error) {
	if saveDelay <= 0 {
		saveDelay = defaultSaveDelay
	}
	s := &FileStorage{
		foods:         make(map[string]*internal.Food),
		foodNames:     make(map[string]string),
		users:         make(map[string]*internal.User),
		userEmails:    make(map[string]string),
		meals:         make(map[string]*mealRecord),
		userMealIndex: make(map[string][]*mealRecord),
		foodsFile:     foodsFile,
		usersFile:     usersFile,
		mealsFile:     mealsFile,
		saveFoodsChan: make(chan struct{}, 1),
		saveUsersChan: make(chan struct{}, 1),
		saveMealsChan: make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     saveDelay,
		logger:        logger,
	}

	if err := s.loadFoods(); err != nil {
		logger.Errorf("storage: failed to load foods: %v", err)
		return nil, err
	}
	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadMeals(); err != nil {
		logger.Errorf("storage: failed to load meals: %v", err)
		return nil, err
	}

	s.startWorker("foods", s.saveFoodsChan, s.saveFoods)
	s.startWorker("users", s.saveUsersChan, s.saveUsers)
	s.startWorker("meals", s.saveMealsChan, s.saveMeals)

	return s, nil
}

// decodeFile decodes a JSON array from path into v. A missing or empty
// file leaves v untouched.
func decodeFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *FileStorage) loadFoods() error {
	var foods []*internal.Food
	if err := decodeFile(s.foodsFile, &foods); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range foods {
		s.foods[f.ID] = f
		s.foodOrder = append(s.foodOrder, f.ID)
		s.foodNames[strings.ToLower(f.Name)] = f.ID
	}
	return nil
}

func (s *FileStorage) loadUsers() error {
	var users []*internal.User
	if err := decodeFile(s.usersFile, &users); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.userOrder = append(s.userOrder, u.ID)
		s.userEmails[u.Email] = u.ID
	}
	return nil
}

func (s *FileStorage) loadMeals() error {
	var meals []*mealRecord
	if err := decodeFile(s.mealsFile, &meals); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range meals {
		s.meals[m.ID] = m
		s.userMealIndex[m.UserID] = append(s.userMealIndex[m.UserID], m)
	}

	// Sort each user's meals descending by Timestamp
	for userID := range s.userMealIndex {
		idx := s.userMealIndex[userID]
		sort.SliceStable(idx, func(i, j int) bool {
			return idx[i].Timestamp.After(idx[j].Timestamp)
		})
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveFoods() error {
	s.mu.RLock()
	foods := make([]*internal.Food, 0, len(s.foodOrder))
	for _, id := range s.foodOrder {
		foods = append(foods, s.foods[id])
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.foodsFile, foods)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, s.users[id])
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStorage) saveMeals() error {
	s.mu.RLock()
	meals := make([]*mealRecord, 0, len(s.meals))
	for _, m := range s.meals {
		meals = append(meals, m)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.mealsFile, meals)
}

// startWorker batches save operations to avoid frequent disk writes.
func (s *FileStorage) startWorker(name string, signal <-chan struct{}, save func() error) {
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		timer := time.NewTimer(s.saveDelay)
		defer timer.Stop()

		for {
			select {
			case <-signal:
				timer.Reset(s.saveDelay)
			case <-timer.C:
				if err := save(); err != nil {
					s.logger.Errorf("storage: error saving %s: %v", name, err)
				}
			case <-s.shutdownChan:
				return
			}
		}
	}()
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers and flushes everything to disk.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()

		for _, save := range []func() error{s.saveFoods, s.saveUsers, s.saveMeals} {
			if err = save(); err != nil {
				return
			}
		}
	})
	return err
}

// --- FoodRepository ---
func (s *FileStorage) FindOrCreateFood(ctx context.Context, food *internal.Food) (*internal.Food, bool, error) {
	key := strings.ToLower(food.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.foodNames[key]; ok {
		existing := *s.foods[id]
		return &existing, false, nil
	}
	stored := *food
	s.foods[stored.ID] = &stored
	s.foodOrder = append(s.foodOrder, stored.ID)
	s.foodNames[key] = stored.ID
	notify(s.saveFoodsChan)

	created := stored
	return &created, true, nil
}

func (s *FileStorage) GetFoodByName(ctx context.Context, name string) (*internal.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.foodNames[strings.ToLower(name)]
	if !ok {
		return nil, ErrNotFound
	}
	f := *s.foods[id]
	return &f, nil
}

func (s *FileStorage) GetFoodsByIDs(ctx context.Context, ids []string) (map[string]internal.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string]internal.Food, len(ids))
	for _, id := range ids {
		if f, ok := s.foods[id]; ok {
			found[id] = *f
		}
	}
	return found, nil
}

func (s *FileStorage) ListFoods(ctx context.Context) ([]internal.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	foods := make([]internal.Food, 0, len(s.foodOrder))
	for _, id := range s.foodOrder {
		foods = append(foods, *s.foods[id])
	}
	return foods, nil
}

// --- UserRepository ---
func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.userEmails[user.Email]; taken {
		return ErrDuplicate
	}
	stored := *user
	s.users[stored.ID] = &stored
	s.userOrder = append(s.userOrder, stored.ID)
	s.userEmails[stored.Email] = stored.ID
	notify(s.saveUsersChan)
	return nil
}

// UpdateUser runs apply on a copy under the write lock. The email is fixed
// at creation.
func (s *FileStorage) UpdateUser(ctx context.Context, id string, apply func(*internal.User) error) (*internal.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored := *existing
	if err := apply(&stored); err != nil {
		return nil, err
	}
	stored.ID = existing.ID
	stored.Email = existing.Email
	s.users[id] = &stored
	notify(s.saveUsersChan)
	cp := stored
	return &cp, nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *FileStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userEmails[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *FileStorage) ListUsers(ctx context.Context) ([]*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*internal.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		cp := *s.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

// --- MealRepository ---
func (s *FileStorage) SaveMeal(ctx context.Context, meal *internal.Meal) error {
	rec := &mealRecord{
		ID:        meal.ID,
		UserID:    meal.UserID,
		FoodIDs:   meal.FoodIDs(),
		Timestamp: meal.Timestamp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[rec.ID] = rec
	meals := s.userMealIndex[rec.UserID]
	inserted := false
	for i, existing := range meals {
		if existing.Timestamp.Before(rec.Timestamp) {
			meals = append(meals[:i], append([]*mealRecord{rec}, meals[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		meals = append(meals, rec)
	}
	s.userMealIndex[rec.UserID] = meals
	notify(s.saveMealsChan)
	return nil
}

func (s *FileStorage) GetMeal(ctx context.Context, id string) (*internal.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	m := s.resolveMeal(rec)
	return &m, nil
}

func (s *FileStorage) ListMeals(ctx context.Context, userID string) ([]internal.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := s.userMealIndex[userID]
	meals := make([]internal.Meal, 0, len(index))
	for _, rec := range index {
		meals = append(meals, s.resolveMeal(rec))
	}
	return meals, nil
}

func (s *FileStorage) ListMealsBetween(ctx context.Context, userID string, from, to time.Time) ([]internal.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meals := []internal.Meal{}
	for _, rec := range s.userMealIndex[userID] {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		meals = append(meals, s.resolveMeal(rec))
	}
	return meals, nil
}

func (s *FileStorage) DeleteMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.meals[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.meals, id)
	index := s.userMealIndex[rec.UserID]
	for i, m := range index {
		if m.ID == id {
			s.userMealIndex[rec.UserID] = append(index[:i], index[i+1:]...)
			break
		}
	}
	if len(s.userMealIndex[rec.UserID]) == 0 {
		delete(s.userMealIndex, rec.UserID)
	}
	notify(s.saveMealsChan)
	return nil
}

// resolveMeal must be called with s.mu held.
func (s *FileStorage) resolveMeal(rec *mealRecord) internal.Meal {
	foods := make([]internal.Food, 0, len(rec.FoodIDs))
	for _, id := range rec.FoodIDs {
		if f, ok := s.foods[id]; ok {
			foods = append(foods, *f)
		}
	}
	return internal.Meal{ID: rec.ID, UserID: rec.UserID, Foods: foods, Timestamp: rec.Timestamp}
}

// --- Compile-time assertions ---
var _ FoodRepository = (*FileStorage)(nil)
var _ UserRepository = (*FileStorage)(nil)
var _ MealRepository = (*FileStorage)(nil)
