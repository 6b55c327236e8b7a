package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

// MockFoodCatalog is an in-memory domain.FoodCatalog that applies CatalogQuery.Matches
type MockFoodCatalog struct {
	mu          sync.Mutex
	foods       []domain.FoodItem
	err         error
	ignoreLimit bool
	queries     []domain.CatalogQuery
}

func NewMockFoodCatalog(foods ...domain.FoodItem) *MockFoodCatalog {
	return &MockFoodCatalog{foods: foods}
}

func (m *MockFoodCatalog) FindCandidates(ctx context.Context, query domain.CatalogQuery) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FoodItem
	for _, f := range m.foods {
		if !query.Matches(f) {
			continue
		}
		out = append(out, f)
		if !m.ignoreLimit && query.Limit > 0 && len(out) == query.Limit {
			break
		}
	}
	return out, nil
}

func (m *MockFoodCatalog) GetByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.foods {
		if f.ID == id {
			food := f
			return &food, nil
		}
	}
	return nil, domain.ErrFoodNotFound
}

func (m *MockFoodCatalog) GetByIDs(ctx context.Context, ids []string) (map[string]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]domain.FoodItem)
	for _, id := range ids {
		for _, f := range m.foods {
			if f.ID == id {
				out[id] = f
			}
		}
	}
	return out, nil
}

func (m *MockFoodCatalog) Search(ctx context.Context, text string, limit int) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FoodItem
	for _, f := range m.foods {
		for _, word := range strings.Fields(strings.ToLower(text)) {
			if strings.Contains(strings.ToLower(f.Name), word) {
				out = append(out, f)
				break
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockFoodCatalog) List(ctx context.Context) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.FoodItem(nil), m.foods...), m.err
}

func (m *MockFoodCatalog) Create(ctx context.Context, food *domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if food.ID == "" {
		food.ID = "food-" + food.Name
	}
	m.foods = append(m.foods, *food)
	return nil
}

func (m *MockFoodCatalog) Update(ctx context.Context, food *domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.foods {
		if f.ID == food.ID {
			m.foods[i] = *food
			return nil
		}
	}
	return domain.ErrFoodNotFound
}

func (m *MockFoodCatalog) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.foods {
		if f.ID == id {
			m.foods = append(m.foods[:i], m.foods[i+1:]...)
			return nil
		}
	}
	return domain.ErrFoodNotFound
}

func (m *MockFoodCatalog) recordedQueries() []domain.CatalogQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CatalogQuery(nil), m.queries...)
}

// MockMealRepository is a mock implementation of domain.MealRepository
type MockMealRepository struct {
	entries map[string]domain.MealEntry
	order   []string
	err     error
	nextID  int
}

func NewMockMealRepository() *MockMealRepository {
	return &MockMealRepository{entries: make(map[string]domain.MealEntry)}
}

func (m *MockMealRepository) Create(ctx context.Context, entry *domain.MealEntry) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	entry.ID = fmt.Sprintf("meal-%d", m.nextID)
	m.entries[entry.ID] = *entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MockMealRepository) Update(ctx context.Context, entry *domain.MealEntry) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrMealNotFound
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *MockMealRepository) GetByID(ctx context.Context, userID, id string) (*domain.MealEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrMealNotFound
	}
	return &e, nil
}

func (m *MockMealRepository) ListByUser(ctx context.Context, userID string) ([]domain.MealEntry, error) {
	return m.list(func(e domain.MealEntry) bool { return e.UserID == userID })
}

func (m *MockMealRepository) ListByDate(ctx context.Context, userID, date string) ([]domain.MealEntry, error) {
	return m.list(func(e domain.MealEntry) bool { return e.UserID == userID && e.Date == date })
}

func (m *MockMealRepository) Delete(ctx context.Context, userID, id string) error {
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return domain.ErrMealNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockMealRepository) DeleteByDate(ctx context.Context, userID, date string) (int64, error) {
	var n int64
	for id, e := range m.entries {
		if e.UserID == userID && e.Date == date {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MockMealRepository) list(keep func(domain.MealEntry) bool) ([]domain.MealEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.MealEntry
	for _, id := range m.order {
		if e, ok := m.entries[id]; ok && keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockPublisher records published events
type MockPublisher struct {
	mu     sync.Mutex
	events map[string][]domain.Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{events: make(map[string][]domain.Event)}
}

func (m *MockPublisher) Publish(userID string, event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[userID] = append(m.events[userID], event)
}

func (m *MockPublisher) types(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events[userID] {
		out = append(out, e.Type)
	}
	return out
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockWaterRepository is a mock implementation of domain.WaterRepository
type MockWaterRepository struct {
	intakes []domain.WaterIntake
	err     error
	nextID  int
}

func (m *MockWaterRepository) Create(ctx context.Context, intake *domain.WaterIntake) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	intake.ID = fmt.Sprintf("water-%d", m.nextID)
	m.intakes = append(m.intakes, *intake)
	return nil
}

func (m *MockWaterRepository) List(ctx context.Context, userID string, from, to *time.Time) ([]domain.WaterIntake, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.WaterIntake
	for i := len(m.intakes) - 1; i >= 0; i-- {
		w := m.intakes[i]
		if w.UserID != userID {
			continue
		}
		if from != nil && w.Date.Before(*from) {
			continue
		}
		if to != nil && w.Date.After(*to) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (m *MockWaterRepository) Delete(ctx context.Context, userID, id string) error {
	for i, w := range m.intakes {
		if w.ID == id && w.UserID == userID {
			m.intakes = append(m.intakes[:i], m.intakes[i+1:]...)
			return nil
		}
	}
	return domain.ErrWaterNotFound
}

// MockRecognizer is a mock implementation of domain.FoodRecognizer
type MockRecognizer struct {
	result *domain.Recognition
	err    error
	calls  int
}

func (m *MockRecognizer) Recognize(ctx context.Context, image domain.Image) (*domain.Recognition, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockImageStore is a mock implementation of domain.ImageStore
type MockImageStore struct {
	saved []domain.Image
	err   error
}

func (m *MockImageStore) Save(ctx context.Context, image domain.Image) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, image)
	return "/uploads/" + image.Filename, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	users  map[string]domain.User
	err    error
	nextID int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if search == "" ||
			strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) ||
			strings.Contains(u.Email, strings.ToLower(search)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// MockHasher prefixes passwords instead of hashing them
type MockHasher struct{}

func (MockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (MockHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

// MockTokens issues "token-<userID>" and parses it back
type MockTokens struct{}

func (MockTokens) Issue(user domain.User) (string, time.Time, error) {
	return "token-" + user.ID + "-" + string(user.Role), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (MockTokens) Parse(token string) (*domain.AuthClaims, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 4 || parts[0] != "token" {
		return nil, fmt.Errorf("malformed token")
	}
	return &domain.AuthClaims{UserID: parts[1] + "-" + parts[2], Role: domain.Role(parts[3])}, nil
}

// MockChatClient is a mock implementation of domain.ChatClient
type MockChatClient struct {
	reply        string
	err          error
	systemPrompt string
	message      string
}

func (m *MockChatClient) Complete(ctx context.Context, systemPrompt, message string) (string, error) {
	m.systemPrompt = systemPrompt
	m.message = message
	return m.reply, m.err
}
