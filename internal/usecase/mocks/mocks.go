package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/cashforecast/internal/domain"
)

// MockSheetRepository is a mock implementation of usecase.SheetRepository.
// Unset Func fields fall back to an in-memory store.
type MockSheetRepository struct {
	mu     sync.RWMutex
	sheets map[string]*domain.Sheet

	CreateFunc  func(ctx context.Context, sheet *domain.Sheet) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Sheet, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Sheet, error)
	UpdateFunc  func(ctx context.Context, sheet *domain.Sheet) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func NewMockSheetRepository() *MockSheetRepository {
	return &MockSheetRepository{
		sheets: make(map[string]*domain.Sheet),
	}
}

func (m *MockSheetRepository) Create(ctx context.Context, sheet *domain.Sheet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sheet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet.ID] = sheet
	return nil
}

func (m *MockSheetRepository) GetByID(ctx context.Context, id string) (*domain.Sheet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sheet, ok := m.sheets[id]; ok {
		return sheet, nil
	}
	return nil, domain.ErrSheetNotFound
}

func (m *MockSheetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sheet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sheets := make([]*domain.Sheet, 0, len(m.sheets))
	for _, sheet := range m.sheets {
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func (m *MockSheetRepository) Update(ctx context.Context, sheet *domain.Sheet) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sheet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet.ID]; !ok {
		return domain.ErrSheetNotFound
	}
	m.sheets[sheet.ID] = sheet
	return nil
}

func (m *MockSheetRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return domain.ErrSheetNotFound
	}
	delete(m.sheets, id)
	return nil
}

// MockCache is a mock implementation of usecase.Cache backed by a map; TTLs
// are ignored.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

// ErrCacheMiss is returned by the fallback Get when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return "", ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return "mock-id"
}
