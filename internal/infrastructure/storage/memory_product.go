package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

type memoryProductStore struct {
	mu       sync.RWMutex
	products map[string]entity.Product // key: product ID
	order    []string                  // yaratilish tartibi
}

// NewMemoryProductStore in-memory product store yaratish
func NewMemoryProductStore() repository.ProductStore {
	return &memoryProductStore{
		products: make(map[string]entity.Product),
	}
}

// Create hujjat yaratish
func (m *memoryProductStore) Create(ctx context.Context, product entity.Product) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrStore, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	product = product.Clone()
	product.ID = id
	m.products[id] = product
	m.order = append(m.order, id)
	return id, nil
}

// List barcha hujjatlarni olish
func (m *memoryProductStore) List(ctx context.Context) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStore, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]entity.Product, 0, len(m.order))
	for _, id := range m.order {
		products = append(products, m.products[id].Clone())
	}
	return products, nil
}

// Delete hujjatni o'chirish. Mavjud bo'lmagan ID xato emas.
func (m *memoryProductStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStore, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[id]; !exists {
		return nil
	}
	delete(m.products, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Replace hujjatni to'liq almashtirish
func (m *memoryProductStore) Replace(ctx context.Context, product entity.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStore, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; !exists {
		return fmt.Errorf("%w: %w: %s", repository.ErrStore, repository.ErrProductNotFound, product.ID)
	}
	m.products[product.ID] = product.Clone()
	return nil
}

// Close hech narsa qilmaydi
func (m *memoryProductStore) Close() error {
	return nil
}
