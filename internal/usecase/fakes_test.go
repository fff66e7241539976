package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

var errBoom = errors.New("store unavailable")

// fakeStore xotiradagi store; xatolar va blokirovka testdan boshqariladi
type fakeStore struct {
	mu       sync.Mutex
	products []entity.Product
	nextID   int

	listErr    error
	createErr  error
	deleteErr  error
	replaceErr error

	// listHook List ichida, natija olinishidan oldin chaqiriladi
	listHook func()

	lastCreated entity.Product
	receivedID  string
	createCalls int
	listCalls   int
}

func newFakeStore(products ...entity.Product) *fakeStore {
	return &fakeStore{products: products}
}

func (f *fakeStore) Create(ctx context.Context, product entity.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.receivedID = product.ID
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	product.ID = fmt.Sprintf("p%d", f.nextID)
	f.lastCreated = product.Clone()
	f.products = append(f.products, product.Clone())
	return product.ID, nil
}

func (f *fakeStore) List(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	hook := f.listHook
	f.listCalls++
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Product, len(f.products))
	for i, p := range f.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

func (f *fakeStore) Replace(ctx context.Context, product entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	for i, p := range f.products {
		if p.ID == product.ID {
			f.products[i] = product.Clone()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", repository.ErrProductNotFound, product.ID)
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) set(fn func(f *fakeStore)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func product(id, name string, price float64) entity.Product {
	p := entity.NewDraft()
	p.ID = id
	p.Name = name
	p.Price = price
	return p
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}
