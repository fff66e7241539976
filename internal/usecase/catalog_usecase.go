package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

// CatalogUseCase store dagi mahsulotlar kolleksiyasining xotiradagi nusxasi.
// Ro'yxat faqat muvaffaqiyatli store o'qishidan to'ldiriladi, qo'shish optimistik emas.
type CatalogUseCase interface {
	// Refresh butun kolleksiyani qayta yuklash
	Refresh(ctx context.Context) State

	// Add qoralamani store ga yuborish, so'ng Refresh
	Add(ctx context.Context, draft entity.Product) (string, State, error)

	// Remove store tasdiqlagandan keyin ro'yxatdan o'chirish
	Remove(ctx context.Context, id string) State

	// Replace mavjud mahsulotni to'liq almashtirish, so'ng Refresh
	Replace(ctx context.Context, product entity.Product) (State, error)

	// Products joriy ro'yxat nusxasi
	Products() []entity.Product

	// Get ro'yxatdan ID bo'yicha olish
	Get(id string) (entity.Product, bool)

	// State oxirgi holat
	State() State

	// Loading refresh davom etayotganini bildiradi
	Loading() bool
}

type catalogUseCase struct {
	store repository.ProductStore

	mu       sync.RWMutex
	products []entity.Product
	state    State
	inflight int
}

// NewCatalogUseCase yangi CatalogUseCase yaratish. Boshlang'ich Refresh ni chaqiruvchi bajaradi.
func NewCatalogUseCase(store repository.ProductStore) CatalogUseCase {
	return &catalogUseCase{
		store:    store,
		products: []entity.Product{},
		state:    State{Phase: PhaseIdle},
	}
}

// Refresh kolleksiyani to'liq almashtiradi. Xatoda oldingi ro'yxat saqlanadi.
// Bir vaqtdagi refreshlar birlashtirilmaydi: oxirgi tugagani yutadi.
func (c *catalogUseCase) Refresh(ctx context.Context) State {
	c.mu.Lock()
	c.inflight++
	c.state = State{Phase: PhaseLoading, Count: len(c.products)}
	c.mu.Unlock()

	products, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	var result State
	if err != nil {
		log.Error().Err(err).Msg("catalog refresh failed")
		result = State{Phase: PhaseError, Reason: err.Error(), Count: len(c.products)}
	} else {
		c.products = products
		result = State{Phase: PhaseReady, Count: len(products)}
		log.Debug().Int("count", len(products)).Msg("catalog refreshed")
	}

	if c.inflight > 0 {
		c.state = State{Phase: PhaseLoading, Count: len(c.products)}
	} else {
		c.state = result
	}
	return result
}

// Add qoralamani yaratish. Xato chaqiruvchiga qaytariladi, ro'yxat o'zgarmaydi.
func (c *catalogUseCase) Add(ctx context.Context, draft entity.Product) (string, State, error) {
	draft = draft.Clone()
	draft.ID = ""

	id, err := c.store.Create(ctx, draft)
	if err != nil {
		c.mu.Lock()
		result := State{Phase: PhaseError, Reason: err.Error(), Count: len(c.products)}
		c.state = result
		c.mu.Unlock()
		return "", result, fmt.Errorf("failed to add product: %w", err)
	}

	log.Info().Str("product_id", id).Str("name", draft.Name).Msg("product created")
	return id, c.Refresh(ctx), nil
}

// Remove store da o'chirish tasdiqlangandan keyingina ro'yxatni o'zgartiradi.
func (c *catalogUseCase) Remove(ctx context.Context, id string) State {
	if err := c.store.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("product delete failed")
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = State{Phase: PhaseError, Reason: err.Error(), Count: len(c.products)}
		return c.state
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]entity.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
	c.state = State{Phase: PhaseReady, Count: len(kept)}
	log.Info().Str("product_id", id).Msg("product deleted")
	return c.state
}

// Replace tahrirlangan mahsulotni to'liq yozish. Xato chaqiruvchiga qaytariladi.
func (c *catalogUseCase) Replace(ctx context.Context, product entity.Product) (State, error) {
	if product.ID == "" {
		return c.State(), invalid("id", "product has no identifier")
	}

	if err := c.store.Replace(ctx, product.Clone()); err != nil {
		c.mu.Lock()
		result := State{Phase: PhaseError, Reason: err.Error(), Count: len(c.products)}
		c.state = result
		c.mu.Unlock()
		return result, fmt.Errorf("failed to replace product: %w", err)
	}

	log.Info().Str("product_id", product.ID).Msg("product replaced")
	return c.Refresh(ctx), nil
}

// Products joriy ro'yxat nusxasi
func (c *catalogUseCase) Products() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// Get ID bo'yicha mahsulot
func (c *catalogUseCase) Get(id string) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return entity.Product{}, false
}

// State oxirgi holat
func (c *catalogUseCase) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Loading refresh davom etmoqdami
func (c *catalogUseCase) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}
