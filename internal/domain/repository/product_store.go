package repository

import (
	"context"
	"errors"

	"github.com/yourusername/catalog-admin/internal/domain/entity"
)

// ProductsCollection mahsulotlar saqlanadigan kolleksiya nomi
const ProductsCollection = "products"

var (
	// ErrStore store bilan bog'liq har qanday xato (tarmoq, ruxsat, ...)
	ErrStore = errors.New("product store error")

	// ErrProductNotFound hujjat topilmadi
	ErrProductNotFound = errors.New("product not found")
)

// ProductStore masofaviy mahsulot hujjatlari ombori.
// Barcha xatolar ErrStore ni o'rab qaytariladi.
type ProductStore interface {
	// Create hujjat yaratish, store bergan ID ni qaytaradi (product.ID e'tiborga olinmaydi)
	Create(ctx context.Context, product entity.Product) (string, error)

	// List barcha hujjatlarni olish, ID to'ldirilgan holda
	List(ctx context.Context) ([]entity.Product, error)

	// Delete ID bo'yicha hujjatni o'chirish
	Delete(ctx context.Context, id string) error

	// Replace mavjud hujjatni to'liq almashtirish
	Replace(ctx context.Context, product entity.Product) error

	// Close ulanishni yopish
	Close() error
}
