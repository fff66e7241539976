package repository

import (
	"context"

	"github.com/yourusername/catalog-admin/internal/domain/entity"
)

// CopyWriter AI yordamida mahsulot matnini yozish uchun interface
type CopyWriter interface {
	// WriteIntroduction qoralama uchun qisqa tanishtiruv matni
	WriteIntroduction(ctx context.Context, draft entity.Product) (string, error)
}
