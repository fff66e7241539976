package repository

import (
	"context"

	"github.com/yourusername/catalog-admin/internal/domain/entity"
)

// SheetRow Excel qatoridan o'qilgan xom qiymatlar (maydon nomi -> matn)
type SheetRow struct {
	Line   int
	Fields map[string]string
}

// CatalogSheet Excel katalog fayllari bilan ishlash uchun interface
type CatalogSheet interface {
	// ParseRows byte array dan qatorlarni o'qish
	ParseRows(ctx context.Context, data []byte) ([]SheetRow, error)

	// Export mahsulotlarni .xlsx ga yozish
	Export(ctx context.Context, products []entity.Product) ([]byte, error)
}
