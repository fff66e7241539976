package parser

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

const exportSheet = "Products"

// sheetColumns eksport tartibi; import ham shu kalitlarga map qiladi
var sheetColumns = []string{
	"id", "name", "introduction", "description",
	"price", "salePrice", "cost", "stock", "weight",
	"category", "company", "sku", "status",
	"images", "features", "tags", "variants",
}

var numericColumns = map[string]bool{
	"price": true, "salePrice": true, "cost": true, "stock": true, "weight": true,
}

type excelSheet struct{}

// NewExcelSheet yangi Excel katalog parser/eksportchi yaratish
func NewExcelSheet() repository.CatalogSheet {
	return &excelSheet{}
}

// ParseRows byte array dan qatorlarni o'qish. Birinchi qator sarlavha bo'lishi shart.
func (e *excelSheet) ParseRows(ctx context.Context, data []byte) ([]repository.SheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	columnMap := mapColumns(rows[0])
	if _, ok := columnMap["name"]; !ok {
		return nil, fmt.Errorf("header row has no name column")
	}
	log.Debug().Interface("columns", columnMap).Int("rows", len(rows)-1).Msg("excel header mapped")

	var out []repository.SheetRow
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		fields := make(map[string]string, len(columnMap))
		for key, idx := range columnMap {
			if key == "id" || idx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[idx])
			if value == "" {
				continue
			}
			if numericColumns[key] {
				value = normalizeNumber(value)
			}
			fields[key] = value
		}
		// Excel qatorlari 1 dan boshlanadi
		out = append(out, repository.SheetRow{Line: i + 1, Fields: fields})
	}

	return out, nil
}

// Export mahsulotlarni .xlsx fayliga yozish
func (e *excelSheet) Export(ctx context.Context, products []entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(sheetColumns))
	for i, col := range sheetColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := productRow(p)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func productRow(p entity.Product) []interface{} {
	variants := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, v.Name+": "+strings.Join(v.Options, ", "))
	}
	return []interface{}{
		p.ID, p.Name, p.Introduction, p.Description,
		p.Price, p.SalePrice, p.Cost, p.Stock, p.Weight,
		string(p.Category), p.Company, p.SKU, string(p.Status),
		strings.Join(p.Images, "\n"),
		strings.Join(p.Features, "\n"),
		strings.Join(p.Tags, "|"),
		strings.Join(variants, "; "),
	}
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// mapColumns header qatoridan column mapping yaratish.
// Aniqroq kalitlar birinchi tekshiriladi ("sale price" -> salePrice, "price" emas).
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))
		compact := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(colName)

		var key string
		switch {
		case compact == "id":
			key = "id"
		case contains(compact, "saleprice", "discount", "chegirma"):
			key = "salePrice"
		case contains(compact, "cost", "tannarx", "xarajat"):
			key = "cost"
		case contains(compact, "price", "narx", "цена"):
			key = "price"
		case contains(compact, "intro", "tanishtiruv"):
			key = "introduction"
		case contains(compact, "description", "tavsif", "описание"):
			key = "description"
		case contains(compact, "stock", "soni", "qty", "quantity", "количество"):
			key = "stock"
		case contains(compact, "weight", "vazn", "вес"):
			key = "weight"
		case contains(compact, "category", "kategoriya", "категория"):
			key = "category"
		case contains(compact, "company", "brand", "kompaniya"):
			key = "company"
		case contains(compact, "sku", "artikul"):
			key = "sku"
		case contains(compact, "status", "holat"):
			key = "status"
		case contains(compact, "image", "rasm", "photo"):
			key = "images"
		case contains(compact, "feature", "xususiyat"):
			key = "features"
		case contains(compact, "tag", "teg"):
			key = "tags"
		case contains(compact, "variant", "option"):
			key = "variants"
		case contains(compact, "name", "nom", "название", "product", "mahsulot"):
			key = "name"
		default:
			continue
		}

		if _, taken := columnMap[key]; !taken {
			columnMap[key] = i
		}
	}

	return columnMap
}

// contains tekshirish uchun helper
func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

// normalizeNumber valyuta belgilari va ming ajratgichlarini olib tashlash.
// O'qib bo'lmasa qiymat o'zgarmaydi, composer uni 0 ga aylantiradi.
func normalizeNumber(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(
		",", "", " ", "", "$", "", "€", "", "£", "", "₽", "", "¥", "",
		"so'm", "", "soum", "", "сум", "", "uzs", "", "usd", "", "eur", "", "kg", "",
	).Replace(cleaned)

	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return raw
	}
	return cleaned
}
