package usecase

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Field composer dagi skalyar maydon
type Field string

const (
	FieldName         Field = "name"
	FieldIntroduction Field = "introduction"
	FieldDescription  Field = "description"
	FieldPrice        Field = "price"
	FieldSalePrice    Field = "salePrice"
	FieldCost         Field = "cost"
	FieldStock        Field = "stock"
	FieldWeight       Field = "weight"
	FieldCategory     Field = "category"
	FieldCompany      Field = "company"
	FieldSKU          Field = "sku"
	FieldStatus       Field = "status"
)

// ScalarFields barcha skalyar maydonlar, forma tartibida
var ScalarFields = []Field{
	FieldName, FieldIntroduction, FieldDescription,
	FieldPrice, FieldSalePrice, FieldCost, FieldStock, FieldWeight,
	FieldCategory, FieldCompany, FieldSKU, FieldStatus,
}

var fieldAliases = map[string]Field{
	"name":         FieldName,
	"title":        FieldName,
	"introduction": FieldIntroduction,
	"intro":        FieldIntroduction,
	"description":  FieldDescription,
	"desc":         FieldDescription,
	"price":        FieldPrice,
	"saleprice":    FieldSalePrice,
	"sale":         FieldSalePrice,
	"cost":         FieldCost,
	"stock":        FieldStock,
	"qty":          FieldStock,
	"weight":       FieldWeight,
	"category":     FieldCategory,
	"company":      FieldCompany,
	"sku":          FieldSKU,
	"status":       FieldStatus,
}

// ParseField foydalanuvchi yozgan maydon nomini aniqlash ("sale_price", "Sale Price" ...)
func ParseField(raw string) (Field, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	f, ok := fieldAliases[key]
	return f, ok
}

// IsNumeric raqamli maydonmi
func (f Field) IsNumeric() bool {
	switch f {
	case FieldPrice, FieldSalePrice, FieldCost, FieldStock, FieldWeight:
		return true
	}
	return false
}

// coerceNumber xom matnni float ga o'girish; o'qib bo'lmasa 0, hech qachon xato emas
func coerceNumber(raw string) float64 {
	v := cast.ToFloat64(strings.TrimSpace(raw))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// coerceCount butun son maydonlar uchun (stock)
func coerceCount(raw string) int {
	v := coerceNumber(raw)
	if math.IsInf(v, 0) || v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0
	}
	return int(v)
}

// splitOptions vergul bo'yicha bo'lish, bo'shlarni tashlash, takrorlarni olib tashlash
func splitOptions(text string) []string {
	options := []string{}
	seen := make(map[string]struct{})
	for _, piece := range strings.Split(text, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if _, dup := seen[piece]; dup {
			continue
		}
		seen[piece] = struct{}{}
		options = append(options, piece)
	}
	return options
}

// hasWebScheme rasm URL i http:// yoki https:// bilan boshlanadimi
func hasWebScheme(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
