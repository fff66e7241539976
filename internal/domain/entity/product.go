package entity

import "time"

// Category mahsulot kategoriyasi (yopiq to'plam)
type Category string

const (
	CategoryNone          Category = ""
	CategorySmartHome     Category = "smart-home"
	CategoryIndustrialIoT Category = "industrial-iot"
	CategoryWearables     Category = "wearables"
	CategorySmartCity     Category = "smart-city"
	CategoryModules       Category = "modules"
	CategoryTracking      Category = "tracking"
)

// Categories barcha ruxsat etilgan kategoriyalar
var Categories = []Category{
	CategorySmartHome,
	CategoryIndustrialIoT,
	CategoryWearables,
	CategorySmartCity,
	CategoryModules,
	CategoryTracking,
}

// Status mahsulot holati
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPublished  Status = "published"
	StatusOutOfStock Status = "out_of_stock"
)

// Statuses barcha ruxsat etilgan holatlar
var Statuses = []Status{StatusDraft, StatusPublished, StatusOutOfStock}

const (
	TagNewArrival = "new arrival"
	TagFeatured   = "featured"
	TagBestSeller = "best seller"
)

// TagVocabulary teglar lug'ati
var TagVocabulary = []string{TagNewArrival, TagFeatured, TagBestSeller}

// VariantGroup variant o'qi, masalan Color -> Red, Blue
type VariantGroup struct {
	Name    string   `json:"name" firestore:"name" validate:"required"`
	Options []string `json:"options" firestore:"options" validate:"min=1,dive,required"`
}

// Product mahsulot entity
type Product struct {
	ID           string         `json:"id,omitempty" firestore:"-"`
	Name         string         `json:"name" firestore:"name" validate:"required"`
	Introduction string         `json:"introduction" firestore:"introduction"`
	Description  string         `json:"description" firestore:"description"`
	Price        float64        `json:"price" firestore:"price" validate:"gte=0"`
	SalePrice    float64        `json:"salePrice" firestore:"salePrice"`
	Cost         float64        `json:"cost" firestore:"cost"`
	Stock        int            `json:"stock" firestore:"stock"`
	Weight       float64        `json:"weight" firestore:"weight"` // kg
	Category     Category       `json:"category" firestore:"category" validate:"omitempty,oneof=smart-home industrial-iot wearables smart-city modules tracking"`
	Company      string         `json:"company" firestore:"company"`
	SKU          string         `json:"sku" firestore:"sku"`
	Status       Status         `json:"status" firestore:"status" validate:"omitempty,oneof=draft published out_of_stock"`
	Images       []string       `json:"images" firestore:"images"`
	Features     []string       `json:"features" firestore:"features"`
	Tags         []string       `json:"tags" firestore:"tags" validate:"dive,oneof='new arrival' featured 'best seller'"`
	Variants     []VariantGroup `json:"variants" firestore:"variants" validate:"dive"`
	CreatedAt    time.Time      `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// NewDraft bo'sh qoralama yaratish
func NewDraft() Product {
	return Product{
		Status:   StatusDraft,
		Images:   []string{},
		Features: []string{},
		Tags:     []string{},
		Variants: []VariantGroup{},
	}
}

// Clone chuqur nusxa olish (slicelar umumiy bo'lmasligi uchun)
func (p Product) Clone() Product {
	out := p
	out.Images = append([]string{}, p.Images...)
	out.Features = append([]string{}, p.Features...)
	out.Tags = append([]string{}, p.Tags...)
	out.Variants = make([]VariantGroup, len(p.Variants))
	for i, v := range p.Variants {
		out.Variants[i] = VariantGroup{Name: v.Name, Options: append([]string{}, v.Options...)}
	}
	return out
}

// HasTag teg mavjudligini tekshirish
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsKnownCategory kategoriya yopiq to'plamda ekanligini tekshirish
func IsKnownCategory(c Category) bool {
	if c == CategoryNone {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsKnownStatus holat ruxsat etilganligini tekshirish
func IsKnownStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsKnownTag teg lug'atda borligini tekshirish
func IsKnownTag(tag string) bool {
	for _, known := range TagVocabulary {
		if tag == known {
			return true
		}
	}
	return false
}
