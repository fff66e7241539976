package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
)

// SubmitPhase submit holati: idle -> submitting -> idle | failed
type SubmitPhase int

const (
	SubmitIdle SubmitPhase = iota
	SubmitSubmitting
	SubmitFailed
)

func (p SubmitPhase) String() string {
	switch p {
	case SubmitSubmitting:
		return "submitting"
	case SubmitFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SubmitState oxirgi submit natijasi
type SubmitState struct {
	Phase  SubmitPhase
	Reason string
}

var productValidator = newProductValidator()

func newProductValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ComposerOption composer sozlamasi
type ComposerOption func(*ProductComposer)

// WithClock createdAt uchun vaqt manbai
func WithClock(now func() time.Time) ComposerOption {
	return func(c *ProductComposer) {
		c.now = now
	}
}

// ProductComposer bitta mahsulot qoralamasini bosqichma-bosqich yig'adi.
// Ro'yxatga hech qachon bevosita tegmaydi, faqat CatalogUseCase orqali.
type ProductComposer struct {
	catalog CatalogUseCase
	now     func() time.Time

	mu         sync.Mutex
	draft      entity.Product
	imageInput string
	staged     entity.VariantGroup
	editing    bool
	busy       bool
	submit     SubmitState

	// rev har bir o'zgarishda oshadi; submitRev begin paytidagi qiymat
	rev       uint64
	submitRev uint64
}

// NewProductComposer yangi composer yaratish
func NewProductComposer(catalog CatalogUseCase, opts ...ComposerOption) *ProductComposer {
	c := &ProductComposer{
		catalog: catalog,
		now:     time.Now,
		draft:   entity.NewDraft(),
		staged:  entity.VariantGroup{Options: []string{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Draft joriy qoralama nusxasi
func (c *ProductComposer) Draft() entity.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Reset bo'sh qoralamaga qaytish
func (c *ProductComposer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.resetLocked()
}

func (c *ProductComposer) resetLocked() {
	c.draft = entity.NewDraft()
	c.imageInput = ""
	c.staged = entity.VariantGroup{Options: []string{}}
	c.editing = false
	c.submit = SubmitState{}
}

// Load mavjud mahsulotni tahrirlash uchun yuklash
func (c *ProductComposer) Load(product entity.Product) error {
	if product.ID == "" {
		return invalid("id", "product has no identifier")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	c.resetLocked()
	c.draft = product.Clone()
	if c.draft.Status == "" {
		c.draft.Status = entity.StatusDraft
	}
	c.editing = true
	return nil
}

// Editing mavjud mahsulot tahrirlanmoqdami
func (c *ProductComposer) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// SetScalar skalyar maydonni o'rnatish. Raqamli maydonlar o'qilmasa 0 bo'ladi.
func (c *ProductComposer) SetScalar(field Field, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	d := &c.draft
	switch field {
	case FieldName:
		d.Name = raw
	case FieldIntroduction:
		d.Introduction = raw
	case FieldDescription:
		d.Description = raw
	case FieldPrice:
		d.Price = coerceNumber(raw)
	case FieldSalePrice:
		d.SalePrice = coerceNumber(raw)
	case FieldCost:
		d.Cost = coerceNumber(raw)
	case FieldStock:
		d.Stock = coerceCount(raw)
	case FieldWeight:
		d.Weight = coerceNumber(raw)
	case FieldCategory:
		d.Category = entity.Category(raw)
	case FieldCompany:
		d.Company = raw
	case FieldSKU:
		d.SKU = raw
	case FieldStatus:
		d.Status = entity.Status(raw)
	default:
		return invalid(string(field), "unknown field")
	}
	return nil
}

// SetFeature index dagi xususiyatni almashtirish (qo'shish emas)
func (c *ProductComposer) SetFeature(index int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	if index < 0 || index >= len(c.draft.Features) {
		return invalid("features", "index %d out of range [0,%d)", index, len(c.draft.Features))
	}
	c.draft.Features[index] = text
	return nil
}

// AddFeature oxiriga bo'sh qator qo'shish
func (c *ProductComposer) AddFeature() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.draft.Features = append(c.draft.Features, "")
}

// RemoveFeature index dagi xususiyatni o'chirish, keyingilar bittaga suriladi
func (c *ProductComposer) RemoveFeature(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	if index < 0 || index >= len(c.draft.Features) {
		return invalid("features", "index %d out of range [0,%d)", index, len(c.draft.Features))
	}
	c.draft.Features = append(c.draft.Features[:index], c.draft.Features[index+1:]...)
	return nil
}

// SetImageInput rasm URL kiritish maydonini yangilash
func (c *ProductComposer) SetImageInput(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.imageInput = raw
}

// ImageInput kiritish maydonidagi joriy qiymat
func (c *ProductComposer) ImageInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imageInput
}

// AddImage kiritish maydonidagi URL ni qo'shish. Rad etilsa hech narsa o'zgarmaydi.
func (c *ProductComposer) AddImage() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	url := strings.TrimSpace(c.imageInput)
	if !hasWebScheme(url) {
		return invalid("images", "url must start with http:// or https://")
	}
	c.draft.Images = append(c.draft.Images, url)
	c.imageInput = ""
	return nil
}

// AddImageURL SetImageInput + AddImage
func (c *ProductComposer) AddImageURL(url string) error {
	c.SetImageInput(url)
	return c.AddImage()
}

// RemoveImage index bo'yicha rasmni o'chirish
func (c *ProductComposer) RemoveImage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	if index < 0 || index >= len(c.draft.Images) {
		return invalid("images", "index %d out of range [0,%d)", index, len(c.draft.Images))
	}
	c.draft.Images = append(c.draft.Images[:index], c.draft.Images[index+1:]...)
	return nil
}

// SetVariantName tayyorlanayotgan variant nomi
func (c *ProductComposer) SetVariantName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.staged.Name = name
}

// SetVariantOptions variant qiymatlarini vergul bilan ajratilgan matndan olish
func (c *ProductComposer) SetVariantOptions(optionsText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.staged.Options = splitOptions(optionsText)
}

// StageVariantField nom va qiymatlarni birga yangilash
func (c *ProductComposer) StageVariantField(name, optionsText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.staged.Name = name
	c.staged.Options = splitOptions(optionsText)
}

// StagedVariant tayyorlanayotgan variant nusxasi
func (c *ProductComposer) StagedVariant() entity.VariantGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.VariantGroup{Name: c.staged.Name, Options: append([]string{}, c.staged.Options...)}
}

// CommitVariant nom va kamida bitta qiymat bo'lsa variantni qo'shadi, aks holda hech narsa qilmaydi
func (c *ProductComposer) CommitVariant() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := strings.TrimSpace(c.staged.Name)
	if name == "" || len(c.staged.Options) == 0 {
		return false
	}
	c.rev++
	c.draft.Variants = append(c.draft.Variants, entity.VariantGroup{
		Name:    name,
		Options: append([]string{}, c.staged.Options...),
	})
	c.staged = entity.VariantGroup{Options: []string{}}
	return true
}

// RemoveVariant index bo'yicha variantni o'chirish
func (c *ProductComposer) RemoveVariant(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	if index < 0 || index >= len(c.draft.Variants) {
		return invalid("variants", "index %d out of range [0,%d)", index, len(c.draft.Variants))
	}
	c.draft.Variants = append(c.draft.Variants[:index], c.draft.Variants[index+1:]...)
	return nil
}

// ToggleTag tegni qo'shish yoki olib tashlash
func (c *ProductComposer) ToggleTag(tag string, present bool) error {
	if !entity.IsKnownTag(tag) {
		return invalid("tags", "unknown tag %q", tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++

	if present {
		if !c.draft.HasTag(tag) {
			c.draft.Tags = append(c.draft.Tags, tag)
		}
		return nil
	}
	kept := make([]string, 0, len(c.draft.Tags))
	for _, t := range c.draft.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	c.draft.Tags = kept
	return nil
}

// SetIntroduction AI yozgan matnni qo'yish uchun qisqa yo'l
func (c *ProductComposer) SetIntroduction(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.draft.Introduction = text
}

// SubmitState oxirgi submit holati
func (c *ProductComposer) SubmitState() SubmitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return SubmitState{Phase: SubmitSubmitting}
	}
	return c.submit
}

// Validate qoralamani tekshirish, store ga murojaat qilmaydi
func (c *ProductComposer) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateDraft(c.draft)
}

// Submit qoralamani tekshirib katalogga qo'shadi.
// Xatoda to'plangan holat saqlanadi, qayta urinish mumkin. Muvaffaqiyatda composer tozalanadi,
// agar yuborish davomida qoralama o'zgarmagan bo'lsa.
func (c *ProductComposer) Submit(ctx context.Context) (string, error) {
	record, err := c.begin(false)
	if err != nil {
		return "", err
	}

	id, _, err := c.catalog.Add(ctx, record)
	c.finish(err)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SubmitEdit yuklangan mahsulotni to'liq almashtiradi (ID va createdAt saqlanadi)
func (c *ProductComposer) SubmitEdit(ctx context.Context) (string, error) {
	record, err := c.begin(true)
	if err != nil {
		return "", err
	}

	_, err = c.catalog.Replace(ctx, record)
	c.finish(err)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

func (c *ProductComposer) begin(edit bool) (entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return entity.Product{}, ErrSubmitInFlight
	}
	if edit && !c.editing {
		return entity.Product{}, ErrNotEditing
	}
	if err := validateDraft(c.draft); err != nil {
		c.submit = SubmitState{Phase: SubmitFailed, Reason: err.Error()}
		return entity.Product{}, err
	}

	record := c.draft.Clone()
	if record.Status == "" {
		record.Status = entity.StatusDraft
	}
	if !edit {
		record.ID = ""
		record.CreatedAt = c.now()
	}

	c.busy = true
	c.submitRev = c.rev
	c.submit = SubmitState{Phase: SubmitSubmitting}
	return record, nil
}

func (c *ProductComposer) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
	if err != nil {
		c.submit = SubmitState{Phase: SubmitFailed, Reason: err.Error()}
		return
	}
	if c.rev != c.submitRev {
		// yuborish davomida kiritilgan o'zgarishlar saqlanadi
		c.submit = SubmitState{}
		return
	}
	c.resetLocked()
}

// validateDraft nom bo'sh emas, narx manfiy emas; enumlar yopiq to'plamda
func validateDraft(draft entity.Product) error {
	if strings.TrimSpace(draft.Name) == "" {
		return invalid("name", "name is required")
	}

	err := productValidator.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.TrimPrefix(fe.Namespace(), "Product.")
		switch fe.Tag() {
		case "gte":
			return invalid(field, "must be a non-negative number")
		case "oneof":
			return invalid(field, "value %v is not allowed", fe.Value())
		case "required", "min":
			return invalid(field, "is required")
		default:
			return invalid(field, "failed %s check", fe.Tag())
		}
	}
	return fmt.Errorf("validation failed: %w", err)
}
