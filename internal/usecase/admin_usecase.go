package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

// ImportResult Excel importi natijasi
type ImportResult struct {
	Created []string      // yaratilgan ID lar
	Failed  []ImportIssue // rad etilgan qatorlar
}

// ImportIssue bitta qator xatosi
type ImportIssue struct {
	Line int
	Err  error
}

// AdminUseCase admin bilan bog'liq business logic
type AdminUseCase interface {
	// Login admin login qilish
	Login(ctx context.Context, userID int64, password string) (bool, error)

	// Logout admin logout qilish
	Logout(ctx context.Context, userID int64) error

	// IsAdmin admin ekanligini tekshirish
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// ImportCatalog Excel fayldagi har bir qatorni composer orqali qo'shish
	ImportCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (*ImportResult, error)

	// ExportCatalog joriy ro'yxatni .xlsx ga yozish
	ExportCatalog(ctx context.Context, userID int64) ([]byte, error)

	// DeleteProduct mahsulotni o'chirish
	DeleteProduct(ctx context.Context, userID int64, id string) (State, error)

	// RecordSubmit composer orqali yuborilgan mahsulotni loglash
	RecordSubmit(ctx context.Context, userID int64, productID, name string)

	// RecentActions oxirgi admin harakatlari
	RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error)
}

type adminUseCase struct {
	password  string
	adminRepo repository.AdminRepository
	catalog   CatalogUseCase
	sheet     repository.CatalogSheet
	now       func() time.Time
}

// NewAdminUseCase yangi AdminUseCase yaratish
func NewAdminUseCase(
	password string,
	adminRepo repository.AdminRepository,
	catalog CatalogUseCase,
	sheet repository.CatalogSheet,
) AdminUseCase {
	return &adminUseCase{
		password:  password,
		adminRepo: adminRepo,
		catalog:   catalog,
		sheet:     sheet,
		now:       time.Now,
	}
}

// Login admin login qilish
func (u *adminUseCase) Login(ctx context.Context, userID int64, password string) (bool, error) {
	// Parol sozlanmagan bo'lsa hech kim kira olmaydi
	if u.password == "" || password != u.password {
		return false, nil
	}

	session := entity.AdminSession{
		UserID:       userID,
		IsAdmin:      true,
		LoginTime:    u.now(),
		LastActivity: u.now(),
	}
	if err := u.adminRepo.CreateSession(ctx, session); err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}

	u.logAction(ctx, userID, entity.ActionLogin, "Admin successfully logged in")
	return true, nil
}

// Logout admin logout qilish
func (u *adminUseCase) Logout(ctx context.Context, userID int64) error {
	return u.adminRepo.DeleteSession(ctx, userID)
}

// IsAdmin admin ekanligini tekshirish
func (u *adminUseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return u.adminRepo.IsAdmin(ctx, userID)
}

func (u *adminUseCase) requireAdmin(ctx context.Context, userID int64) error {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return nil
}

// ImportCatalog Excel fayldan mahsulotlarni qo'shish.
// Har bir qator alohida composer orqali tekshiriladi va yuboriladi.
func (u *adminUseCase) ImportCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (*ImportResult, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := u.sheet.ParseRows(ctx, fileData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse excel: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no products found in excel file")
	}

	result := &ImportResult{}
	for _, row := range rows {
		composer := NewProductComposer(u.catalog, WithClock(u.now))
		if err := ApplyRow(composer, row.Fields); err != nil {
			result.Failed = append(result.Failed, ImportIssue{Line: row.Line, Err: err})
			continue
		}
		id, err := composer.Submit(ctx)
		if err != nil {
			result.Failed = append(result.Failed, ImportIssue{Line: row.Line, Err: err})
			continue
		}
		result.Created = append(result.Created, id)
	}

	log.Info().
		Str("file", filename).
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("catalog import finished")
	u.logAction(ctx, userID, entity.ActionImportCatalog,
		fmt.Sprintf("Imported %d products from %s (%d rejected)", len(result.Created), filename, len(result.Failed)))

	return result, nil
}

// ExportCatalog joriy ro'yxatni eksport qilish
func (u *adminUseCase) ExportCatalog(ctx context.Context, userID int64) ([]byte, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	data, err := u.sheet.Export(ctx, u.catalog.Products())
	if err != nil {
		return nil, fmt.Errorf("failed to export catalog: %w", err)
	}
	u.logAction(ctx, userID, entity.ActionExportCatalog, fmt.Sprintf("Exported %d bytes", len(data)))
	return data, nil
}

// DeleteProduct mahsulotni o'chirish
func (u *adminUseCase) DeleteProduct(ctx context.Context, userID int64, id string) (State, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return u.catalog.State(), err
	}

	state := u.catalog.Remove(ctx, id)
	if state.OK() {
		u.logAction(ctx, userID, entity.ActionDeleteProduct, "Deleted "+id)
	}
	return state, nil
}

// RecordSubmit yuborilgan mahsulotni loglash
func (u *adminUseCase) RecordSubmit(ctx context.Context, userID int64, productID, name string) {
	u.logAction(ctx, userID, entity.ActionSubmitProduct, fmt.Sprintf("Submitted %s (%s)", productID, name))
}

// RecentActions oxirgi harakatlar
func (u *adminUseCase) RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	return u.adminRepo.RecentActions(ctx, limit)
}

func (u *adminUseCase) logAction(ctx context.Context, userID int64, action entity.ActionType, details string) {
	err := u.adminRepo.LogAction(ctx, entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: u.now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("action", string(action)).Msg("failed to log admin action")
	}
}

// ApplyRow xom maydonlarni composer ga qo'llash.
// Ro'yxat maydonlari: images/features/tags "|" yoki yangi qator bilan,
// variants "Color: Red, Blue; Size: S, M" ko'rinishida.
func ApplyRow(c *ProductComposer, fields map[string]string) error {
	for key, raw := range fields {
		if field, ok := ParseField(key); ok {
			if err := c.SetScalar(field, strings.TrimSpace(raw)); err != nil {
				return err
			}
		}
	}

	for _, url := range SplitList(fields["images"]) {
		if err := c.AddImageURL(url); err != nil {
			return err
		}
	}

	for _, text := range SplitList(fields["features"]) {
		c.AddFeature()
		if err := c.SetFeature(len(c.Draft().Features)-1, text); err != nil {
			return err
		}
	}

	for _, tag := range SplitList(fields["tags"]) {
		if err := c.ToggleTag(strings.ToLower(tag), true); err != nil {
			return err
		}
	}

	for _, group := range strings.Split(fields["variants"], ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		name, options, found := strings.Cut(group, ":")
		if !found {
			return invalid("variants", "group %q must look like Name: a, b", group)
		}
		c.StageVariantField(strings.TrimSpace(name), options)
		if !c.CommitVariant() {
			return invalid("variants", "group %q needs a name and at least one option", group)
		}
	}
	return nil
}

// SplitList "|" yoki yangi qator bilan ajratilgan ro'yxatni bo'lish
func SplitList(raw string) []string {
	var out []string
	for _, piece := range strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == '\n' }) {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
