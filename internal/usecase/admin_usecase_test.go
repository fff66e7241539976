package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"github.com/yourusername/catalog-admin/internal/infrastructure/storage"
)

type fakeSheet struct {
	rows     []repository.SheetRow
	exported []entity.Product
}

func (s *fakeSheet) ParseRows(ctx context.Context, data []byte) ([]repository.SheetRow, error) {
	return s.rows, nil
}

func (s *fakeSheet) Export(ctx context.Context, products []entity.Product) ([]byte, error) {
	s.exported = products
	return []byte("xlsx"), nil
}

const testAdminID int64 = 42

func newTestAdmin(t *testing.T, store *fakeStore, sheet *fakeSheet) (AdminUseCase, CatalogUseCase) {
	t.Helper()
	catalog := NewCatalogUseCase(store)
	require.True(t, catalog.Refresh(context.Background()).OK())
	admin := NewAdminUseCase("secret", storage.NewMemoryAdminRepository(0), catalog, sheet)
	return admin, catalog
}

func TestAdmin_Login(t *testing.T) {
	admin, _ := newTestAdmin(t, newFakeStore(), &fakeSheet{})
	ctx := context.Background()

	ok, err := admin.Login(ctx, testAdminID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	isAdmin, _ := admin.IsAdmin(ctx, testAdminID)
	assert.False(t, isAdmin)

	ok, err = admin.Login(ctx, testAdminID, "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	isAdmin, _ = admin.IsAdmin(ctx, testAdminID)
	assert.True(t, isAdmin)

	require.NoError(t, admin.Logout(ctx, testAdminID))
	isAdmin, _ = admin.IsAdmin(ctx, testAdminID)
	assert.False(t, isAdmin)
}

func TestAdmin_EmptyPasswordLocksEveryoneOut(t *testing.T) {
	catalog := NewCatalogUseCase(newFakeStore())
	admin := NewAdminUseCase("", storage.NewMemoryAdminRepository(0), catalog, &fakeSheet{})

	ok, err := admin.Login(context.Background(), testAdminID, "")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdmin_RequiresSession(t *testing.T) {
	admin, catalog := newTestAdmin(t, newFakeStore(product("X", "Hub", 1)), &fakeSheet{})
	ctx := context.Background()

	_, err := admin.ImportCatalog(ctx, testAdminID, nil, "a.xlsx")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = admin.ExportCatalog(ctx, testAdminID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = admin.DeleteProduct(ctx, testAdminID, "X")
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Len(t, catalog.Products(), 1)

	_, err = admin.RecentActions(ctx, testAdminID, 10)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestAdmin_ImportCatalog(t *testing.T) {
	sheet := &fakeSheet{rows: []repository.SheetRow{
		{Line: 2, Fields: map[string]string{
			"name":     "Smart Plug",
			"price":    "19.90",
			"stock":    "abc",
			"category": "smart-home",
			"images":   "https://cdn.example.com/plug.png|https://cdn.example.com/plug2.png",
			"features": "Wi-Fi\nEnergy metering",
			"tags":     "Featured|new arrival",
			"variants": "Plug: EU, US; Color: White",
		}},
		{Line: 3, Fields: map[string]string{"name": "", "price": "5"}},
		{Line: 4, Fields: map[string]string{"name": "Bad image", "images": "ftp://x"}},
		{Line: 5, Fields: map[string]string{"name": "Bad variant", "variants": "Color"}},
		{Line: 6, Fields: map[string]string{"name": "Tracker", "price": "-3"}},
	}}
	store := newFakeStore()
	admin, catalog := newTestAdmin(t, store, sheet)
	ctx := context.Background()
	_, err := admin.Login(ctx, testAdminID, "secret")
	require.NoError(t, err)

	result, err := admin.ImportCatalog(ctx, testAdminID, []byte("ignored"), "catalog.xlsx")
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	lines := make([]int, 0, len(result.Failed))
	for _, issue := range result.Failed {
		assert.True(t, IsValidationError(issue.Err), "line %d: %v", issue.Line, issue.Err)
		lines = append(lines, issue.Line)
	}
	assert.Equal(t, []int{3, 4, 5, 6}, lines)

	got, ok := catalog.Get(result.Created[0])
	require.True(t, ok)
	assert.Equal(t, "Smart Plug", got.Name)
	assert.Equal(t, 19.9, got.Price)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, entity.CategorySmartHome, got.Category)
	assert.Equal(t, []string{"https://cdn.example.com/plug.png", "https://cdn.example.com/plug2.png"}, got.Images)
	assert.Equal(t, []string{"Wi-Fi", "Energy metering"}, got.Features)
	assert.Equal(t, []string{"featured", "new arrival"}, got.Tags)
	assert.Equal(t, []entity.VariantGroup{
		{Name: "Plug", Options: []string{"EU", "US"}},
		{Name: "Color", Options: []string{"White"}},
	}, got.Variants)
	assert.Equal(t, entity.StatusDraft, got.Status)
}

func TestAdmin_ImportEmptySheet(t *testing.T) {
	admin, _ := newTestAdmin(t, newFakeStore(), &fakeSheet{})
	ctx := context.Background()
	_, _ = admin.Login(ctx, testAdminID, "secret")

	_, err := admin.ImportCatalog(ctx, testAdminID, nil, "empty.xlsx")

	assert.Error(t, err)
}

func TestAdmin_ExportAndDeleteAreLogged(t *testing.T) {
	sheet := &fakeSheet{}
	admin, catalog := newTestAdmin(t, newFakeStore(product("X", "Hub", 1), product("Y", "Sensor", 2)), sheet)
	ctx := context.Background()
	_, _ = admin.Login(ctx, testAdminID, "secret")

	data, err := admin.ExportCatalog(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Len(t, sheet.exported, 2)

	state, err := admin.DeleteProduct(ctx, testAdminID, "X")
	require.NoError(t, err)
	assert.True(t, state.OK())
	assert.Len(t, catalog.Products(), 1)

	admin.RecordSubmit(ctx, testAdminID, "Z", "Gateway")

	actions, err := admin.RecentActions(ctx, testAdminID, 10)
	require.NoError(t, err)
	require.Len(t, actions, 4)
	assert.Equal(t, entity.ActionSubmitProduct, actions[0].Action)
	assert.Equal(t, entity.ActionDeleteProduct, actions[1].Action)
	assert.Equal(t, entity.ActionExportCatalog, actions[2].Action)
	assert.Equal(t, entity.ActionLogin, actions[3].Action)
}

func TestAdmin_DeleteFailureIsNotLogged(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 1))
	admin, catalog := newTestAdmin(t, store, &fakeSheet{})
	ctx := context.Background()
	_, _ = admin.Login(ctx, testAdminID, "secret")
	store.set(func(f *fakeStore) { f.deleteErr = errBoom })

	state, err := admin.DeleteProduct(ctx, testAdminID, "X")

	require.NoError(t, err)
	assert.False(t, state.OK())
	assert.Len(t, catalog.Products(), 1)
	actions, _ := admin.RecentActions(ctx, testAdminID, 10)
	require.Len(t, actions, 1)
	assert.Equal(t, entity.ActionLogin, actions[0].Action)
}

func TestSplitListAndVariantColumn(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList(" a |b\n\nc| "))
	assert.Nil(t, SplitList(""))

	variants := []entity.VariantGroup{{Name: "Color", Options: []string{"Red", "Blue"}}, {Name: "Size", Options: []string{"S"}}}
	formatted := "Color: Red, Blue; Size: S"

	c := NewProductComposer(NewCatalogUseCase(newFakeStore()))
	require.NoError(t, ApplyRow(c, map[string]string{"name": "Hub", "variants": formatted}))
	assert.Equal(t, variants, c.Draft().Variants)
}
