package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/infrastructure/storage"
	"github.com/yourusername/catalog-admin/internal/usecase"
)

func newComposer() *usecase.ProductComposer {
	return usecase.NewProductComposer(usecase.NewCatalogUseCase(storage.NewMemoryProductStore()))
}

func run(t *testing.T, c *usecase.ProductComposer, command, args string) string {
	t.Helper()
	reply, err := runComposerCommand(c, command, args)
	require.NoError(t, err, "/%s %s", command, args)
	return reply
}

func TestRunComposerCommand_BuildsDraft(t *testing.T) {
	c := newComposer()

	run(t, c, "set", "name Smart Plug Mini")
	run(t, c, "set", "sale_price 14.5")
	run(t, c, "set", "price 19.90")
	run(t, c, "set", "stock abc")
	run(t, c, "feature", "add Wi-Fi 2.4 GHz")
	run(t, c, "feature", "add")
	run(t, c, "feature", "set 2 Energy metering")
	run(t, c, "image", "https://cdn.example.com/plug.png")
	run(t, c, "variant", "name Plug type")
	run(t, c, "variant", "options EU, UK, EU")
	run(t, c, "variant", "add")
	run(t, c, "tag", "best seller on")

	d := c.Draft()
	assert.Equal(t, "Smart Plug Mini", d.Name)
	assert.Equal(t, 19.9, d.Price)
	assert.Equal(t, 14.5, d.SalePrice)
	assert.Equal(t, 0, d.Stock)
	assert.Equal(t, []string{"Wi-Fi 2.4 GHz", "Energy metering"}, d.Features)
	assert.Equal(t, []string{"https://cdn.example.com/plug.png"}, d.Images)
	assert.Equal(t, []entity.VariantGroup{{Name: "Plug type", Options: []string{"EU", "UK"}}}, d.Variants)
	assert.Equal(t, []string{entity.TagBestSeller}, d.Tags)

	id, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestRunComposerCommand_Removals(t *testing.T) {
	c := newComposer()
	run(t, c, "feature", "add A")
	run(t, c, "feature", "add B")
	run(t, c, "image", "https://a.example.com/1.png")
	run(t, c, "variant", "name Size")
	run(t, c, "variant", "options S")
	run(t, c, "variant", "add")
	run(t, c, "tag", "featured on")

	run(t, c, "feature", "rm 1")
	run(t, c, "rmimage", "1")
	run(t, c, "rmvariant", "1")
	run(t, c, "tag", "featured off")

	d := c.Draft()
	assert.Equal(t, []string{"B"}, d.Features)
	assert.Empty(t, d.Images)
	assert.Empty(t, d.Variants)
	assert.Empty(t, d.Tags)
}

func TestRunComposerCommand_Errors(t *testing.T) {
	tests := []struct {
		command string
		args    string
	}{
		{"set", "colour red"},
		{"feature", "set 1 nothing there"},
		{"feature", "rm 0"},
		{"feature", "explode"},
		{"image", "ftp://a.example.com/1.png"},
		{"rmimage", "x"},
		{"variant", "add"},
		{"variant", "rename"},
		{"rmvariant", "3"},
		{"tag", "featured"},
		{"tag", "clearance on"},
		{"tag", "featured maybe"},
		{"bogus", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command+" "+tt.args, func(t *testing.T) {
			c := newComposer()
			before := c.Draft()

			_, err := runComposerCommand(c, tt.command, tt.args)

			assert.Error(t, err)
			assert.Equal(t, before, c.Draft())
		})
	}
}

func TestRunComposerCommand_ImageRejectionKeepsInput(t *testing.T) {
	c := newComposer()

	_, err := runComposerCommand(c, "image", "  www.example.com/a.png ")

	require.Error(t, err)
	assert.Equal(t, "www.example.com/a.png", c.ImageInput())
}

func TestRunComposerCommand_EnumHint(t *testing.T) {
	c := newComposer()

	reply := run(t, c, "set", "category toys")
	assert.Contains(t, reply, "smart-home")

	reply = run(t, c, "set", "category wearables")
	assert.NotContains(t, reply, "⚠️")

	reply = run(t, c, "set", "status archived")
	assert.Contains(t, reply, "out_of_stock")
}

func TestParseTagArgs(t *testing.T) {
	tag, on, err := parseTagArgs("New Arrival ON")
	require.NoError(t, err)
	assert.Equal(t, entity.TagNewArrival, tag)
	assert.True(t, on)

	tag, on, err = parseTagArgs("featured -")
	require.NoError(t, err)
	assert.Equal(t, entity.TagFeatured, tag)
	assert.False(t, on)
}

func TestRenderDraft(t *testing.T) {
	c := newComposer()
	run(t, c, "set", "name Gateway")
	run(t, c, "set", "price 120")
	run(t, c, "variant", "name Band")

	out := renderDraft(c)

	assert.Contains(t, out, "name: Gateway")
	assert.Contains(t, out, "price: $120.00")
	assert.Contains(t, out, `Tayyorlanmoqda: "Band"`)
	assert.NotContains(t, out, "❗")

	require.NoError(t, c.Load(entity.Product{ID: "p9"}))
	out = renderDraft(c)
	assert.Contains(t, out, "p9")
	assert.Contains(t, out, "❗", "empty name is flagged")
}

func TestRenderProducts(t *testing.T) {
	products := make([]entity.Product, 0, 5)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		products = append(products, entity.Product{ID: "id-" + name, Name: name, Price: 1, Status: entity.StatusDraft})
	}
	state := usecase.State{Phase: usecase.PhaseReady, Count: 5}

	out := renderProducts(products, state, 3)

	assert.Contains(t, out, "Jami 5")
	assert.Contains(t, out, "id-c")
	assert.NotContains(t, out, "id-d")
	assert.Contains(t, out, "yana 2")

	assert.Contains(t, renderProducts(nil, usecase.State{Phase: usecase.PhaseIdle}, 3), "bo'sh")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", truncateString("hello", 10))
	assert.Equal(t, "he...", truncateString("hello world", 5))
	assert.Equal(t, 5, len([]rune(truncateString(strings.Repeat("ö", 10), 5))))
}
