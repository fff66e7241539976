package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_InitialStateIdle(t *testing.T) {
	c := NewCatalogUseCase(newFakeStore())

	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, c.Products())
	assert.False(t, c.Loading())
}

func TestCatalog_RefreshReplacesList(t *testing.T) {
	store := newFakeStore(product("a", "Hub", 10), product("b", "Sensor", 5))
	c := NewCatalogUseCase(store)

	state := c.Refresh(context.Background())
	require.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, 2, state.Count)

	store.set(func(f *fakeStore) { f.products = f.products[:1] })
	state = c.Refresh(context.Background())

	assert.Equal(t, PhaseReady, state.Phase)
	require.Len(t, c.Products(), 1)
	assert.Equal(t, "Hub", c.Products()[0].Name)
}

func TestCatalog_RefreshFailureKeepsList(t *testing.T) {
	store := newFakeStore(product("a", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())
	before := c.Products()

	store.set(func(f *fakeStore) { f.listErr = errBoom })
	state := c.Refresh(context.Background())

	assert.Equal(t, PhaseError, state.Phase)
	assert.Contains(t, state.Reason, "store unavailable")
	assert.Equal(t, before, c.Products())
	assert.Equal(t, PhaseError, c.State().Phase)
}

func TestCatalog_AddAppendsExactlyOne(t *testing.T) {
	store := newFakeStore(product("a", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	draft := product("", "Tracker", 49.5)
	draft.Tags = []string{"featured"}
	draft.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	id, state, err := c.Add(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, state.Phase)

	products := c.Products()
	require.Len(t, products, 2)

	got, ok := c.Get(id)
	require.True(t, ok)
	got.ID = ""
	assert.Equal(t, draft, got)
}

func TestCatalog_AddIgnoresDraftID(t *testing.T) {
	store := newFakeStore()
	c := NewCatalogUseCase(store)

	_, _, err := c.Add(context.Background(), product("forged", "Hub", 1))
	require.NoError(t, err)
	assert.Empty(t, store.receivedID)
	_, ok := c.Get("forged")
	assert.False(t, ok)
}

func TestCatalog_AddFailureDoesNotMutate(t *testing.T) {
	store := newFakeStore(product("a", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())
	before := c.Products()

	store.set(func(f *fakeStore) { f.createErr = errBoom })
	id, state, err := c.Add(context.Background(), product("", "Tracker", 1))

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, id)
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, before, c.Products())
	assert.Equal(t, 1, store.listCalls, "failed add must not trigger a refresh")
}

func TestCatalog_RemoveConfirmed(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10), product("Y", "Sensor", 5))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	state := c.Remove(context.Background(), "X")

	assert.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, 1, state.Count)
	_, ok := c.Get("X")
	assert.False(t, ok)
	_, ok = c.Get("Y")
	assert.True(t, ok)
}

func TestCatalog_RemoveFailureKeepsEntry(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	store.set(func(f *fakeStore) { f.deleteErr = errBoom })
	state := c.Remove(context.Background(), "X")

	assert.Equal(t, PhaseError, state.Phase)
	_, ok := c.Get("X")
	assert.True(t, ok)
	assert.Len(t, c.Products(), 1)
}

func TestCatalog_RemoveUnknownIDIsNoop(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	state := c.Remove(context.Background(), "missing")

	assert.Equal(t, PhaseReady, state.Phase)
	assert.Len(t, c.Products(), 1)
}

func TestCatalog_ReplaceRequiresID(t *testing.T) {
	c := NewCatalogUseCase(newFakeStore())

	_, err := c.Replace(context.Background(), product("", "Hub", 1))

	assert.True(t, IsValidationError(err))
}

func TestCatalog_ReplaceRefreshes(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	edited := product("X", "Hub v2", 12)
	state, err := c.Replace(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, state.Phase)

	got, ok := c.Get("X")
	require.True(t, ok)
	assert.Equal(t, "Hub v2", got.Name)
	assert.Equal(t, 12.0, got.Price)
}

func TestCatalog_ReplaceFailureKeepsList(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10))
	c := NewCatalogUseCase(store)
	require.True(t, c.Refresh(context.Background()).OK())

	store.set(func(f *fakeStore) { f.replaceErr = errBoom })
	state, err := c.Replace(context.Background(), product("X", "Hub v2", 12))

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, PhaseError, state.Phase)
	got, _ := c.Get("X")
	assert.Equal(t, "Hub", got.Name)
}

func TestCatalog_ProductsReturnsCopy(t *testing.T) {
	p := product("X", "Hub", 10)
	p.Features = []string{"zigbee"}
	c := NewCatalogUseCase(newFakeStore(p))
	require.True(t, c.Refresh(context.Background()).OK())

	list := c.Products()
	list[0].Name = "mutated"
	list[0].Features[0] = "mutated"

	got, _ := c.Get("X")
	assert.Equal(t, "Hub", got.Name)
	assert.Equal(t, []string{"zigbee"}, got.Features)
}

func TestCatalog_LoadingWhileRefreshInFlight(t *testing.T) {
	store := newFakeStore(product("X", "Hub", 10))
	c := NewCatalogUseCase(store)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.set(func(f *fakeStore) {
		f.listHook = func() {
			close(entered)
			<-release
		}
	})

	done := make(chan State)
	go func() { done <- c.Refresh(context.Background()) }()

	<-entered
	assert.True(t, c.Loading())
	assert.Equal(t, PhaseLoading, c.State().Phase)

	close(release)
	state := <-done
	assert.Equal(t, PhaseReady, state.Phase)
	assert.False(t, c.Loading())
	assert.Equal(t, PhaseReady, c.State().Phase)
}

func TestCatalog_OverlappingRefreshesLastWriteWins(t *testing.T) {
	store := newFakeStore(product("old", "Old", 1))
	c := NewCatalogUseCase(store)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once
	store.set(func(f *fakeStore) {
		f.listHook = func() {
			blocked := false
			once.Do(func() { blocked = true })
			if blocked {
				close(firstEntered)
				<-releaseFirst
			}
		}
	})

	firstDone := make(chan State)
	go func() { firstDone <- c.Refresh(context.Background()) }()
	<-firstEntered

	// Ikkinchi refresh yangi ma'lumotni ko'radi va birinchi tugaydi
	store.set(func(f *fakeStore) { f.products = append(f.products, product("new", "New", 2)) })
	second := c.Refresh(context.Background())
	assert.Equal(t, 2, second.Count)
	assert.True(t, c.Loading(), "first refresh still in flight")
	assert.Equal(t, PhaseLoading, c.State().Phase)

	// Birinchisi eski javob bilan qaytadi, lekin o'sha paytdagi store ni o'qiydi
	store.set(func(f *fakeStore) { f.products = f.products[:1] })
	close(releaseFirst)
	first := <-firstDone

	assert.Equal(t, 1, first.Count)
	assert.False(t, c.Loading())
	assert.Len(t, c.Products(), 1, "last completed refresh overwrites the list")
	assert.Equal(t, PhaseReady, c.State().Phase)
}
