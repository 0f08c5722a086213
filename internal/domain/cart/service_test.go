package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/catalog"
)

type fakeCatalog struct {
	items map[string]catalog.Item
}

func (f *fakeCatalog) Item(ctx context.Context, id string) (*catalog.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	return &item, nil
}

func (f *fakeCatalog) Items(ctx context.Context) ([]catalog.Item, error) {
	items := make([]catalog.Item, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func newTestService() *Service {
	provider := &fakeCatalog{items: map[string]catalog.Item{
		"hoodie-acid": {
			ID:     "hoodie-acid",
			Name:   "Acid Wash Hoodie",
			Price:  8999, // 89.99
			Sizes:  []string{"S", "M", "L"},
			Colors: []string{"black", "purple"},
		},
		"tee-melt": {
			ID:     "tee-melt",
			Name:   "Melting Logo Tee",
			Price:  2450,
			Sizes:  []string{"M", "L"},
			Colors: []string{"white"},
		},
	}}

	cfg := &config.Config{}
	cfg.Checkout.CartTTL = 7 * 24 * time.Hour

	return NewService(NewMemoryStore(), provider, cfg)
}

func TestAddNewLine(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].Quantity)
	assert.Equal(t, "Acid Wash Hoodie", resp.Lines[0].Name)
	assert.Equal(t, int64(8999), resp.Lines[0].Price)
	assert.Equal(t, int64(8999), resp.Totals.Subtotal)
}

func TestAddSameKeyIncrementsQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)
	resp, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1, "same key must never produce a second line")
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, int64(17998), resp.Totals.Subtotal)
}

func TestAddDifferentVariantsAreDistinctLines(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "L", Color: "black"})
	require.NoError(t, err)
	resp, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "purple"})
	require.NoError(t, err)

	assert.Len(t, resp.Lines, 3)
	assert.Equal(t, 3, resp.Totals.TotalQuantity)
}

func TestAddRejectsUnofferedSelection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "tee-melt", Size: "XS", Color: "neon"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"size", "color"}, ve.Fields)

	// Nothing should have been persisted
	resp, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newTestService()

	_, err := svc.Add(context.Background(), "sess-1", &AddRequest{ProductID: "nope", Size: "M", Color: "black"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "sess-1", "hoodie-acid", &UpdateRequest{Size: "M", Color: "black", Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)

	// Negative behaves the same way
	_, err = svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)
	resp, err = svc.UpdateQuantity(ctx, "sess-1", "hoodie-acid", &UpdateRequest{Size: "M", Color: "black", Quantity: -3})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestUpdateQuantityMissingKeyIsNoOp(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "sess-1", "hoodie-acid", &UpdateRequest{Size: "S", Color: "purple", Quantity: 5})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].Quantity, "other lines must be untouched")
}

func TestRemoveThenEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "tee-melt", Size: "M", Color: "white"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "sess-1", &AddRequest{ProductID: "tee-melt", Size: "M", Color: "white"})
	require.NoError(t, err)

	resp, err := svc.Remove(ctx, "sess-1", "tee-melt", "M", "white")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, int64(0), resp.Totals.Subtotal)
}

func TestTotalsIndependentOfInsertionOrder(t *testing.T) {
	ctx := context.Background()

	svcA := newTestService()
	_, err := svcA.Add(ctx, "s", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)
	_, err = svcA.Add(ctx, "s", &AddRequest{ProductID: "tee-melt", Size: "L", Color: "white"})
	require.NoError(t, err)

	svcB := newTestService()
	_, err = svcB.Add(ctx, "s", &AddRequest{ProductID: "tee-melt", Size: "L", Color: "white"})
	require.NoError(t, err)
	_, err = svcB.Add(ctx, "s", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	respA, err := svcA.Get(ctx, "s")
	require.NoError(t, err)
	respB, err := svcB.Get(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, respA.Totals.Subtotal, respB.Totals.Subtotal)
	assert.Equal(t, respA.Totals.TotalQuantity, respB.Totals.TotalQuantity)
}

func TestCartSurvivesReload(t *testing.T) {
	store := NewMemoryStore()
	provider := &fakeCatalog{items: map[string]catalog.Item{
		"hoodie-acid": {ID: "hoodie-acid", Name: "Acid Wash Hoodie", Price: 8999, Sizes: []string{"M"}, Colors: []string{"black"}},
	}}
	cfg := &config.Config{}
	cfg.Checkout.CartTTL = time.Hour

	ctx := context.Background()
	svc := NewService(store, provider, cfg)
	_, err := svc.Add(ctx, "sess-9", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	// A fresh service over the same store sees the identical document
	fresh := NewService(store, provider, cfg)
	resp, err := fresh.Get(ctx, "sess-9")
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "hoodie-acid", resp.Lines[0].ProductID)
	assert.Equal(t, int64(8999), resp.Totals.Subtotal)
}

func TestClear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "sess-1"))

	resp, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-a", &AddRequest{ProductID: "hoodie-acid", Size: "M", Color: "black"})
	require.NoError(t, err)

	resp, err := svc.Get(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}
