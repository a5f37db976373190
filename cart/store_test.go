package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

func init() {
	utils.InitLogger()
}

func testMenu() models.Menu {
	return models.Menu{
		ID:                 1,
		Nama:               "Nasi Goreng Spesial",
		Harga:              25000,
		IsAvailable:        true,
		DiscountPercentage: 10,
	}
}

func testVariasi() *models.MenuVariasi {
	return &models.MenuVariasi{
		ID:            7,
		MenuID:        1,
		Nama:          "Porsi Jumbo",
		HargaTambahan: 5000,
	}
}

func TestAddItemSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	line, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)
	assert.Equal(t, int64(30000), line.OriginalPrice)
	assert.Equal(t, int64(3000), line.DiscountAmount)
	assert.Equal(t, int64(27000), line.FinalPrice)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItemMergesSameCompositeKey(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	_, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)
	line, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)

	// Satu baris qty 2, bukan dua baris
	assert.Equal(t, 2, line.Quantity)
	lines, err := store.Lines(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddItemDifferentVariasiCreatesNewLine(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	_, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)
	_, err = store.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)

	lines, err := store.Lines(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddItemKeepsSnapshotWhenMenuChanges(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	menu := testMenu()
	_, err := store.AddItem(ctx, menu, nil)
	assert.NoError(t, err)

	// Harga menu berubah di tengah sesi; qty naik tapi snapshot tetap
	menu.Harga = 99000
	line, err := store.AddItem(ctx, menu, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(25000), line.BasePrice)
}

func TestAddItemRejectsUnavailableMenu(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	menu := testMenu()
	menu.IsAvailable = false
	_, err := store.AddItem(ctx, menu, nil)
	assert.ErrorIs(t, err, cart.ErrMenuNotAvailable)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	line, err := store.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)

	err = store.UpdateQuantity(ctx, line.LineID, 0)
	assert.NoError(t, err)

	lines, err := store.Lines(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	line, err := store.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)

	err = store.UpdateQuantity(ctx, line.LineID, 5)
	assert.NoError(t, err)

	lines, err := store.Lines(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 5, lines[0].Quantity)

	err = store.UpdateQuantity(ctx, "tidak-ada", 2)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := cart.NewMemoryKV()
	store := cart.NewStore(kv, 1)

	_, err := store.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)
	assert.NoError(t, store.Clear(ctx))

	lines, err := store.Lines(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartPersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	kv := cart.NewMemoryKV()

	store := cart.NewStore(kv, 1)
	_, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)

	// Store baru di atas KV yang sama = restart aplikasi
	reopened := cart.NewStore(kv, 1)
	lines, err := reopened.Lines(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, int64(27000), lines[0].FinalPrice)
}

func TestCartNamespacedPerToko(t *testing.T) {
	ctx := context.Background()
	kv := cart.NewMemoryKV()

	storeA := cart.NewStore(kv, 1)
	_, err := storeA.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)

	storeB := cart.NewStore(kv, 2)
	lines, err := storeB.Lines(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTotalsWithGlobalDiscount(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	_, err := store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)
	_, err = store.AddItem(ctx, testMenu(), testVariasi())
	assert.NoError(t, err)

	totals, err := store.Totals(ctx, models.GlobalDiscount{Enabled: true, Percentage: 5})
	assert.NoError(t, err)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, int64(54000), totals.SubtotalFinal)
	assert.Equal(t, int64(60000), totals.SubtotalOriginal)
	assert.Equal(t, int64(6000), totals.TotalItemDiscount)
	assert.Equal(t, int64(2700), totals.GlobalDiscountAmount)
	assert.Equal(t, int64(51300), totals.SubtotalAfterGlobal)
}

func TestTotalsGlobalDiscountDisabled(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMemoryKV(), 1)

	_, err := store.AddItem(ctx, testMenu(), nil)
	assert.NoError(t, err)

	totals, err := store.Totals(ctx, models.GlobalDiscount{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), totals.GlobalDiscountAmount)
	assert.Equal(t, totals.SubtotalFinal, totals.SubtotalAfterGlobal)
}
