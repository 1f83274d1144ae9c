package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BeamCut/internal/model"
)

func openMemory(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { inv.Close() })
	return inv
}

func seed(t *testing.T, inv *Inventory) map[string]model.StockItem {
	t.Helper()
	ctx := context.Background()
	items := map[string]model.StockItem{}
	for _, s := range []struct {
		key       string
		profile   string
		length    int
		harvested bool
		price     string
	}{
		{"a", "HEA 300", 6000, true, "420.50"},
		{"b", "hea300", 8000, false, "610"},
		{"c", "IPE 200", 4000, true, "75"},
		{"d", "IPE 200", 6000, true, "110"},
	} {
		item, err := inv.Add(ctx, model.NewStockItem(s.profile, s.length, s.harvested, decimal.RequireFromString(s.price)))
		require.NoError(t, err)
		items[s.key] = item
	}
	return items
}

func TestAddAndGet(t *testing.T) {
	inv := openMemory(t)
	ctx := context.Background()

	in := model.NewStockItem("hea-300", 6000, true, decimal.RequireFromString("420.50"))
	in.OriginBuilding = "Hal A"
	in.Location = "Rek 4"
	in.Certified = true

	stored, err := inv.Add(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "HEA 300", stored.ProfileName)

	got, err := inv.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "HEA 300", got.ProfileName)
	assert.Equal(t, 6000, got.Length)
	assert.True(t, got.Harvested)
	assert.True(t, got.Certified)
	assert.Equal(t, "Hal A", got.OriginBuilding)
	assert.Equal(t, "Rek 4", got.Location)
	assert.Equal(t, model.StockAvailable, got.Status)
	assert.True(t, got.SalePrice.Equal(decimal.RequireFromString("420.5")))
	assert.True(t, got.AddedAt.Equal(in.AddedAt))
}

func TestAddFillsDefaults(t *testing.T) {
	inv := openMemory(t)
	item, err := inv.Add(context.Background(), model.StockItem{ProfileName: "IPE 200", Length: 3000})
	require.NoError(t, err)
	assert.Len(t, item.ID, 8)
	assert.Equal(t, model.StockAvailable, item.Status)
	assert.False(t, item.AddedAt.IsZero())
}

func TestAddRejectsNonPositiveLength(t *testing.T) {
	inv := openMemory(t)
	_, err := inv.Add(context.Background(), model.StockItem{ProfileName: "IPE 200"})
	assert.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	inv := openMemory(t)
	_, err := inv.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	inv := openMemory(t)
	items := seed(t, inv)
	ctx := context.Background()

	require.NoError(t, inv.Remove(ctx, items["a"].ID))
	_, err := inv.Get(ctx, items["a"].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, inv.Remove(ctx, items["a"].ID), ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	inv := openMemory(t)
	items := seed(t, inv)
	ctx := context.Background()

	require.NoError(t, inv.SetStatus(ctx, items["b"].ID, model.StockReserved))
	got, err := inv.Get(ctx, items["b"].ID)
	require.NoError(t, err)
	assert.Equal(t, model.StockReserved, got.Status)

	assert.Error(t, inv.SetStatus(ctx, items["b"].ID, "lost"))
	assert.ErrorIs(t, inv.SetStatus(ctx, "nope", model.StockSold), ErrNotFound)
}

func TestFindByProfile(t *testing.T) {
	inv := openMemory(t)
	items := seed(t, inv)
	ctx := context.Background()

	all, err := inv.FindByProfile(ctx, "HEA300", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 8000, all[0].Length, "longest first")

	require.NoError(t, inv.SetStatus(ctx, items["b"].ID, model.StockSold))
	avail, err := inv.FindByProfile(ctx, "HEA 300", true)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, items["a"].ID, avail[0].ID)

	none, err := inv.FindByProfile(ctx, "UNP 100", true)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByLength(t *testing.T) {
	inv := openMemory(t)
	seed(t, inv)
	ctx := context.Background()

	hits, err := inv.FindByLength(ctx, 5000, 7000, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, 6000, h.Length)
	}

	hits, err = inv.FindByLength(ctx, 5000, 0, "IPE 200")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "IPE 200", hits[0].ProfileName)
}

func TestTotals(t *testing.T) {
	inv := openMemory(t)
	items := seed(t, inv)
	ctx := context.Background()
	require.NoError(t, inv.SetStatus(ctx, items["c"].ID, model.StockSold))

	totals, err := inv.Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	hea := totals[0]
	assert.Equal(t, "HEA 300", hea.ProfileName)
	assert.Equal(t, 2, hea.Count)
	assert.Equal(t, 14000, hea.LengthMM)
	assert.InDelta(t, 14*88.3, hea.WeightKg, 1e-6)
	assert.True(t, hea.Value.Equal(decimal.RequireFromString("1030.5")))

	ipe := totals[1]
	assert.Equal(t, "IPE 200", ipe.ProfileName)
	assert.Equal(t, 1, ipe.Count)
	assert.InDelta(t, 6*22.4, ipe.WeightKg, 1e-6)
}

func TestOpenFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.db")
	ctx := context.Background()

	inv, err := Open(path, nil)
	require.NoError(t, err)
	item, err := inv.Add(ctx, model.NewStockItem("HEB 200", 7000, true, decimal.NewFromInt(300)))
	require.NoError(t, err)
	require.NoError(t, inv.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7000, got.Length)
}
