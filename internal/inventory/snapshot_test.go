package inventory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func populated(t *testing.T) *Store {
	t.Helper()

	s := newTestStore(t)
	w := mustAddProduct(t, s, "Widget", "blue", 5.0, 10)
	g := mustAddProduct(t, s, "Gadget", "red", 2.5, 1)
	_, err := s.RecordPurchase(g.ID, 3, 1.25)
	require.NoError(t, err)
	_, err = s.RecordSale(w.ID, 4, 7.0)
	require.NoError(t, err)
	require.NoError(t, s.DeleteProduct(g.ID))
	require.NoError(t, s.AddManager("clerk", "pw"))
	return s
}

func loadOpts() []Option {
	return []Option{WithHashCost(bcrypt.MinCost)}
}

func TestFileRoundTrip(t *testing.T) {
	for _, name := range []string{"store_data.json", "store_data.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			s := populated(t)

			require.NoError(t, s.SaveToFile(path))

			loaded, err := LoadFromFile(path, loadOpts()...)
			require.NoError(t, err)

			assert.Equal(t, s.Snapshot(), loaded.Snapshot())
			assert.True(t, loaded.Authenticate("clerk", "pw"))
			assert.True(t, loaded.Authenticate(DefaultAdminUser, DefaultAdminPassword))
		})
	}
}

func TestFileRoundTripInitialState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_data.json")
	s := newTestStore(t)

	require.NoError(t, s.SaveToFile(path))
	loaded, err := LoadFromFile(path, loadOpts()...)
	require.NoError(t, err)

	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
	assert.Len(t, loaded.Managers(), 1)
}

func TestLoadMissingFileReturnsFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	s, err := LoadFromFile(path, loadOpts()...)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.Products)
	assert.Equal(t, uint32(1), snap.NextProductID)
	assert.Equal(t, uint32(1), snap.NextSaleID)
	assert.Equal(t, uint32(1), snap.NextPurchaseID)
	assert.True(t, s.Authenticate(DefaultAdminUser, DefaultAdminPassword))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadFromFile(path, loadOpts()...)
	require.ErrorIs(t, err, ErrIO)
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store_data.json")
	s := newTestStore(t)

	require.NoError(t, s.SaveToFile(path))
	mustAddProduct(t, s, "Later", "", 1, 1)
	require.NoError(t, s.SaveToFile(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	loaded, err := LoadFromFile(path, loadOpts()...)
	require.NoError(t, err)
	assert.Len(t, loaded.Products(), 1)
}

func TestSaveToMissingDirectory(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveToFile(filepath.Join(t.TempDir(), "nope", "store_data.json"))
	require.ErrorIs(t, err, ErrIO)
}

func TestSnapshotFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_data.json")
	require.NoError(t, populated(t).SaveToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, k := range []string{"products", "sales", "purchases", "managers", "next_product_id", "next_sale_id", "next_purchase_id"} {
		assert.Contains(t, doc, k)
	}

	sale := doc["sales"].([]any)[0].(map[string]any)
	for _, k := range []string{"id", "product_id", "quantity", "sale_price", "time"} {
		assert.Contains(t, sale, k)
	}
}

func TestFromSnapshotRepairsCountersAndSeedsManager(t *testing.T) {
	s, err := FromSnapshot(Snapshot{
		Products: []Product{{ID: 4, Name: "x"}},
		Sales:    []Sale{{ID: 9, ProductID: 4, Quantity: 1}},
	}, loadOpts()...)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, uint32(5), snap.NextProductID)
	assert.Equal(t, uint32(10), snap.NextSaleID)
	assert.Equal(t, uint32(1), snap.NextPurchaseID)
	assert.True(t, s.Authenticate(DefaultAdminUser, DefaultAdminPassword))

	assert.Equal(t, uint32(5), mustAddProduct(t, s, "y", "", 1, 1).ID)
}

func TestFromSnapshotKeepsAheadCounters(t *testing.T) {
	s, err := FromSnapshot(Snapshot{NextProductID: 12, NextSaleID: 3, NextPurchaseID: 7}, loadOpts()...)
	require.NoError(t, err)

	assert.Equal(t, uint32(12), mustAddProduct(t, s, "z", "", 1, 1).ID)
}

func TestFromSnapshotRejectsExhaustedCounters(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "product counter", snap: Snapshot{NextProductID: idsExhausted}},
		{name: "sale counter", snap: Snapshot{NextSaleID: idsExhausted}},
		{name: "purchase counter", snap: Snapshot{NextPurchaseID: idsExhausted}},
		{name: "product id at limit", snap: Snapshot{Products: []Product{{ID: idsExhausted}}}},
		{name: "product id one below limit", snap: Snapshot{Products: []Product{{ID: idsExhausted - 1}}}},
		{name: "sale id at limit", snap: Snapshot{Sales: []Sale{{ID: idsExhausted}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap, loadOpts()...)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	rs := NewRedisStore(client, "shop-1")
	require.NoError(t, rs.Ping(ctx))

	fresh, err := Load(ctx, rs, loadOpts()...)
	require.NoError(t, err)
	assert.Empty(t, fresh.Products())

	s := populated(t)
	require.NoError(t, s.Save(ctx, rs))
	assert.True(t, mr.Exists(redisKeyPrefix+"shop-1"))

	loaded, err := Load(ctx, rs, loadOpts()...)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
}

func TestRedisCorruptSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	require.NoError(t, mr.Set(redisKeyPrefix+DefaultSnapshotKey, "garbage"))

	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	_, err = Load(context.Background(), NewRedisStore(client, ""), loadOpts()...)
	require.ErrorIs(t, err, ErrIO)
}
