package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Snapshot is the complete persisted form of a Store.
type Snapshot struct {
	Products       []Product  `json:"products" yaml:"products"`
	Sales          []Sale     `json:"sales" yaml:"sales"`
	Purchases      []Purchase `json:"purchases" yaml:"purchases"`
	Managers       []Manager  `json:"managers" yaml:"managers"`
	NextProductID  uint32     `json:"next_product_id" yaml:"next_product_id"`
	NextSaleID     uint32     `json:"next_sale_id" yaml:"next_sale_id"`
	NextPurchaseID uint32     `json:"next_purchase_id" yaml:"next_purchase_id"`
}

// SnapshotStore persists one snapshot, replacing the previous one on every write.
type SnapshotStore interface {
	Read(ctx context.Context) (Snapshot, error)
	Write(ctx context.Context, snap Snapshot) error
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Products:       cloneNonNil(s.products),
		Sales:          cloneNonNil(s.sales),
		Purchases:      cloneNonNil(s.purchases),
		Managers:       cloneNonNil(s.managers),
		NextProductID:  s.nextProductID,
		NextSaleID:     s.nextSaleID,
		NextPurchaseID: s.nextPurchaseID,
	}
}

// FromSnapshot rebuilds a store from snap. Counters that trail the highest stored id
// are moved past it, and a snapshot without managers gets the default one.
func FromSnapshot(snap Snapshot, opts ...Option) (*Store, error) {
	s := newEmpty(opts)

	s.products = cloneNonNil(snap.Products)
	s.sales = cloneNonNil(snap.Sales)
	s.purchases = cloneNonNil(snap.Purchases)
	s.managers = cloneNonNil(snap.Managers)

	var err error
	if s.nextProductID, err = nextID("product", snap.NextProductID, s.products, func(p Product) uint32 { return p.ID }); err != nil {
		return nil, err
	}
	if s.nextSaleID, err = nextID("sale", snap.NextSaleID, s.sales, func(v Sale) uint32 { return v.ID }); err != nil {
		return nil, err
	}
	if s.nextPurchaseID, err = nextID("purchase", snap.NextPurchaseID, s.purchases, func(v Purchase) uint32 { return v.ID }); err != nil {
		return nil, err
	}

	if err := s.seedDefaultManager(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Save(ctx context.Context, dst SnapshotStore) error {
	snap := s.Snapshot()
	if err := dst.Write(ctx, snap); err != nil {
		s.log.Error("save snapshot failed", zap.Error(err))
		return fmt.Errorf("%w: write snapshot: %w", ErrIO, err)
	}

	s.log.Info("snapshot saved",
		zap.Int("products", len(snap.Products)),
		zap.Int("sales", len(snap.Sales)),
		zap.Int("purchases", len(snap.Purchases)),
	)
	return nil
}

// Load reads the snapshot held by src. When src holds none, a fresh store is returned.
func Load(ctx context.Context, src SnapshotStore, opts ...Option) (*Store, error) {
	snap, err := src.Read(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return New(opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %w", ErrIO, err)
	}
	return FromSnapshot(snap, opts...)
}

func (s *Store) SaveToFile(path string) error {
	return s.Save(context.Background(), NewFileStore(path))
}

func LoadFromFile(path string, opts ...Option) (*Store, error) {
	return Load(context.Background(), NewFileStore(path), opts...)
}

func cloneNonNil[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// nextID picks the counter to resume from: at least stored, past every existing id,
// never 0. A snapshot that leaves no id to hand out is rejected.
func nextID[T any](kind string, stored uint32, items []T, id func(T) uint32) (uint32, error) {
	next := max(stored, 1)
	for _, it := range items {
		v := id(it)
		if v == idsExhausted {
			return 0, errIDsExhausted(kind)
		}
		if v >= next {
			next = v + 1
		}
	}
	if next == idsExhausted {
		return 0, errIDsExhausted(kind)
	}
	return next, nil
}
