package inventory

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "password"

	// idsExhausted is never handed out; a counter holding it has no ids left.
	idsExhausted = math.MaxUint32
)

type Product struct {
	ID          uint32  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Quantity    int32   `json:"quantity" yaml:"quantity"`
}

// ProductPatch carries the fields EditProduct should overwrite; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int32
}

type Purchase struct {
	ID            uint32    `json:"id" yaml:"id"`
	ProductID     uint32    `json:"product_id" yaml:"product_id"`
	Quantity      int32     `json:"quantity" yaml:"quantity"`
	PurchasePrice float64   `json:"purchase_price" yaml:"purchase_price"`
	Time          time.Time `json:"time" yaml:"time"`
}

func (p Purchase) Total() float64 { return p.PurchasePrice * float64(p.Quantity) }

type Sale struct {
	ID        uint32    `json:"id" yaml:"id"`
	ProductID uint32    `json:"product_id" yaml:"product_id"`
	Quantity  int32     `json:"quantity" yaml:"quantity"`
	SalePrice float64   `json:"sale_price" yaml:"sale_price"`
	Time      time.Time `json:"time" yaml:"time"`
}

func (s Sale) Total() float64 { return s.SalePrice * float64(s.Quantity) }

// Store owns the catalog, both ledgers and the manager list. All mutation goes through it.
type Store struct {
	mu sync.RWMutex

	products  []Product
	sales     []Sale
	purchases []Purchase
	managers  []Manager

	nextProductID  uint32
	nextSaleID     uint32
	nextPurchaseID uint32

	log         *zap.Logger
	now         func() time.Time
	hashCost    int
	defaultUser string
	defaultPass string
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHashCost sets the bcrypt cost used for manager passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// WithDefaultManager overrides the credential seeded into a store that has no managers.
func WithDefaultManager(username, password string) Option {
	return func(s *Store) {
		if username != "" {
			s.defaultUser = username
		}
		if password != "" {
			s.defaultPass = password
		}
	}
}

func newEmpty(opts []Option) *Store {
	s := &Store{
		products:       []Product{},
		sales:          []Sale{},
		purchases:      []Purchase{},
		managers:       []Manager{},
		nextProductID:  1,
		nextSaleID:     1,
		nextPurchaseID: 1,
		log:            zap.NewNop(),
		now:            func() time.Time { return time.Now().UTC() },
		hashCost:       bcrypt.DefaultCost,
		defaultUser:    DefaultAdminUser,
		defaultPass:    DefaultAdminPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns an empty store seeded with the default manager.
func New(opts ...Option) (*Store, error) {
	s := newEmpty(opts)
	if err := s.seedDefaultManager(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seedDefaultManager() error {
	if len(s.managers) > 0 {
		return nil
	}
	if err := s.AddManager(s.defaultUser, s.defaultPass); err != nil {
		return fmt.Errorf("seed default manager: %w", err)
	}
	s.log.Warn("seeded default manager", zap.String("username", s.defaultUser))
	return nil
}

// AddProduct appends a product under the next product id. It fails only once the
// id space is used up.
func (s *Store) AddProduct(name, description string, price float64, quantity int32) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextProductID == idsExhausted {
		return Product{}, errIDsExhausted("product")
	}

	p := Product{
		ID:          s.nextProductID,
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
	s.nextProductID++
	s.products = append(s.products, p)

	s.log.Debug("product added", zap.Uint32("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *Store) EditProduct(id uint32, patch ProductPatch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, notFound(id)
	}

	p := &s.products[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}

	s.log.Debug("product edited", zap.Uint32("product_id", id))
	return *p, nil
}

// DeleteProduct removes the product but keeps every ledger entry that references it.
func (s *Store) DeleteProduct(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.products = slices.Delete(s.products, i, i+1)

	s.log.Debug("product deleted", zap.Uint32("product_id", id))
	return nil
}

func (s *Store) RecordPurchase(productID uint32, quantity int32, unitPrice float64) (Purchase, error) {
	if quantity <= 0 {
		return Purchase{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextPurchaseID == idsExhausted {
		return Purchase{}, errIDsExhausted("purchase")
	}
	i := s.indexOf(productID)
	if i < 0 {
		return Purchase{}, notFound(productID)
	}
	p := &s.products[i]
	if p.Quantity > math.MaxInt32-quantity {
		return Purchase{}, fmt.Errorf("%w: quantity overflow for %s", ErrInvalidInput, p.Name)
	}
	p.Quantity += quantity

	pur := Purchase{
		ID:            s.nextPurchaseID,
		ProductID:     productID,
		Quantity:      quantity,
		PurchasePrice: unitPrice,
		Time:          s.now(),
	}
	s.nextPurchaseID++
	s.purchases = append(s.purchases, pur)

	s.log.Debug("purchase recorded",
		zap.Uint32("purchase_id", pur.ID),
		zap.Uint32("product_id", productID),
		zap.Int32("qty", quantity),
	)
	return pur, nil
}

func (s *Store) RecordSale(productID uint32, quantity int32, unitPrice float64) (Sale, error) {
	if quantity <= 0 {
		return Sale{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextSaleID == idsExhausted {
		return Sale{}, errIDsExhausted("sale")
	}
	i := s.indexOf(productID)
	if i < 0 {
		return Sale{}, notFound(productID)
	}
	p := &s.products[i]
	if p.Quantity < quantity {
		s.log.Info("sale rejected",
			zap.Uint32("product_id", productID),
			zap.Int32("qty", quantity),
			zap.Int32("stock", p.Quantity),
		)
		return Sale{}, fmt.Errorf("%w: %s has only %d in stock", ErrInsufficientStock, p.Name, p.Quantity)
	}
	p.Quantity -= quantity

	sale := Sale{
		ID:        s.nextSaleID,
		ProductID: productID,
		Quantity:  quantity,
		SalePrice: unitPrice,
		Time:      s.now(),
	}
	s.nextSaleID++
	s.sales = append(s.sales, sale)

	s.log.Debug("sale recorded",
		zap.Uint32("sale_id", sale.ID),
		zap.Uint32("product_id", productID),
		zap.Int32("qty", quantity),
	)
	return sale, nil
}

func (s *Store) TotalSales() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, sale := range s.sales {
		total += sale.Total()
	}
	return total
}

func (s *Store) TotalPurchasesCost() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, p := range s.purchases {
		total += p.Total()
	}
	return total
}

func (s *Store) Profit() float64 {
	return s.TotalSales() - s.TotalPurchasesCost()
}

func (s *Store) FindProduct(id uint32) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Sales() []Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sales)
}

func (s *Store) Purchases() []Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.purchases)
}

// caller holds mu
func (s *Store) indexOf(id uint32) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
