// Package memory implements the repository interfaces over maps. It mimics
// the MySQL schema's constraints (foreign keys, cascading association
// deletes) closely enough for handler and service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jmehdipour/order-service/internal/db"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/repository"
)

type link struct{ orderID, productID int64 }

// Store holds every table. Set Fail to make all calls return that error.
type Store struct {
	mu        sync.Mutex
	customers map[int64]model.Customer
	products  map[int64]model.Product
	orders    map[int64]model.Order
	links     []link
	nextID    int64

	Fail error
}

func NewStore() *Store {
	return &Store{
		customers: map[int64]model.Customer{},
		products:  map[int64]model.Product{},
		orders:    map[int64]model.Order{},
	}
}

func (s *Store) Customers() *Customers { return &Customers{s} }
func (s *Store) Products() *Products   { return &Products{s} }
func (s *Store) Orders() *Orders       { return &Orders{s} }

// Links returns the number of association rows for the pair.
func (s *Store) Links(orderID, productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.links {
		if l == (link{orderID, productID}) {
			n++
		}
	}
	return n
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func sorted[T any](m map[int64]T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func mysqlErr(number uint16) error {
	return &mysql.MySQLError{Number: number, Message: "foreign key constraint fails"}
}

// ---- customers ----

type Customers struct{ s *Store }

var _ repository.CustomersRepository = (*Customers)(nil)

func (r *Customers) List(context.Context) ([]model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	return sorted(r.s.customers), nil
}

func (r *Customers) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *Customers) Create(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	c.ID = r.s.id()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *Customers) Update(_ context.Context, c model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.customers[c.ID]; ok {
		r.s.customers[c.ID] = c
	}
	return nil
}

func (r *Customers) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return false, r.s.Fail
	}
	if _, ok := r.s.customers[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.CustomerID == id {
			return false, mysqlErr(db.ErrNumRowIsReferenced)
		}
	}
	delete(r.s.customers, id)
	return true, nil
}

// ---- products ----

type Products struct{ s *Store }

var _ repository.ProductsRepository = (*Products)(nil)

func (r *Products) List(context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	return sorted(r.s.products), nil
}

func (r *Products) GetByID(_ context.Context, id int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Products) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r *Products) Update(_ context.Context, p model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.products[p.ID]; ok {
		r.s.products[p.ID] = p
	}
	return nil
}

func (r *Products) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return false, r.s.Fail
	}
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	r.s.dropLinks(func(l link) bool { return l.productID == id })
	return true, nil
}

func (s *Store) dropLinks(match func(link) bool) int {
	kept := s.links[:0]
	n := 0
	for _, l := range s.links {
		if match(l) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return n
}

// ---- orders ----

type Orders struct{ s *Store }

var _ repository.OrdersRepository = (*Orders)(nil)

func (r *Orders) List(context.Context) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	return sorted(r.s.orders), nil
}

func (r *Orders) GetByID(_ context.Context, id int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *Orders) Create(_ context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.customers[o.CustomerID]; !ok {
		return mysqlErr(db.ErrNumNoReferencedRow)
	}
	o.ID = r.s.id()
	r.s.orders[o.ID] = *o
	return nil
}

func (r *Orders) Update(_ context.Context, o model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.customers[o.CustomerID]; !ok {
		return mysqlErr(db.ErrNumNoReferencedRow)
	}
	if _, ok := r.s.orders[o.ID]; ok {
		r.s.orders[o.ID] = o
	}
	return nil
}

func (r *Orders) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return false, r.s.Fail
	}
	if _, ok := r.s.orders[id]; !ok {
		return false, nil
	}
	delete(r.s.orders, id)
	r.s.dropLinks(func(l link) bool { return l.orderID == id })
	return true, nil
}

func (r *Orders) ListByCustomer(_ context.Context, customerID int64) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []model.Order{}
	for _, o := range sorted(r.s.orders) {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *Orders) Products(_ context.Context, orderID int64) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []model.Product{}
	for _, l := range r.s.links {
		if l.orderID == orderID {
			out = append(out, r.s.products[l.productID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Orders) HasProduct(_ context.Context, orderID, productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return false, r.s.Fail
	}
	for _, l := range r.s.links {
		if l == (link{orderID, productID}) {
			return true, nil
		}
	}
	return false, nil
}

// AddProduct appends without a uniqueness check, like the real table.
func (r *Orders) AddProduct(_ context.Context, orderID, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	_, okO := r.s.orders[orderID]
	_, okP := r.s.products[productID]
	if !okO || !okP {
		return mysqlErr(db.ErrNumNoReferencedRow)
	}
	r.s.links = append(r.s.links, link{orderID, productID})
	return nil
}

func (r *Orders) RemoveProduct(_ context.Context, orderID, productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return false, r.s.Fail
	}
	n := r.s.dropLinks(func(l link) bool { return l == (link{orderID, productID}) })
	return n > 0, nil
}
