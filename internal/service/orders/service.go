package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/order-service/internal/events"
	"github.com/jmehdipour/order-service/internal/logger"
	"github.com/jmehdipour/order-service/internal/metrics"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/repository"
	"github.com/jmehdipour/order-service/internal/util"
	"go.uber.org/zap"
)

var (
	ErrInvalidIDs       = errors.New("invalid order id or product id")
	ErrAlreadyIncluded  = errors.New("product already included in order")
	ErrNotIncluded      = errors.New("product not included in order")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// Service owns order writes, the order/product association rules and the
// events emitted after each successful write.
type Service struct {
	orders    repository.OrdersRepository
	products  repository.ProductsRepository
	customers repository.CustomersRepository
	events    events.Publisher

	now func() time.Time
}

// New constructs the order service. A nil publisher disables events.
func New(
	ordersRepo repository.OrdersRepository,
	productsRepo repository.ProductsRepository,
	customersRepo repository.CustomersRepository,
	publisher events.Publisher,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		orders:    ordersRepo,
		products:  productsRepo,
		customers: customersRepo,
		events:    publisher,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}

// Get returns (nil, nil) for an unknown id.
func (s *Service) Get(ctx context.Context, id int64) (*model.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Create inserts the order as given. The customer is not looked up first;
// an unknown customer_id is rejected by the foreign key.
func (s *Service) Create(ctx context.Context, o *model.Order) error {
	if err := s.orders.Create(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	s.publish(ctx, model.EventOrderCreated, o.ID, o.CustomerID, 0)
	return nil
}

func (s *Service) Update(ctx context.Context, o model.Order) error {
	if err := s.orders.Update(ctx, o); err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	s.publish(ctx, model.EventOrderUpdated, o.ID, o.CustomerID, 0)
	return nil
}

// Delete reports whether the order existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.orders.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete order %d: %w", id, err)
	}
	if ok {
		s.publish(ctx, model.EventOrderDeleted, id, 0, 0)
	}
	return ok, nil
}

// resolve loads both ends of an association; either missing yields ErrInvalidIDs.
func (s *Service) resolve(ctx context.Context, orderID, productID int64) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	if o == nil || p == nil {
		return nil, ErrInvalidIDs
	}
	return o, nil
}

// AddProduct links a product to an order once; a second link is refused.
func (s *Service) AddProduct(ctx context.Context, orderID, productID int64) error {
	o, err := s.resolve(ctx, orderID, productID)
	if err != nil {
		return err
	}

	has, err := s.orders.HasProduct(ctx, orderID, productID)
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if has {
		return ErrAlreadyIncluded
	}

	if err := s.orders.AddProduct(ctx, orderID, productID); err != nil {
		return fmt.Errorf("add association: %w", err)
	}
	s.publish(ctx, model.EventOrderProductAdded, orderID, o.CustomerID, productID)
	return nil
}

// RemoveProduct unlinks a product; unlinking one that is not on the order is refused.
func (s *Service) RemoveProduct(ctx context.Context, orderID, productID int64) error {
	o, err := s.resolve(ctx, orderID, productID)
	if err != nil {
		return err
	}

	has, err := s.orders.HasProduct(ctx, orderID, productID)
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if !has {
		return ErrNotIncluded
	}

	if _, err := s.orders.RemoveProduct(ctx, orderID, productID); err != nil {
		return fmt.Errorf("remove association: %w", err)
	}
	s.publish(ctx, model.EventOrderProductRemoved, orderID, o.CustomerID, productID)
	return nil
}

func (s *Service) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *Service) OrderProducts(ctx context.Context, orderID int64) ([]model.Product, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return s.orders.Products(ctx, orderID)
}

// publish never fails the caller: the write it describes is already committed.
func (s *Service) publish(ctx context.Context, typ model.EventType, orderID, customerID, productID int64) {
	at := s.now().UTC()
	ev := model.OrderEvent{
		ID:         util.NewID(at),
		Type:       typ,
		OrderID:    orderID,
		CustomerID: customerID,
		ProductID:  productID,
		OccurredAt: at,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventsTotal.WithLabelValues("publish_failed").Inc()
		logger.Log.Warn("publish order event failed",
			zap.String("event_id", ev.ID),
			zap.String("type", typ.String()),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}
	metrics.EventsTotal.WithLabelValues("published").Inc()
}
