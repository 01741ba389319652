// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/gorm"
)

// Service handles order persistence and assembly
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	catalog     *catalog.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, catalogService *catalog.Service) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		catalog:     catalogService,
	}
}

// PlaceOrderRequest represents checkout data
type PlaceOrderRequest struct {
	ShippingName    string `json:"shipping_name" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ShippingCity    string `json:"shipping_city" binding:"required"`
	ShippingPostal  string `json:"shipping_postal"`
	ShippingCountry string `json:"shipping_country"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	UserID *uint `form:"user_id"`
	Limit  int   `form:"limit,default=20"`
	Offset int   `form:"offset,default=0"`
}

// OrderItemDetail represents an order line joined to its current product row
// for display. Product is nil when the product has since been deleted; the
// snapshotted price and quantity remain authoritative either way.
type OrderItemDetail struct {
	OrderItem
	Product *catalog.Product `json:"product,omitempty"`
}

// OrderDetail represents an order header with its assembled line items
type OrderDetail struct {
	Order
	Items []OrderItemDetail `json:"items"`
}

// CreateOrder persists an order header from validated input and assigns its
// order number. Totals are the caller's responsibility.
func (s *Service) CreateOrder(o *Order) (*Order, error) {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.createOrderTx(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOrderItem persists one order line, called once per distinct cart line
// at checkout
func (s *Service) CreateOrderItem(item *OrderItem) (*OrderItem, error) {
	if err := s.db.Create(item).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return item, nil
}

// PlaceOrder turns the user's current cart into an order. In one transaction
// it snapshots every cart line into an order item at the current product
// price, decrements stock with the guarded atomic update, and clears the
// cart. Any failure rolls the whole checkout back.
func (s *Service) PlaceOrder(userID uint, req *PlaceOrderRequest) (*OrderDetail, error) {
	cartResponse, err := s.cartService.GetCart(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(cartResponse.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	o := Order{
		UserID:          userID,
		Total:           cartResponse.Subtotal,
		Status:          OrderStatusPending,
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPostal:  req.ShippingPostal,
		ShippingCountry: req.ShippingCountry,
		PaymentMethod:   req.PaymentMethod,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.createOrderTx(tx, &o); err != nil {
			return err
		}

		for _, line := range cartResponse.Items {
			item := OrderItem{
				OrderID:   o.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			if err := s.catalog.DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(o.ID)
}

// GetOrder returns an order header merged with its line items, each joined to
// its current product row
func (s *Service) GetOrder(id uint) (*OrderDetail, error) {
	var o Order
	if err := s.db.Where("id = ?", id).First(&o).Error; err != nil {
		return nil, errs.Translate(err)
	}

	details, err := s.assembleItems([]Order{o})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListOrders returns orders newest first, optionally filtered by user,
// paginated with limit/offset. Line items for the whole page are loaded with
// one IN query and grouped client-side rather than one query per order.
func (s *Service) ListOrders(req *OrderListRequest) ([]OrderDetail, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	query := s.db.Model(&Order{})
	if req.UserID != nil {
		query = query.Where("user_id = ?", *req.UserID)
	}

	var orders []Order
	err := query.
		Order("created_at DESC").
		Limit(req.Limit).
		Offset(req.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return s.assembleItems(orders)
}

// UpdateStatus sets an order's status by ID and returns the updated row. Any
// status string is accepted; transition rules live with the caller.
func (s *Service) UpdateStatus(id uint, status OrderStatus) (*Order, error) {
	result := s.db.Model(&Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrNotFound
	}

	var o Order
	if err := s.db.Where("id = ?", id).First(&o).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &o, nil
}

// createOrderTx inserts the header and assigns the ID-derived order number
func (s *Service) createOrderTx(tx *gorm.DB, o *Order) error {
	if o.Total.LessThan(decimal.Zero) {
		return fmt.Errorf("order total cannot be negative")
	}

	// Placeholder keeps the unique index satisfied until the ID exists.
	o.OrderNumber = fmt.Sprintf("PENDING-%d-%d", o.UserID, time.Now().UTC().UnixNano())
	if err := tx.Create(o).Error; err != nil {
		return errs.Translate(err)
	}

	o.OrderNumber = generateOrderNumber(o.ID, o.CreatedAt)
	if err := tx.Model(o).Update("order_number", o.OrderNumber).Error; err != nil {
		return fmt.Errorf("failed to assign order number: %w", err)
	}
	return nil
}

// assembleItems batch-loads line items for a set of orders with one IN query,
// then the referenced products with another, and groups both client-side.
// If either load fails the whole assembly fails.
func (s *Service) assembleItems(orders []Order) ([]OrderDetail, error) {
	details := make([]OrderDetail, len(orders))
	for i, o := range orders {
		details[i] = OrderDetail{Order: o, Items: []OrderItemDetail{}}
	}
	if len(orders) == 0 {
		return details, nil
	}

	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	var items []OrderItem
	if err := s.db.Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	productIDs := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	productsByID := make(map[uint]catalog.Product, len(productIDs))
	if len(productIDs) > 0 {
		var products []catalog.Product
		if err := s.db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to load order products: %w", err)
		}
		for _, p := range products {
			productsByID[p.ID] = p
		}
	}

	indexByOrderID := make(map[uint]int, len(details))
	for i, d := range details {
		indexByOrderID[d.ID] = i
	}

	for _, item := range items {
		detail := OrderItemDetail{OrderItem: item}
		if p, ok := productsByID[item.ProductID]; ok {
			product := p
			detail.Product = &product
		}
		i := indexByOrderID[item.OrderID]
		details[i].Items = append(details[i].Items, detail)
	}

	return details, nil
}

// generateOrderNumber derives a human-readable order number from the row ID
func generateOrderNumber(id uint, createdAt time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", createdAt.UTC().Format("20060102"), id)
}
