// internal/domain/cart/service.go
package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart persistence and assembly
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CartLine represents a cart item with its product snapshot attached
type CartLine struct {
	CartItem
	Product catalog.Product `json:"product"`
}

// CartResponse represents an assembled cart
type CartResponse struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart returns all cart lines for a user, each joined to its product row.
// Lines whose product has since been deleted are dropped from the result so
// callers never see half-assembled items.
func (s *Service) GetCart(userID uint) (*CartResponse, error) {
	var items []CartItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	lines, err := s.assembleLines(items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &CartResponse{
		Items:    lines,
		Subtotal: subtotal,
	}, nil
}

// AddItem adds a product to the user's cart, incrementing the quantity of an
// existing line for the same product. The merge is a single
// INSERT ... ON CONFLICT DO UPDATE statement so concurrent adds of the same
// (user, product) pair never lose an increment.
func (s *Service) AddItem(userID uint, req *AddToCartRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	// The product must exist and be purchasable before a line is written.
	var count int64
	err := s.db.Model(&catalog.Product{}).
		Where("id = ? AND is_active = ?", req.ProductID, true).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return nil, errs.ErrNotFound
	}

	item := CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetCart(userID)
}

// UpdateItemQuantity sets a cart line's quantity directly by line ID. The
// line must belong to the given user; another user's line reads as not found.
func (s *Service) UpdateItemQuantity(userID, itemID uint, quantity int) (*CartItem, error) {
	result := s.db.Model(&CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrNotFound
	}

	var item CartItem
	if err := s.db.Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &item, nil
}

// RemoveItem deletes one of the user's cart lines by ID. Removing a missing
// or non-owned line is not an error.
func (s *Service) RemoveItem(userID, itemID uint) error {
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// ClearCart deletes all cart lines for a user in one statement
func (s *Service) ClearCart(userID uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// assembleLines batch-loads the product rows for a set of cart items with a
// single IN query and joins them client-side
func (s *Service) assembleLines(items []CartItem) ([]CartLine, error) {
	if len(items) == 0 {
		return []CartLine{}, nil
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var products []catalog.Product
	err := s.db.Preload("Category").Where("id IN ?", productIDs).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	byID := make(map[uint]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue // product deleted since the line was added
		}
		lines = append(lines, CartLine{CartItem: item, Product: product})
	}

	return lines, nil
}
