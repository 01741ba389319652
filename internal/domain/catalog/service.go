// internal/domain/catalog/service.go
package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/gorm"
)

// Service handles category and product persistence
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string           `json:"name" binding:"required"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      string           `json:"image_url"`
	CategoryID    *uint            `json:"category_id"`
	Stock         int              `json:"stock"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

// ProductUpdateRequest represents partial product update data; only non-nil
// fields are written
type ProductUpdateRequest struct {
	Name          *string          `json:"name"`
	Slug          *string          `json:"slug"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      *string          `json:"image_url"`
	CategoryID    *uint            `json:"category_id"` // 0 clears the category
	Stock         *int             `json:"stock"`
	IsFeatured    *bool            `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// CategoryUpdateRequest represents partial category update data
type CategoryUpdateRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// GetCategories retrieves all categories ordered by name
func (s *Service) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a single category by ID
func (s *Service) GetCategory(id uint) (*Category, error) {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &category, nil
}

// GetCategoryBySlug retrieves a single category by slug
func (s *Service) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &category, nil
}

// CreateCategory creates a new category. Returns errs.ErrDuplicate when the
// slug is already taken.
func (s *Service) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	category := Category{
		Name: req.Name,
		Slug: req.Slug,
	}
	if category.Slug == "" {
		category.Slug = generateSlug(req.Name)
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update and returns the updated row
func (s *Service) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}

	if len(updates) > 0 {
		result := s.db.Model(&Category{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, errs.Translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, errs.ErrNotFound
		}
	}

	return s.GetCategory(id)
}

// DeleteCategory deletes a category by ID. Deleting a missing ID is not an
// error; products keep a SET NULL reference.
func (s *Service) DeleteCategory(id uint) error {
	if err := s.db.Where("id = ?", id).Delete(&Category{}).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// GetProducts retrieves active products with optional category and search
// filters, newest first. Filters combine with AND; search is a
// case-insensitive substring match against the name.
func (s *Service) GetProducts(req *ProductListRequest) ([]Product, error) {
	normalizeListRequest(req)

	query := s.db.Model(&Product{}).
		Preload("Category").
		Where("is_active = ?", true)

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", search)
	}

	var products []Product
	err := query.
		Order("created_at DESC").
		Limit(req.Limit).
		Offset(req.Offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, nil
}

// GetFeaturedProducts retrieves active featured products, newest first
func (s *Service) GetFeaturedProducts(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 8
	}

	var products []Product
	err := s.db.
		Preload("Category").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve featured products: %w", err)
	}

	return products, nil
}

// GetAllProducts retrieves products for the admin back office, including
// inactive rows
func (s *Service) GetAllProducts(limit, offset int) ([]Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var products []Product
	err := s.db.
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, errs.Translate(err)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, errs.Translate(err)
	}
	return &product, nil
}

// CreateProduct creates a new product. Returns errs.ErrDuplicate when the
// slug is already taken.
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := Product{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		Stock:         req.Stock,
		IsFeatured:    req.IsFeatured,
		IsActive:      isActive,
	}
	if product.Slug == "" {
		product.Slug = generateSlug(req.Name)
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, errs.Translate(err)
	}

	return s.GetProduct(product.ID)
}

// UpdateProduct applies a partial update and returns the updated row
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *req.CategoryID
		}
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		result := s.db.Model(&Product{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, errs.Translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, errs.ErrNotFound
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct deletes a product by ID. Deleting a missing ID is not an
// error.
func (s *Service) DeleteProduct(id uint) error {
	if err := s.db.Where("id = ?", id).Delete(&Product{}).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// DecrementStock atomically decrements a product's stock by quantity. The
// decrement is a single conditional UPDATE so concurrent purchases never lose
// an update and stock never goes below zero; when the guard fails the error
// distinguishes a missing product from insufficient stock.
func (s *Service) DecrementStock(db *gorm.DB, id uint, quantity int) error {
	if db == nil {
		db = s.db
	}

	result := db.Model(&Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if count == 0 {
			return errs.ErrNotFound
		}
		return errs.ErrInsufficientStock
	}

	return nil
}

func normalizeListRequest(req *ProductListRequest) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug derives a URL-safe slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugUnsafe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
