// internal/domain/catalog/service_test.go
package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}))

	return NewService(db, &config.Config{})
}

func seedProduct(t *testing.T, s *Service, name, price string, mutate func(*Product)) *Product {
	t.Helper()

	product := &Product{
		Name:     name,
		Slug:     generateSlug(name),
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		IsActive: true,
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, s.db.Create(product).Error)
	return product
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	s := newTestService(t)

	product, err := s.CreateProduct(&ProductCreateRequest{
		Name:  "Mechanical Keyboard, 87 Keys!",
		Price: decimal.RequireFromString("89.99"),
		Stock: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "mechanical-keyboard-87-keys", product.Slug)
	assert.True(t, product.IsActive)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("89.99")))
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	s := newTestService(t)

	_, err := s.CreateProduct(&ProductCreateRequest{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)

	_, err = s.CreateProduct(&ProductCreateRequest{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("24.99"),
	})
	assert.True(t, errs.IsDuplicate(err))
}

func TestGetProductsExcludesInactive(t *testing.T) {
	s := newTestService(t)

	seedProduct(t, s, "Visible", "10.00", nil)
	seedProduct(t, s, "Hidden", "10.00", func(p *Product) { p.IsActive = false })

	products, err := s.GetProducts(&ProductListRequest{})
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].Name)
}

func TestGetProductsFilters(t *testing.T) {
	s := newTestService(t)

	electronics := Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, s.db.Create(&electronics).Error)
	furniture := Category{Name: "Furniture", Slug: "furniture"}
	require.NoError(t, s.db.Create(&furniture).Error)

	seedProduct(t, s, "USB Hub", "15.00", func(p *Product) { p.CategoryID = &electronics.ID })
	seedProduct(t, s, "USB Cable", "5.00", func(p *Product) { p.CategoryID = &electronics.ID })
	seedProduct(t, s, "Office Chair", "120.00", func(p *Product) { p.CategoryID = &furniture.ID })

	products, err := s.GetProducts(&ProductListRequest{CategoryID: electronics.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// Filters combine with AND; search matches case-insensitively.
	products, err = s.GetProducts(&ProductListRequest{CategoryID: electronics.ID, Search: "cable"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "USB Cable", products[0].Name)
}

func TestGetProductsPagination(t *testing.T) {
	s := newTestService(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		seedProduct(t, s, name, "10.00", func(p *Product) {
			p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		})
	}

	first, err := s.GetProducts(&ProductListRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Newest", first[0].Name)
	assert.Equal(t, "Middle", first[1].Name)

	second, err := s.GetProducts(&ProductListRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Oldest", second[0].Name)
}

func TestGetFeaturedProducts(t *testing.T) {
	s := newTestService(t)

	seedProduct(t, s, "Plain", "10.00", nil)
	seedProduct(t, s, "Featured", "20.00", func(p *Product) { p.IsFeatured = true })
	seedProduct(t, s, "Featured Inactive", "30.00", func(p *Product) {
		p.IsFeatured = true
		p.IsActive = false
	})

	products, err := s.GetFeaturedProducts(0)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "Featured", products[0].Name)
}

func TestGetAllProductsIncludesInactive(t *testing.T) {
	s := newTestService(t)

	seedProduct(t, s, "Active", "10.00", nil)
	seedProduct(t, s, "Retired", "10.00", func(p *Product) { p.IsActive = false })

	products, err := s.GetAllProducts(20, 0)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestUpdateProductPartial(t *testing.T) {
	s := newTestService(t)

	product := seedProduct(t, s, "Monitor", "199.00", nil)

	newPrice := decimal.RequireFromString("179.00")
	inactive := false
	updated, err := s.UpdateProduct(product.ID, &ProductUpdateRequest{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Monitor", updated.Name)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)
	assert.Equal(t, 10, updated.Stock)
}

func TestUpdateProductClearsCategory(t *testing.T) {
	s := newTestService(t)

	category, err := s.CreateCategory(&CategoryCreateRequest{Name: "Gadgets"})
	require.NoError(t, err)

	product := seedProduct(t, s, "Widget", "10.00", func(p *Product) { p.CategoryID = &category.ID })

	// Category ID 0 uncategorizes the product.
	zero := uint(0)
	updated, err := s.UpdateProduct(product.ID, &ProductUpdateRequest{CategoryID: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	// A real ID assigns it back.
	updated, err = s.UpdateProduct(product.ID, &ProductUpdateRequest{CategoryID: &category.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, category.ID, *updated.CategoryID)
}

func TestUpdateProductNotFound(t *testing.T) {
	s := newTestService(t)

	name := "Ghost"
	_, err := s.UpdateProduct(42, &ProductUpdateRequest{Name: &name})
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteProductIdempotent(t *testing.T) {
	s := newTestService(t)

	product := seedProduct(t, s, "Disposable", "1.00", nil)

	require.NoError(t, s.DeleteProduct(product.ID))
	require.NoError(t, s.DeleteProduct(product.ID))

	_, err := s.GetProduct(product.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestDecrementStock(t *testing.T) {
	s := newTestService(t)

	product := seedProduct(t, s, "Limited", "50.00", func(p *Product) { p.Stock = 3 })

	require.NoError(t, s.DecrementStock(nil, product.ID, 2))

	reloaded, err := s.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestDecrementStockInsufficient(t *testing.T) {
	s := newTestService(t)

	product := seedProduct(t, s, "Scarce", "50.00", func(p *Product) { p.Stock = 1 })

	err := s.DecrementStock(nil, product.ID, 2)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)

	// The failed decrement must not have touched the row.
	reloaded, err := s.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestDecrementStockMissingProduct(t *testing.T) {
	s := newTestService(t)

	err := s.DecrementStock(nil, 999, 1)
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	s := newTestService(t)

	_, err := s.CreateCategory(&CategoryCreateRequest{Name: "Audio"})
	require.NoError(t, err)

	_, err = s.CreateCategory(&CategoryCreateRequest{Name: "Audio"})
	assert.True(t, errs.IsDuplicate(err))
}

func TestUpdateCategoryNotFound(t *testing.T) {
	s := newTestService(t)

	name := "Renamed"
	_, err := s.UpdateCategory(7, &CategoryUpdateRequest{Name: &name})
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteCategoryKeepsProducts(t *testing.T) {
	s := newTestService(t)

	category, err := s.CreateCategory(&CategoryCreateRequest{Name: "Doomed"})
	require.NoError(t, err)

	product := seedProduct(t, s, "Survivor", "10.00", func(p *Product) { p.CategoryID = &category.ID })

	require.NoError(t, s.DeleteCategory(category.ID))
	require.NoError(t, s.DeleteCategory(category.ID))

	_, err = s.GetProduct(product.ID)
	require.NoError(t, err)
}

func TestGetCategoryBySlug(t *testing.T) {
	s := newTestService(t)

	created, err := s.CreateCategory(&CategoryCreateRequest{Name: "Home & Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden", created.Slug)

	found, err := s.GetCategoryBySlug("home-garden")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.GetCategoryBySlug("nope")
	assert.True(t, errs.IsNotFound(err))
}
