// internal/domain/order/service_test.go
package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	orders  *Service
	carts   *cart.Service
	catalog *catalog.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&cart.CartItem{},
		&Order{},
		&OrderItem{},
	))

	cfg := &config.Config{}
	carts := cart.NewService(db, cfg)
	catalogService := catalog.NewService(db, cfg)
	return &testEnv{
		db:      db,
		orders:  NewService(db, cfg, carts, catalogService),
		carts:   carts,
		catalog: catalogService,
	}
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()

	product := &catalog.Product{
		Name:     name,
		Slug:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func checkoutRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		ShippingName:    "Ada Lovelace",
		ShippingAddress: "12 Analytical Way",
		ShippingCity:    "London",
		ShippingPostal:  "N1 9GU",
		ShippingCountry: "GB",
		PaymentMethod:   "card",
	}
}

func TestCreateOrder(t *testing.T) {
	e := newTestEnv(t)

	o := Order{
		UserID:        1,
		Total:         decimal.RequireFromString("30.00"),
		ShippingName:  "Ada Lovelace",
		PaymentMethod: "card",
	}
	created, err := e.orders.CreateOrder(&o)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, created.Status)
	expectedNumber := fmt.Sprintf("ORD-%s-%06d", created.CreatedAt.UTC().Format("20060102"), created.ID)
	assert.Equal(t, expectedNumber, created.OrderNumber)

	reloaded, err := e.orders.GetOrder(created.ID)
	require.NoError(t, err)
	assert.Equal(t, expectedNumber, reloaded.OrderNumber)
}

func TestCreateOrderNegativeTotal(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.orders.CreateOrder(&Order{
		UserID: 1,
		Total:  decimal.RequireFromString("-1.00"),
	})
	assert.Error(t, err)

	var count int64
	require.NoError(t, e.db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderItem(t *testing.T) {
	e := newTestEnv(t)
	product := e.seedProduct(t, "widget", "12.50", 5)

	created, err := e.orders.CreateOrder(&Order{
		UserID: 1,
		Total:  decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	item, err := e.orders.CreateOrderItem(&OrderItem{
		OrderID:   created.ID,
		ProductID: product.ID,
		Quantity:  2,
		Price:     product.Price,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	detail, err := e.orders.GetOrder(created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)
	assert.True(t, detail.Items[0].Price.Equal(decimal.RequireFromString("12.50")))
}

func TestPlaceOrder(t *testing.T) {
	e := newTestEnv(t)
	widget := e.seedProduct(t, "widget", "10.00", 5)
	gadget := e.seedProduct(t, "gadget", "25.50", 5)

	_, err := e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: gadget.ID, Quantity: 1})
	require.NoError(t, err)

	detail, err := e.orders.PlaceOrder(1, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, uint(1), detail.UserID)
	assert.Equal(t, OrderStatusPending, detail.Status)
	assert.True(t, detail.Total.Equal(decimal.RequireFromString("45.50")))
	require.Len(t, detail.Items, 2)

	expectedNumber := fmt.Sprintf("ORD-%s-%06d", detail.CreatedAt.UTC().Format("20060102"), detail.ID)
	assert.Equal(t, expectedNumber, detail.OrderNumber)

	// Stock was decremented per line.
	reloaded, err := e.catalog.GetProduct(widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock)

	// The cart is empty after checkout.
	cartResponse, err := e.carts.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, cartResponse.Items)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.orders.PlaceOrder(1, checkoutRequest())
	assert.Error(t, err)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	e := newTestEnv(t)
	plenty := e.seedProduct(t, "plenty", "10.00", 100)
	scarce := e.seedProduct(t, "scarce", "10.00", 1)

	_, err := e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: plenty.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: scarce.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = e.orders.PlaceOrder(1, checkoutRequest())
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)

	// The whole checkout rolled back: no order rows, stock untouched,
	// cart intact.
	var orderCount int64
	require.NoError(t, e.db.Model(&Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var itemCount int64
	require.NoError(t, e.db.Model(&OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	reloaded, err := e.catalog.GetProduct(plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.Stock)

	cartResponse, err := e.carts.GetCart(1)
	require.NoError(t, err)
	assert.Len(t, cartResponse.Items, 2)
}

func TestOrderItemPriceIsSnapshotted(t *testing.T) {
	e := newTestEnv(t)
	product := e.seedProduct(t, "volatile", "10.00", 5)

	_, err := e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	placed, err := e.orders.PlaceOrder(1, checkoutRequest())
	require.NoError(t, err)

	// Raising the product price afterwards must not alter the line item.
	newPrice := decimal.RequireFromString("99.00")
	_, err = e.catalog.UpdateProduct(product.ID, &catalog.ProductUpdateRequest{Price: &newPrice})
	require.NoError(t, err)

	detail, err := e.orders.GetOrder(placed.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.True(t, detail.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, detail.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestGetOrderSurvivesProductDeletion(t *testing.T) {
	e := newTestEnv(t)
	product := e.seedProduct(t, "ephemeral", "15.00", 5)

	_, err := e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	placed, err := e.orders.PlaceOrder(1, checkoutRequest())
	require.NoError(t, err)

	require.NoError(t, e.catalog.DeleteProduct(product.ID))

	detail, err := e.orders.GetOrder(placed.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Nil(t, detail.Items[0].Product)
	assert.True(t, detail.Items[0].Price.Equal(decimal.RequireFromString("15.00")))
}

func TestGetOrderNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.orders.GetOrder(77)
	assert.True(t, errs.IsNotFound(err))
}

func TestListOrders(t *testing.T) {
	e := newTestEnv(t)

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		userID := uint(1)
		if i == 2 {
			userID = 2
		}
		o := Order{
			OrderNumber: fmt.Sprintf("ORD-20260401-%06d", i+1),
			UserID:      userID,
			Total:       decimal.RequireFromString("10.00"),
			Status:      OrderStatusPending,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, e.db.Create(&o).Error)
	}

	all, err := e.orders.ListOrders(&OrderListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ORD-20260401-000003", all[0].OrderNumber)

	userID := uint(1)
	mine, err := e.orders.ListOrders(&OrderListRequest{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, uint(1), o.UserID)
	}

	page, err := e.orders.ListOrders(&OrderListRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "ORD-20260401-000001", page[0].OrderNumber)
}

func TestUpdateStatus(t *testing.T) {
	e := newTestEnv(t)
	product := e.seedProduct(t, "widget", "10.00", 5)

	_, err := e.carts.AddItem(1, &cart.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	placed, err := e.orders.PlaceOrder(1, checkoutRequest())
	require.NoError(t, err)

	updated, err := e.orders.UpdateStatus(placed.ID, OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, updated.Status)
}

func TestUpdateStatusNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.orders.UpdateStatus(42, OrderStatusCancelled)
	assert.True(t, errs.IsNotFound(err))
}
