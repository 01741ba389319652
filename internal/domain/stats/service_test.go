// internal/domain/stats/service_test.go
package stats

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&order.Order{},
		&order.OrderItem{},
	))

	return NewService(db, &config.Config{}), db
}

func seedOrder(t *testing.T, db *gorm.DB, n int, total string) {
	t.Helper()

	o := order.Order{
		OrderNumber: fmt.Sprintf("ORD-20260501-%06d", n),
		UserID:      1,
		Total:       decimal.RequireFromString(total),
		Status:      order.OrderStatusPending,
	}
	require.NoError(t, db.Create(&o).Error)
}

func TestGetDashboardStatsEmpty(t *testing.T) {
	s, _ := newTestService(t)

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)

	assert.Zero(t, stats.TotalOrders)
	assert.Equal(t, "0", stats.TotalRevenue)
	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.TotalCustomers)
}

func TestGetDashboardStatsRevenue(t *testing.T) {
	s, db := newTestService(t)

	seedOrder(t, db, 1, "20.00")
	seedOrder(t, db, 2, "0.50")
	seedOrder(t, db, 3, "99.50")

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	revenue := decimal.RequireFromString(stats.TotalRevenue)
	assert.True(t, revenue.Equal(decimal.RequireFromString("120.00")))
}

func TestGetDashboardStatsProductCountIncludesInactive(t *testing.T) {
	s, db := newTestService(t)

	require.NoError(t, db.Create(&catalog.Product{
		Name: "active", Slug: "active",
		Price: decimal.RequireFromString("1.00"), IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&catalog.Product{
		Name: "retired", Slug: "retired",
		Price: decimal.RequireFromString("1.00"), IsActive: false,
	}).Error)

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
}

func TestGetDashboardStatsCustomerCountExcludesAdmins(t *testing.T) {
	s, db := newTestService(t)

	require.NoError(t, db.Create(&user.User{
		Username: "shopper", Email: "shopper@example.com", Password: "x", Role: user.RoleUser,
	}).Error)
	require.NoError(t, db.Create(&user.User{
		Username: "boss", Email: "boss@example.com", Password: "x", Role: user.RoleAdmin,
	}).Error)

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalCustomers)
}
