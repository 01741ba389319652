// internal/domain/stats/service.go
package stats

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service computes admin dashboard aggregates
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new stats service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats is one snapshot of the dashboard counters. Revenue is a
// decimal string so the sum keeps exact precision; it is "0" when no orders
// exist. The four numbers come from independent aggregate queries and are not
// transactionally consistent with each other.
type DashboardStats struct {
	TotalOrders    int64  `json:"total_orders"`
	TotalRevenue   string `json:"total_revenue"`
	TotalProducts  int64  `json:"total_products"`  // all products, including inactive
	TotalCustomers int64  `json:"total_customers"` // role "user" only, admins excluded
}

// GetDashboardStats computes the dashboard snapshot in four aggregate queries
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&order.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue decimal.Decimal
	err := s.db.Model(&order.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = revenue.String()

	if err := s.db.Model(&catalog.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err = s.db.Model(&user.User{}).
		Where("role = ?", user.RoleUser).
		Count(&stats.TotalCustomers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return stats, nil
}
