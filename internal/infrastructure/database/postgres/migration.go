// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("running auto-migrations")

	// Models in dependency order, parents before children
	models := []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("auto-migrations complete")
	return nil
}

// CreateIndexes creates indexes AutoMigrate does not cover
func (m *Migration) CreateIndexes() error {
	log.Println("creating additional indexes")

	indexes := []string{
		// Case-insensitive product search
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products (LOWER(name))",
		// Customer-facing listings filter on is_active and sort by created_at
		"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products (is_active, created_at DESC)",
		// Order listings per user, newest first
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)",
	}

	for _, idx := range indexes {
		if err := m.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("indexes ready")
	return nil
}

// SeedInitialData seeds a development database with an admin account and a
// small sample catalog. Safe to run repeatedly.
func (m *Migration) SeedInitialData() error {
	log.Println("seeding development data")

	var count int64
	if err := m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := user.User{
			Username: "admin",
			Email:    "admin@example.com",
			Password: string(hash),
			Role:     user.RoleAdmin,
		}
		if err := m.db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		log.Println("Seeded admin user admin@example.com")
	}

	if err := m.db.Model(&catalog.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}

	if count == 0 {
		categories := []catalog.Category{
			{Name: "Electronics", Slug: "electronics"},
			{Name: "Clothing", Slug: "clothing"},
			{Name: "Home & Garden", Slug: "home-garden"},
		}
		if err := m.db.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		electronics := categories[0].ID
		clothing := categories[1].ID
		original := decimal.NewFromFloat(249.99)

		products := []catalog.Product{
			{
				Name:          "Wireless Headphones",
				Slug:          "wireless-headphones",
				Description:   "Over-ear wireless headphones with active noise cancellation.",
				Price:         decimal.NewFromFloat(199.99),
				OriginalPrice: &original,
				CategoryID:    &electronics,
				Stock:         50,
				IsFeatured:    true,
				IsActive:      true,
			},
			{
				Name:        "Cotton T-Shirt",
				Slug:        "cotton-t-shirt",
				Description: "Plain organic cotton t-shirt.",
				Price:       decimal.NewFromFloat(19.99),
				CategoryID:  &clothing,
				Stock:       200,
				IsActive:    true,
			},
		}
		if err := m.db.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		log.Printf("Seeded %d categories and %d products", len(categories), len(products))
	}

	log.Println("seed data in place")
	return nil
}

// GetTableInfo logs row counts per table for development visibility
func (m *Migration) GetTableInfo() {
	tables := []string{"users", "categories", "products", "cart_items", "orders", "order_items"}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: unavailable (%v)", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
