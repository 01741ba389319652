// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a product category
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Product represents a catalog product. Prices are exact decimals so money
// never passes through binary floating point; JSON carries them as strings.
// IsActive is a soft-delete flag: inactive rows stay out of customer listings
// but remain referenced by historical orders.
type Product struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Name          string           `gorm:"not null;size:255" json:"name"`
	Slug          string           `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description   string           `gorm:"type:text" json:"description"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"original_price,omitempty"` // pre-discount display price
	ImageURL      string           `gorm:"size:500" json:"image_url"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	Stock         int              `gorm:"not null;default:0" json:"stock"`
	IsFeatured    bool             `gorm:"default:false" json:"is_featured"`
	IsActive      bool             `gorm:"not null" json:"is_active"`
	Rating        decimal.Decimal  `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewCount   int              `gorm:"default:0" json:"review_count"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}

// TableName overrides
func (Category) TableName() string { return "categories" }
func (Product) TableName() string  { return "products" }

// IsOnSale reports whether the product carries a pre-discount price above the
// current one
func (p *Product) IsOnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}
