package models

import "time"

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent" // yüzde indirim
	DiscountTypeFixed   DiscountType = "fixed"   // sabit tutar indirim
)

type Promotion struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null;uniqueIndex:idx_promotions_restaurant_code"`
	Restaurant   Restaurant

	Code          string       `gorm:"size:50;not null;uniqueIndex:idx_promotions_restaurant_code"`
	DiscountType  DiscountType `gorm:"size:20;not null"`
	DiscountValue float64      `gorm:"not null"` // percent ise yüzde, fixed ise tutar

	// current_uses artışı ledger tarafından koşullu UPDATE ile yapılır,
	// max_uses kontrolü artış anında uygulanır (bkz. internal/ledger).
	CurrentUses    int   `gorm:"not null;default:0"`
	MaxUses        *int  // nil = sınırsız
	MinOrderAmount float64 `gorm:"not null;default:0"`

	ExpiresAt *time.Time
	IsActive  bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
