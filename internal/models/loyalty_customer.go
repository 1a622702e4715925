package models

import "time"

// LoyaltyCustomer: (restoran, telefon) başına bir kayıt.
// Puanlar sadece açık bir harcama (redeem) ile azalır, onun dışında hep artar.
type LoyaltyCustomer struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null;uniqueIndex:idx_loyalty_restaurant_phone"`
	Restaurant   Restaurant

	Phone string `gorm:"size:50;not null;uniqueIndex:idx_loyalty_restaurant_phone"`
	Name  string `gorm:"size:100"` // son siparişten denormalize

	TotalPoints int     `gorm:"not null;default:0"`
	TotalSpent  float64 `gorm:"not null;default:0"`
	TotalOrders int     `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
