package models

import "time"

type GiftCardStatus string

const (
	GiftCardStatusActive    GiftCardStatus = "active"
	GiftCardStatusUsed      GiftCardStatus = "used"      // bakiye tükendi
	GiftCardStatusCancelled GiftCardStatus = "cancelled" // personel iptali
)

type GiftCard struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null;uniqueIndex:idx_gift_cards_restaurant_code"`
	Restaurant   Restaurant

	Code          string  `gorm:"size:30;not null;uniqueIndex:idx_gift_cards_restaurant_code"`
	InitialAmount float64 `gorm:"not null"`
	// 0 <= remaining_amount <= initial_amount; düşüm ledger'da koşullu UPDATE ile
	RemainingAmount float64        `gorm:"not null"`
	Status          GiftCardStatus `gorm:"size:20;not null;default:'active'"`
	ExpiresAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
