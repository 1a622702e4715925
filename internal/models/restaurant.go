package models

import "time"

type Restaurant struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:100;not null"`
	Slug     string `gorm:"size:100;uniqueIndex;not null"` // QR menü linki için
	Address  string `gorm:"size:255"`
	Phone    string `gorm:"size:50"` // Opsiyonel telefon
	Currency string `gorm:"size:10;not null;default:'TRY'"`

	// Sipariş ayarları
	DeliveryFee          float64 `gorm:"not null;default:0"` // paket servis ücreti
	LoyaltyPointsPerUnit float64 `gorm:"not null;default:1"` // harcanan 1 birim başına puan
	IsActive             bool    `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
