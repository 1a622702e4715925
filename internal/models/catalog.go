package models

import "time"

// Katalog modelleri: menü düzenleme arayüzü ayrı bir sistemde,
// sipariş motoru bu tabloları sadece okur (is_active, fiyat, tenant sahipliği).
// İstisna: stok alanları (stock_quantity vs.) ledger tarafından güncellenir.

type Category struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	Name         string `gorm:"size:100;not null"`
	SortOrder    int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	CategoryID   *uint
	Category     *Category
	Name         string  `gorm:"size:100;not null"`
	Description  string  `gorm:"size:500"`
	Price        float64 `gorm:"not null"` // baz fiyat, varyant seçilirse varyant fiyatı geçerli
	IsActive     bool    `gorm:"not null;default:true"`

	// Stok takibi (opsiyonel)
	TrackInventory    bool `gorm:"not null;default:false"`
	StockQuantity     int  `gorm:"not null;default:0"`
	LowStockThreshold int  `gorm:"not null;default:5"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Variants []ProductVariant
	Extras   []ProductExtra
}

// ProductVariant: boyut/porsiyon seçeneği (örn: "Küçük", "Büyük")
type ProductVariant struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Name      string  `gorm:"size:100;not null"`
	Price     float64 `gorm:"not null"` // baz fiyatın yerine geçer
	IsActive  bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductExtra: ek malzeme (örn: "Ekstra peynir")
type ProductExtra struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Name      string  `gorm:"size:100;not null"`
	Price     float64 `gorm:"not null"` // fiyata eklenir
	IsActive  bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
