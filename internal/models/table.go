package models

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

// Table: sipariş durumundan bağımsız, personel tarafından yürütülen ikinci
// durum makinesi. CurrentOrderID sadece bilgi amaçlı, tutarlılık garantisi yok:
// masa dolu görünüp canlı siparişi olmayabilir (henüz sipariş vermemiş müşteri).
type Table struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null;uniqueIndex:idx_tables_restaurant_number"`
	Restaurant   Restaurant

	Number   string      `gorm:"size:20;not null;uniqueIndex:idx_tables_restaurant_number"`
	Capacity int         `gorm:"not null;default:4"`
	Status   TableStatus `gorm:"size:20;not null;default:'available'"`

	CurrentOrderID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
