package models

import "time"

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered" // terminal
	OrderStatusCancelled OrderStatus = "cancelled" // terminal
)

type Order struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null;uniqueIndex:idx_orders_restaurant_number"`
	Restaurant   Restaurant

	// Sipariş numarası tenant içinde tekil, çakışmada yeniden üretilir.
	OrderNumber   string `gorm:"size:30;not null;uniqueIndex:idx_orders_restaurant_number"`
	CustomerName  string `gorm:"size:100"`
	CustomerPhone string `gorm:"size:50;index"` // sadakat hesabı eşleşmesi için

	OrderType       OrderType `gorm:"size:20;not null"`
	TableID         *uint
	Table           *Table `gorm:"foreignKey:TableID"`
	DeliveryAddress string `gorm:"size:255"`

	// Parasal alanlar oluşturma anında bir kez hesaplanır, sonradan türetilmez.
	// total = subtotal - discount_amount + delivery_fee + tip_amount
	Subtotal       float64 `gorm:"not null"`
	DiscountAmount float64 `gorm:"not null;default:0"`
	DeliveryFee    float64 `gorm:"not null;default:0"`
	TipAmount      float64 `gorm:"not null;default:0"`
	GiftCardAmount float64 `gorm:"not null;default:0"` // hediye kartından düşülen kısım
	Total          float64 `gorm:"not null"`

	PromotionID *uint
	Promotion   *Promotion

	Status       OrderStatus `gorm:"size:20;not null;index"`
	Notes        string      `gorm:"size:500"`
	ScheduledFor *time.Time  // ileri tarihli sipariş

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"` // poll sorgusu bu kolon üzerinden çalışır

	Items []OrderItem
}

// OrderItem: siparişle birlikte atomik oluşturulur, sonradan değişmez.
// Fiyatlar oluşturma anının katalog fiyatlarının kopyasıdır.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"not null"`
	VariantID *uint

	ProductName string  `gorm:"size:100;not null"` // denormalize, katalog değişse de fatura sabit
	VariantName string  `gorm:"size:100"`
	Qty         int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	LineTotal   float64 `gorm:"not null"`

	CreatedAt time.Time

	Extras []OrderItemExtra
}

// OrderItemExtra: best-effort alt satır (bkz. OrderItem).
// Yazımı başarısız olsa bile sipariş geçerli kalır.
type OrderItemExtra struct {
	ID          uint `gorm:"primaryKey"`
	OrderItemID uint `gorm:"index;not null"`
	ExtraID     uint `gorm:"not null"`
	Name        string  `gorm:"size:100;not null"`
	Price       float64 `gorm:"not null"`
	CreatedAt   time.Time
}
