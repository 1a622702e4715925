package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"siparis-backend/internal/catalog"
	"siparis-backend/internal/models"
)

var (
	ErrPromotionInvalid  = errors.New("promosyon geçersiz veya süresi dolmuş")
	ErrPromotionMinOrder = errors.New("sipariş tutarı promosyon için yetersiz")
)

type OrderItemExtraRequest struct {
	ExtraID uint    `json:"extra_id"`
	Price   float64 `json:"price"` // istemci değeri, güvenilmez
}

type OrderItemRequest struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id"`
	Qty       int   `json:"qty"`
	// İstemciden gelen fiyatlar hiçbir zaman kullanılmaz,
	// her şey katalog fiyatlarından yeniden hesaplanır.
	UnitPrice float64                 `json:"unit_price"`
	LineTotal float64                 `json:"line_total"`
	Extras    []OrderItemExtraRequest `json:"extras"`
}

type CreateOrderRequest struct {
	RestaurantID    uint               `json:"restaurant_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	OrderType       models.OrderType   `json:"order_type"`
	TableID         *uint              `json:"table_id"`
	DeliveryAddress string             `json:"delivery_address"`
	Items           []OrderItemRequest `json:"items"`
	PromotionID     *uint              `json:"promotion_id"`
	DiscountAmount  float64            `json:"discount_amount"` // istemci değeri, güvenilmez
	GiftCardCode    string             `json:"gift_card_code"`
	TipAmount       float64            `json:"tip_amount"`
	Notes           string             `json:"notes"`
	ScheduledFor    *string            `json:"scheduled_for"` // RFC3339
}

type PricedExtra struct {
	ExtraID uint
	Name    string
	Price   float64
}

type PricedItem struct {
	ProductID   uint
	VariantID   *uint
	ProductName string
	VariantName string
	Qty         int
	UnitPrice   float64
	LineTotal   float64
	Extras      []PricedExtra
}

// PricedOrder: sunucu tarafında yeniden hesaplanan tüm parasal alanlar.
// total = subtotal - discount + delivery_fee + tip
type PricedOrder struct {
	Items          []PricedItem
	Subtotal       float64
	DiscountAmount float64
	DeliveryFee    float64
	TipAmount      float64
	Total          float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateAndPrice: satırları katalog snapshot'ına karşı doğrular ve
// her parasal alanı sunucu tarafında hesaplar. Tek bir satır bile
// geçersizse tüm sipariş reddedilir, kısmi sipariş oluşmaz.
func ValidateAndPrice(req CreateOrderRequest, snap *catalog.Snapshot, restaurant *models.Restaurant, promo *models.Promotion) (*PricedOrder, error) {
	priced := &PricedOrder{
		TipAmount: round2(req.TipAmount),
	}

	for i, line := range req.Items {
		product, err := snap.Resolve(req.RestaurantID, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("satır %d: %w", i+1, err)
		}

		unitPrice := product.Price
		variantName := ""
		if line.VariantID != nil {
			variant, err := snap.Variant(product, *line.VariantID)
			if err != nil {
				return nil, fmt.Errorf("satır %d: %w", i+1, err)
			}
			unitPrice = variant.Price
			variantName = variant.Name
		}

		item := PricedItem{
			ProductID:   product.ID,
			VariantID:   line.VariantID,
			ProductName: product.Name,
			VariantName: variantName,
			Qty:         line.Qty,
		}

		extrasTotal := 0.0
		for _, ex := range line.Extras {
			extra, err := snap.Extra(product, ex.ExtraID)
			if err != nil {
				return nil, fmt.Errorf("satır %d: %w", i+1, err)
			}
			extrasTotal += extra.Price
			item.Extras = append(item.Extras, PricedExtra{
				ExtraID: extra.ID,
				Name:    extra.Name,
				Price:   extra.Price,
			})
		}

		item.UnitPrice = round2(unitPrice + extrasTotal)
		item.LineTotal = round2(item.UnitPrice * float64(line.Qty))

		priced.Items = append(priced.Items, item)
		priced.Subtotal = round2(priced.Subtotal + item.LineTotal)
	}

	if promo != nil {
		discount, err := promotionDiscount(promo, priced.Subtotal)
		if err != nil {
			return nil, err
		}
		priced.DiscountAmount = discount
	}

	if req.OrderType == models.OrderTypeDelivery {
		priced.DeliveryFee = restaurant.DeliveryFee
	}

	priced.Total = round2(priced.Subtotal - priced.DiscountAmount + priced.DeliveryFee + priced.TipAmount)
	return priced, nil
}

// promotionDiscount: indirim bağımsız hesaplanan subtotal üzerinden bulunur
// ve subtotal'ı aşmayacak şekilde kırpılır. Kullanım limiti burada sadece
// ön kontrol; asıl güvence artış anındaki koşullu UPDATE (internal/ledger).
func promotionDiscount(promo *models.Promotion, subtotal float64) (float64, error) {
	if !promo.IsActive {
		return 0, ErrPromotionInvalid
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now()) {
		return 0, ErrPromotionInvalid
	}
	if promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses {
		return 0, ErrPromotionInvalid
	}
	if subtotal < promo.MinOrderAmount {
		return 0, ErrPromotionMinOrder
	}

	var discount float64
	switch promo.DiscountType {
	case models.DiscountTypePercent:
		discount = subtotal * promo.DiscountValue / 100
	case models.DiscountTypeFixed:
		discount = promo.DiscountValue
	default:
		return 0, ErrPromotionInvalid
	}

	if discount > subtotal {
		discount = subtotal
	}
	return round2(discount), nil
}
