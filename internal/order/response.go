package order

import (
	"time"

	"siparis-backend/internal/models"
)

type OrderItemExtraResponse struct {
	ExtraID uint    `json:"extra_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

type OrderItemResponse struct {
	ID          uint                     `json:"id"`
	ProductID   uint                     `json:"product_id"`
	VariantID   *uint                    `json:"variant_id"`
	ProductName string                   `json:"product_name"`
	VariantName string                   `json:"variant_name,omitempty"`
	Qty         int                      `json:"qty"`
	UnitPrice   float64                  `json:"unit_price"`
	LineTotal   float64                  `json:"line_total"`
	Extras      []OrderItemExtraResponse `json:"extras"`
}

// OrderResponse: ekran istemcilerinin (mutfak, sipariş panosu, müşteri takibi)
// alan bazlı last-write-wins merge yaptığı tam snapshot. Ara geçiş geçmişi
// taşınmaz, her zaman son hal döner.
type OrderResponse struct {
	ID              uint                `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	OrderType       models.OrderType    `json:"order_type"`
	TableID         *uint               `json:"table_id"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	Subtotal        float64             `json:"subtotal"`
	DiscountAmount  float64             `json:"discount_amount"`
	DeliveryFee     float64             `json:"delivery_fee"`
	TipAmount       float64             `json:"tip_amount"`
	GiftCardAmount  float64             `json:"gift_card_amount"`
	Total           float64             `json:"total"`
	Status          models.OrderStatus  `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	ScheduledFor    *string             `json:"scheduled_for"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
	Items           []OrderItemResponse `json:"items"`
}

func toOrderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		OrderType:       o.OrderType,
		TableID:         o.TableID,
		DeliveryAddress: o.DeliveryAddress,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		DeliveryFee:     o.DeliveryFee,
		TipAmount:       o.TipAmount,
		GiftCardAmount:  o.GiftCardAmount,
		Total:           o.Total,
		Status:          o.Status,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if o.ScheduledFor != nil {
		s := o.ScheduledFor.UTC().Format(time.RFC3339)
		resp.ScheduledFor = &s
	}

	resp.Items = make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		ir := OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Extras:      make([]OrderItemExtraResponse, 0, len(item.Extras)),
		}
		for _, ex := range item.Extras {
			ir.Extras = append(ir.Extras, OrderItemExtraResponse{
				ExtraID: ex.ExtraID,
				Name:    ex.Name,
				Price:   ex.Price,
			})
		}
		resp.Items = append(resp.Items, ir)
	}

	return resp
}
