package order

import (
	"time"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PollResponse struct {
	Orders []OrderResponse `json:"orders"`
	// Sunucu saatinin cevap anındaki değeri. İstemci bir sonraki poll'da
	// since olarak BUNU gönderir, kendi saatini değil; makineler arası
	// saat kayması boşluk ya da kayıp yaratmaz.
	Timestamp string `json:"timestamp"`
}

// GET /api/orders/poll?since=<RFC3339> — değişiklik akışı.
// updated_at > since olan tüm siparişlerin son hali döner. Birden çok
// sipariş arasında sıralama garantisi yok; iki poll arasındaki ara
// geçişler son snapshot'a katlanır. İstemci id bazlı idempotent
// upsert yapar, aynı siparişin tekrar gelmesi zararsızdır.
func PollOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		// Sunucu saati SORGUDAN ÖNCE okunur: okuma sırasında mutate edilen
		// bir sipariş bir sonraki poll'da en kötü tekrar gelir, asla kaçmaz.
		serverTime := time.Now().UTC()

		dbq := database.DB.
			Preload("Items").
			Preload("Items.Extras").
			Where("restaurant_id = ?", restaurantID)

		if sinceStr := c.Query("since"); sinceStr != "" {
			since, perr := parseSince(sinceStr)
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "since RFC3339 formatında olmalı")
			}
			dbq = dbq.Where("updated_at > ?", since)
		}

		var orders []models.Order
		if err := dbq.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler okunamadı")
		}

		resp := PollResponse{
			Orders:    make([]OrderResponse, 0, len(orders)),
			Timestamp: serverTime.Format(time.RFC3339Nano),
		}
		for _, o := range orders {
			resp.Orders = append(resp.Orders, toOrderResponse(o))
		}

		return c.JSON(resp)
	}
}

func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
