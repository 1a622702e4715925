package order

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/catalog"
	"siparis-backend/internal/database"
	"siparis-backend/internal/ledger"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// validatePayload: alan bazlı doğrulama hataları.
// Boş dönerse payload biçimsel olarak geçerli demektir.
func validatePayload(body CreateOrderRequest) map[string]string {
	details := make(map[string]string)

	if body.RestaurantID == 0 {
		details["restaurant_id"] = "restaurant_id zorunlu"
	}
	switch body.OrderType {
	case models.OrderTypeDineIn, models.OrderTypePickup, models.OrderTypeDelivery:
		// ok
	default:
		details["order_type"] = "order_type dine_in|pickup|delivery olmalı"
	}
	if len(body.Items) == 0 {
		details["items"] = "en az bir satır zorunlu"
	}
	for i, item := range body.Items {
		if item.ProductID == 0 {
			details[fmt.Sprintf("items[%d].product_id", i)] = "product_id zorunlu"
		}
		if item.Qty <= 0 {
			details[fmt.Sprintf("items[%d].qty", i)] = "qty 0'dan büyük olmalı"
		}
	}
	if body.TipAmount < 0 {
		details["tip_amount"] = "bahşiş negatif olamaz"
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// POST /api/orders — public sipariş oluşturma.
// Rate limit üst katmanda (reverse proxy) uygulanıyor.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if details := validatePayload(body); details != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Sipariş doğrulanamadı",
				"details": details,
			})
		}

		var restaurant models.Restaurant
		if err := database.DB.
			Where("id = ? AND is_active = ?", body.RestaurantID, true).
			First(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Restoran bulunamadı")
		}

		productIDs := make([]uint, 0, len(body.Items))
		for _, item := range body.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		snap, err := catalog.LoadSnapshot(productIDs)
		if err != nil {
			log.Println("Katalog snapshot yüklenemedi:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// İstemcinin discount_amount'u hiçbir zaman kullanılmaz;
		// promosyon satırı okunur ve indirim sunucuda hesaplanır.
		var promo *models.Promotion
		if body.PromotionID != nil {
			var p models.Promotion
			if err := database.DB.
				Where("id = ? AND restaurant_id = ?", *body.PromotionID, body.RestaurantID).
				First(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Promosyon bulunamadı")
			}
			promo = &p
		}

		priced, err := ValidateAndPrice(body, snap, &restaurant, promo)
		if err != nil {
			return mapPricingError(c, body, err)
		}

		// Masa referansı bilgi amaçlı: var mı ve bu restoranın mı diye bakılır,
		// masa durumuyla tutarlılık aranmaz (masa makinesi bağımsız).
		if body.TableID != nil {
			var table models.Table
			if err := database.DB.
				Where("id = ? AND restaurant_id = ?", *body.TableID, body.RestaurantID).
				First(&table).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Masa bulunamadı")
			}
		}

		var scheduledFor *time.Time
		if body.ScheduledFor != nil && *body.ScheduledFor != "" {
			t, err := time.Parse(time.RFC3339, *body.ScheduledFor)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "scheduled_for RFC3339 formatında olmalı")
			}
			scheduledFor = &t
		}

		// Promosyon sayacı sipariş yazılmadan artırılır; limit kontrolü
		// artış anında WHERE koşulunda. Limit dolmuşsa sipariş bu alandan reddedilir.
		if promo != nil && priced.DiscountAmount > 0 {
			if err := ledger.ApplyPromotionUse(promo.ID); err != nil {
				if errors.Is(err, ledger.ErrPromotionExhausted) {
					return fiber.NewError(fiber.StatusBadRequest, "Promosyon kullanım limiti doldu")
				}
				log.Println("Promosyon sayacı güncellenemedi:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
		}

		// Hediye kartı: toplamın tamamına ya da kalan bakiyeye kadar düşülür.
		// Bakiye koruması ledger'daki koşullu UPDATE'te.
		giftCardAmount := 0.0
		if body.GiftCardCode != "" {
			applied, err := ledger.RedeemGiftCard(body.RestaurantID, strings.TrimSpace(body.GiftCardCode), priced.Total)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "Hediye kartı bulunamadı")
				}
				if errors.Is(err, ledger.ErrGiftCardInsufficient) {
					return fiber.NewError(fiber.StatusBadRequest, "Hediye kartı kullanılamıyor")
				}
				log.Println("Hediye kartı düşümü başarısız:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
			giftCardAmount = applied
		}

		orderRow := models.Order{
			RestaurantID:    body.RestaurantID,
			CustomerName:    strings.TrimSpace(body.CustomerName),
			CustomerPhone:   strings.TrimSpace(body.CustomerPhone),
			OrderType:       body.OrderType,
			TableID:         body.TableID,
			DeliveryAddress: strings.TrimSpace(body.DeliveryAddress),
			Subtotal:        priced.Subtotal,
			DiscountAmount:  priced.DiscountAmount,
			DeliveryFee:     priced.DeliveryFee,
			TipAmount:       priced.TipAmount,
			GiftCardAmount:  giftCardAmount,
			Total:           priced.Total,
			Status:          models.OrderStatusPending,
			Notes:           strings.TrimSpace(body.Notes),
			ScheduledFor:    scheduledFor,
		}
		if promo != nil && priced.DiscountAmount > 0 {
			orderRow.PromotionID = &promo.ID
		}

		if err := persistOrder(&orderRow); err != nil {
			log.Println("Sipariş kaydedilemedi:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// Satırlar ve ekstralar best-effort: üst sipariş commit edildi,
		// alt satır hatası logla geçilir, müşteriye hata dönülmez.
		insertItems(orderRow.ID, priced.Items)

		// Stok düşümü de sipariş sonrası yan etki; hatası siparişi bozmaz,
		// sayaç gerçek siparişten az kalabilir (bilinçli tercih).
		for _, item := range priced.Items {
			if p, perr := snap.Resolve(body.RestaurantID, item.ProductID); perr == nil && p.TrackInventory {
				if err := ledger.DecrementStock(item.ProductID, item.Qty); err != nil {
					log.Printf("Stok düşülemedi (order=%s product=%d): %v", orderRow.OrderNumber, item.ProductID, err)
				}
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &body.RestaurantID,
			EntityType:   "order",
			EntityID:     orderRow.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Sipariş alındı: %s (%.2f)", orderRow.OrderNumber, orderRow.Total),
			After:        toOrderResponse(orderRow),
		})

		return c.JSON(fiber.Map{
			"success": true,
			"order": fiber.Map{
				"id":           orderRow.ID,
				"order_number": orderRow.OrderNumber,
				"total":        orderRow.Total,
				"status":       orderRow.Status,
			},
		})
	}
}

// mapPricingError: doğrulama hatalarını HTTP koduna çevirir.
// Cross-tenant ayrı tutulur: 403 + security audit kaydı. 404/400'e
// indirgenmez ki denetim tarafında iz kalsın.
func mapPricingError(c *fiber.Ctx, body CreateOrderRequest, err error) error {
	if errors.Is(err, catalog.ErrCrossTenant) {
		log.Printf("[SECURITY] Cross-tenant ürün denemesi (restaurant=%d): %v", body.RestaurantID, err)
		_ = audit.WriteSecurityFault(body.RestaurantID, "order", 0,
			fmt.Sprintf("Cross-tenant ürün denemesi: %v", err))
		return fiber.NewError(fiber.StatusForbidden, "Ürün bu restorana ait değil")
	}

	switch {
	case errors.Is(err, catalog.ErrProductMissing),
		errors.Is(err, catalog.ErrProductInactive),
		errors.Is(err, catalog.ErrVariantInvalid),
		errors.Is(err, catalog.ErrExtraInvalid),
		errors.Is(err, ErrPromotionInvalid),
		errors.Is(err, ErrPromotionMinOrder):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	log.Println("Fiyatlama hatası:", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
}

const orderNumberRetries = 5

// persistOrder: sipariş numarasını üretip kaydeder, tenant içi unique index
// çakışmasında yeni numarayla tekrar dener.
func persistOrder(orderRow *models.Order) error {
	var lastErr error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		orderRow.OrderNumber = GenerateOrderNumber(time.Now())
		err := database.DB.Create(orderRow).Error
		if err == nil {
			return nil
		}
		lastErr = err
		if isUniqueViolation(err) {
			orderRow.ID = 0
			continue
		}
		return err
	}
	return fmt.Errorf("sipariş numarası üretilemedi: %w", lastErr)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func insertItems(orderID uint, items []PricedItem) {
	for _, item := range items {
		row := models.OrderItem{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("Sipariş satırı kaydedilemedi (order=%d product=%d): %v", orderID, item.ProductID, err)
			continue
		}
		for _, ex := range item.Extras {
			exRow := models.OrderItemExtra{
				OrderItemID: row.ID,
				ExtraID:     ex.ExtraID,
				Name:        ex.Name,
				Price:       ex.Price,
			}
			if err := database.DB.Create(&exRow).Error; err != nil {
				log.Printf("Sipariş ekstrası kaydedilemedi (item=%d extra=%d): %v", row.ID, ex.ExtraID, err)
			}
		}
	}
}
