package giftcard

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateGiftCardRequest struct {
	Amount    float64 `json:"amount"`
	ExpiresAt *string `json:"expires_at"` // "2026-12-31"
}

type GiftCardResponse struct {
	ID              uint                  `json:"id"`
	Code            string                `json:"code"`
	InitialAmount   float64               `json:"initial_amount"`
	RemainingAmount float64               `json:"remaining_amount"`
	Status          models.GiftCardStatus `json:"status"`
	ExpiresAt       *string               `json:"expires_at"`
	CreatedAt       string                `json:"created_at"`
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode() string {
	b := make([]byte, 10)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			b[i] = codeAlphabet[time.Now().Nanosecond()%len(codeAlphabet)]
			continue
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return "GC-" + string(b)
}

func toResponse(card models.GiftCard) GiftCardResponse {
	resp := GiftCardResponse{
		ID:              card.ID,
		Code:            card.Code,
		InitialAmount:   card.InitialAmount,
		RemainingAmount: card.RemainingAmount,
		Status:          card.Status,
		CreatedAt:       card.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if card.ExpiresAt != nil {
		s := card.ExpiresAt.Format("2006-01-02")
		resp.ExpiresAt = &s
	}
	return resp
}

// POST /api/gift-cards — kart oluşturma (owner)
func CreateGiftCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateGiftCardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}

		var expiresAt *time.Time
		if body.ExpiresAt != nil && *body.ExpiresAt != "" {
			t, err := time.Parse("2006-01-02", *body.ExpiresAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			expiresAt = &t
		}

		card := models.GiftCard{
			RestaurantID:    restaurantID,
			Code:            generateCode(),
			InitialAmount:   body.Amount,
			RemainingAmount: body.Amount,
			Status:          models.GiftCardStatusActive,
			ExpiresAt:       expiresAt,
		}

		// Kod çakışması teoride mümkün, unique index yakalar
		for attempt := 0; attempt < 3; attempt++ {
			if err := database.DB.Create(&card).Error; err == nil {
				break
			} else if attempt == 2 {
				return fiber.NewError(fiber.StatusInternalServerError, "Hediye kartı oluşturulamadı")
			}
			card.ID = 0
			card.Code = generateCode()
		}

		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		_ = database.DB.First(&user, "id = ?", userID).Error
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     user.Name,
			EntityType:   "gift_card",
			EntityID:     card.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Hediye kartı: %s (%.2f)", card.Code, card.InitialAmount),
			After:        toResponse(card),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(card))
	}
}

// GET /api/gift-cards — kart listesi
func ListGiftCardsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var cards []models.GiftCard
		if err := database.DB.
			Where("restaurant_id = ?", restaurantID).
			Order("created_at DESC").
			Find(&cards).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hediye kartları listelenemedi")
		}

		res := make([]GiftCardResponse, 0, len(cards))
		for _, card := range cards {
			res = append(res, toResponse(card))
		}
		return c.JSON(res)
	}
}

// GET /api/gift-cards/lookup?code=GC-... — kasa için bakiye sorgusu
func LookupGiftCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		code := strings.TrimSpace(c.Query("code"))
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code zorunlu")
		}

		var card models.GiftCard
		if err := database.DB.
			Where("restaurant_id = ? AND code = ?", restaurantID, code).
			First(&card).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hediye kartı bulunamadı")
		}

		return c.JSON(toResponse(card))
	}
}

// POST /api/gift-cards/:id/cancel — kart iptali
func CancelGiftCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		cardID, err := c.ParamsInt("id")
		if err != nil || cardID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kart id")
		}

		var card models.GiftCard
		if err := database.DB.
			Where("id = ? AND restaurant_id = ?", cardID, restaurantID).
			First(&card).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hediye kartı bulunamadı")
		}

		if card.Status != models.GiftCardStatusActive {
			return fiber.NewError(fiber.StatusConflict, "Kart zaten kapanmış")
		}

		// Guard aktif durum üzerinde: eşzamanlı bir harcama ile yarışırsa
		// yalnızca biri kazanır
		res := database.DB.Model(&models.GiftCard{}).
			Where("id = ? AND status = ?", card.ID, models.GiftCardStatusActive).
			Update("status", models.GiftCardStatusCancelled)
		if res.Error != nil || res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Kart iptal edilemedi, tekrar deneyin")
		}

		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		_ = database.DB.First(&user, "id = ?", userID).Error
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     user.Name,
			EntityType:   "gift_card",
			EntityID:     card.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Hediye kartı iptal: %s (kalan %.2f)", card.Code, card.RemainingAmount),
			Before:       card.Status,
			After:        models.GiftCardStatusCancelled,
		})

		database.DB.First(&card, card.ID)
		return c.JSON(toResponse(card))
	}
}
