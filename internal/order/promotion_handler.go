package order

import (
	"strings"
	"time"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePromotionRequest struct {
	Code           string              `json:"code"`
	DiscountType   models.DiscountType `json:"discount_type"`
	DiscountValue  float64             `json:"discount_value"`
	MaxUses        *int                `json:"max_uses"` // nil = sınırsız
	MinOrderAmount float64             `json:"min_order_amount"`
	ExpiresAt      *string             `json:"expires_at"` // "2026-12-31"
}

type PromotionResponse struct {
	ID             uint                `json:"id"`
	Code           string              `json:"code"`
	DiscountType   models.DiscountType `json:"discount_type"`
	DiscountValue  float64             `json:"discount_value"`
	CurrentUses    int                 `json:"current_uses"`
	MaxUses        *int                `json:"max_uses"`
	MinOrderAmount float64             `json:"min_order_amount"`
	ExpiresAt      *string             `json:"expires_at"`
	IsActive       bool                `json:"is_active"`
	CreatedAt      string              `json:"created_at"`
}

func toPromotionResponse(p models.Promotion) PromotionResponse {
	resp := PromotionResponse{
		ID:             p.ID,
		Code:           p.Code,
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		CurrentUses:    p.CurrentUses,
		MaxUses:        p.MaxUses,
		MinOrderAmount: p.MinOrderAmount,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.ExpiresAt != nil {
		s := p.ExpiresAt.Format("2006-01-02")
		resp.ExpiresAt = &s
	}
	return resp
}

// POST /api/promotions — promosyon kodu tanımlama (owner)
func CreatePromotionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var body CreatePromotionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kod boş olamaz")
		}
		if body.DiscountType != models.DiscountTypePercent && body.DiscountType != models.DiscountTypeFixed {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type percent veya fixed olmalı")
		}
		if body.DiscountValue <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İndirim değeri 0'dan büyük olmalı")
		}
		if body.DiscountType == models.DiscountTypePercent && body.DiscountValue > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "Yüzde indirim 100'ü aşamaz")
		}
		if body.MaxUses != nil && *body.MaxUses <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "max_uses 0'dan büyük olmalı")
		}

		var expiresAt *time.Time
		if body.ExpiresAt != nil && *body.ExpiresAt != "" {
			t, err := time.Parse("2006-01-02", *body.ExpiresAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			expiresAt = &t
		}

		promo := models.Promotion{
			RestaurantID:   restaurantID,
			Code:           body.Code,
			DiscountType:   body.DiscountType,
			DiscountValue:  body.DiscountValue,
			MaxUses:        body.MaxUses,
			MinOrderAmount: body.MinOrderAmount,
			ExpiresAt:      expiresAt,
			IsActive:       true,
		}

		if err := database.DB.Create(&promo).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Promosyon oluşturulamadı (kod kullanımda olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(toPromotionResponse(promo))
	}
}

// GET /api/promotions
func ListPromotionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var promos []models.Promotion
		if err := database.DB.
			Where("restaurant_id = ?", restaurantID).
			Order("created_at DESC").
			Find(&promos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Promosyonlar listelenemedi")
		}

		res := make([]PromotionResponse, 0, len(promos))
		for _, p := range promos {
			res = append(res, toPromotionResponse(p))
		}
		return c.JSON(res)
	}
}

// PATCH /api/promotions/:id/deactivate — kodu kapat.
// current_uses geçmişi silinmez, kayıt pasife çekilir.
func DeactivatePromotionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		promoID, err := c.ParamsInt("id")
		if err != nil || promoID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz promosyon id")
		}

		res := database.DB.Model(&models.Promotion{}).
			Where("id = ? AND restaurant_id = ?", promoID, restaurantID).
			Update("is_active", false)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Promosyon kapatılamadı")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Promosyon bulunamadı")
		}

		var promo models.Promotion
		if err := database.DB.First(&promo, "id = ?", promoID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Promosyon okunamadı")
		}
		return c.JSON(toPromotionResponse(promo))
	}
}
