package loyalty

import (
	"errors"
	"fmt"
	"strings"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/ledger"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LoyaltyCustomerResponse struct {
	ID          uint    `json:"id"`
	Phone       string  `json:"phone"`
	Name        string  `json:"name"`
	TotalPoints int     `json:"total_points"`
	TotalSpent  float64 `json:"total_spent"`
	TotalOrders int     `json:"total_orders"`
	CreatedAt   string  `json:"created_at"`
}

type BonusPointsRequest struct {
	Points int `json:"points"`
}

type RedeemPointsRequest struct {
	Points int `json:"points"`
}

func toResponse(cust models.LoyaltyCustomer) LoyaltyCustomerResponse {
	return LoyaltyCustomerResponse{
		ID:          cust.ID,
		Phone:       cust.Phone,
		Name:        cust.Name,
		TotalPoints: cust.TotalPoints,
		TotalSpent:  cust.TotalSpent,
		TotalOrders: cust.TotalOrders,
		CreatedAt:   cust.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/loyalty-customers?phone=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("restaurant_id = ?", restaurantID)
		if phone := strings.TrimSpace(c.Query("phone")); phone != "" {
			dbq = dbq.Where("phone LIKE ?", "%"+phone+"%")
		}

		var customers []models.LoyaltyCustomer
		if err := dbq.Order("total_points DESC").Limit(200).Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		res := make([]LoyaltyCustomerResponse, 0, len(customers))
		for _, cust := range customers {
			res = append(res, toResponse(cust))
		}
		return c.JSON(res)
	}
}

// POST /api/loyalty-customers/:id/bonus — manuel puan hediyesi (owner)
func AddBonusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		customerID, err := c.ParamsInt("id")
		if err != nil || customerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz müşteri id")
		}

		var body BonusPointsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Points <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Puan 0'dan büyük olmalı")
		}

		if err := ledger.AddBonusPoints(restaurantID, uint(customerID), body.Points); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Bonus puan eklenemedi")
		}

		var cust models.LoyaltyCustomer
		if err := database.DB.First(&cust, "id = ?", customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri okunamadı")
		}

		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		_ = database.DB.First(&user, "id = ?", userID).Error
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     user.Name,
			EntityType:   "loyalty_customer",
			EntityID:     cust.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Bonus puan: %s +%d", cust.Phone, body.Points),
			After:        toResponse(cust),
		})

		return c.JSON(toResponse(cust))
	}
}

// POST /api/loyalty-customers/:id/redeem — puan harcama.
// Puanın eksiye inmemesi ledger'daki koşullu UPDATE ile garanti.
func RedeemPointsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		customerID, err := c.ParamsInt("id")
		if err != nil || customerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz müşteri id")
		}

		var body RedeemPointsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Points <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Puan 0'dan büyük olmalı")
		}

		if err := ledger.RedeemLoyaltyPoints(restaurantID, uint(customerID), body.Points); err != nil {
			if errors.Is(err, ledger.ErrPointsInsufficient) {
				return fiber.NewError(fiber.StatusConflict, "Sadakat puanı yetersiz")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Puan harcanamadı")
		}

		var cust models.LoyaltyCustomer
		if err := database.DB.First(&cust, "id = ?", customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri okunamadı")
		}

		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		_ = database.DB.First(&user, "id = ?", userID).Error
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     user.Name,
			EntityType:   "loyalty_customer",
			EntityID:     cust.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Puan harcama: %s -%d", cust.Phone, body.Points),
			After:        toResponse(cust),
		})

		return c.JSON(toResponse(cust))
	}
}
