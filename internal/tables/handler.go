// Package tables: masa doluluk makinesi. Sipariş durum makinesinden
// bilinçli olarak bağımsız; aralarındaki tek bağ bilgi amaçlı
// current_order_id. Masa dolu görünürken canlı sipariş olmayabilir,
// iki makine arasında tutarlılık invariant'ı yok.
package tables

import (
	"fmt"
	"strings"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

type UpdateTableStatusRequest struct {
	Status  models.TableStatus `json:"status"`
	OrderID *uint              `json:"order_id"` // occupied'a geçerken opsiyonel
}

type TableResponse struct {
	ID             uint               `json:"id"`
	Number         string             `json:"number"`
	Capacity       int                `json:"capacity"`
	Status         models.TableStatus `json:"status"`
	CurrentOrderID *uint              `json:"current_order_id"`
	// Dolu masada gösterilen sipariş özeti; bilgi amaçlı, tutarlılık aranmaz
	OrderNumber   string  `json:"order_number,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	OrderTotal    float64 `json:"order_total,omitempty"`
	UpdatedAt     string  `json:"updated_at"`
}

// Geçerli masa geçişleri: available -> occupied -> cleaning -> available,
// rezervasyon yan girişi: available -> reserved -> occupied|available
var tableTransitions = map[models.TableStatus][]models.TableStatus{
	models.TableStatusAvailable: {models.TableStatusOccupied, models.TableStatusReserved},
	models.TableStatusOccupied:  {models.TableStatusCleaning},
	models.TableStatusCleaning:  {models.TableStatusAvailable},
	models.TableStatusReserved:  {models.TableStatusOccupied, models.TableStatusAvailable},
}

func canTransition(from, to models.TableStatus) bool {
	for _, allowed := range tableTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func toTableResponse(t models.Table) TableResponse {
	resp := TableResponse{
		ID:             t.ID,
		Number:         t.Number,
		Capacity:       t.Capacity,
		Status:         t.Status,
		CurrentOrderID: t.CurrentOrderID,
		UpdatedAt:      t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if t.CurrentOrderID != nil {
		var o models.Order
		if err := database.DB.First(&o, *t.CurrentOrderID).Error; err == nil {
			resp.OrderNumber = o.OrderNumber
			resp.CustomerName = o.CustomerName
			resp.OrderTotal = o.Total
		}
	}

	return resp
}

// POST /api/tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Number = strings.TrimSpace(body.Number)
		if body.Number == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Masa numarası boş olamaz")
		}
		if body.Capacity <= 0 {
			body.Capacity = 4
		}

		table := models.Table{
			RestaurantID: restaurantID,
			Number:       body.Number,
			Capacity:     body.Capacity,
			Status:       models.TableStatusAvailable,
		}

		if err := database.DB.Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toTableResponse(table))
	}
}

// GET /api/tables
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var tables []models.Table
		if err := database.DB.
			Where("restaurant_id = ?", restaurantID).
			Order("number ASC").
			Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}

		res := make([]TableResponse, 0, len(tables))
		for _, t := range tables {
			res = append(res, toTableResponse(t))
		}
		return c.JSON(res)
	}
}

// PATCH /api/tables/:id/status
func UpdateTableStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		tableID, err := c.ParamsInt("id")
		if err != nil || tableID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa id")
		}

		var body UpdateTableStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var table models.Table
		if err := database.DB.
			Where("id = ? AND restaurant_id = ?", tableID, restaurantID).
			First(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		if table.Status == body.Status {
			// Aynı duruma tekrar basılmış, no-op
			return c.JSON(toTableResponse(table))
		}
		if !canTransition(table.Status, body.Status) {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Geçersiz masa geçişi: %s -> %s", table.Status, body.Status))
		}

		updates := map[string]interface{}{"status": body.Status}
		switch body.Status {
		case models.TableStatusOccupied:
			// order_id verilmeden de dolu yapılabilir (henüz sipariş vermemiş müşteri)
			if body.OrderID != nil {
				updates["current_order_id"] = *body.OrderID
			}
		case models.TableStatusCleaning, models.TableStatusAvailable:
			updates["current_order_id"] = nil
		}

		if err := database.DB.Model(&table).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa durumu güncellenemedi")
		}

		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		_ = database.DB.First(&user, "id = ?", userID).Error
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     user.Name,
			EntityType:   "table",
			EntityID:     table.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Masa %s: %s -> %s", table.Number, table.Status, body.Status),
			Before:       table.Status,
			After:        body.Status,
		})

		database.DB.First(&table, table.ID)
		return c.JSON(toTableResponse(table))
	}
}
