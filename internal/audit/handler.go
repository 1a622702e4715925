package audit

import (
	"fmt"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID           uint               `json:"id"`
	CreatedAt    string             `json:"created_at"`
	RestaurantID *uint              `json:"restaurant_id"`
	UserID       uint               `json:"user_id"`
	UserName     string             `json:"user_name"`
	EntityType   string             `json:"entity_type"`
	EntityID     uint               `json:"entity_id"`
	Action       models.AuditAction `json:"action"`
	Description  string             `json:"description"`
}

// GET /api/audit-logs?entity_type=order&entity_id=1&action=security
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		// Restoran filtresi: super_admin query'den seçer, diğerleri kendi tenant'ına kilitli
		var restaurantID *uint
		if role == models.RoleSuperAdmin {
			ridStr := c.Query("restaurant_id")
			if ridStr != "" {
				var rid uint
				if _, err := fmt.Sscan(ridStr, &rid); err == nil && rid > 0 {
					restaurantID = &rid
				}
			}
		} else {
			rid, err := auth.RestaurantIDFromCtx(c)
			if err != nil {
				return err
			}
			restaurantID = &rid
		}

		entityType := c.Query("entity_type")
		entityIDStr := c.Query("entity_id")
		action := c.Query("action")

		dbq := database.DB.Model(&models.AuditLog{})

		if restaurantID != nil {
			dbq = dbq.Where("restaurant_id = ?", *restaurantID)
		}
		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if action != "" {
			dbq = dbq.Where("action = ?", action)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(500).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:           l.ID,
				CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
				RestaurantID: l.RestaurantID,
				UserID:       l.UserID,
				UserName:     l.UserName,
				EntityType:   l.EntityType,
				EntityID:     l.EntityID,
				Action:       l.Action,
				Description:  l.Description,
			})
		}

		return c.JSON(resp)
	}
}
