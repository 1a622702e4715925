package audit

import (
	"encoding/json"
	"fmt"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"
)

type LogOptions struct {
	RestaurantID *uint
	UserID       uint
	UserName     string
	EntityType   string
	EntityID     uint
	Action       models.AuditAction
	Description  string
	Before       any
	After        any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null" // Default: null JSON
	afterStr := "null"  // Default: null JSON

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		RestaurantID: opts.RestaurantID,
		UserID:       opts.UserID,
		UserName:     opts.UserName,
		EntityType:   opts.EntityType,
		EntityID:     opts.EntityID,
		Action:       opts.Action,
		Description:  opts.Description,
		BeforeData:   beforeStr,
		AfterData:    afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// WriteSecurityFault: tenant sınırı ihlali girişimlerini ayrı action ile loglar.
// Bu kayıtlar denetim için "security" action'ı altında toplanır, olağan
// create/update loglarına karışmaz.
func WriteSecurityFault(restaurantID uint, entityType string, entityID uint, description string) error {
	return WriteLog(LogOptions{
		RestaurantID: &restaurantID,
		EntityType:   entityType,
		EntityID:     entityID,
		Action:       models.AuditActionSecurity,
		Description:  description,
	})
}
