package audit_test

import (
	"net/http"
	"testing"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/models"
	"siparis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuditApp(role models.UserRole, restaurantID *uint) *fiber.App {
	app := testutil.NewApp()
	app.Use(testutil.AuthStub(1, role, restaurantID))
	app.Get("/api/audit-logs", audit.ListAuditLogsHandler())
	return app
}

func seedLogs(t *testing.T, db *gorm.DB) {
	t.Helper()
	rid1, rid2 := uint(1), uint(2)
	require.NoError(t, audit.WriteLog(audit.LogOptions{
		RestaurantID: &rid1, UserID: 1, UserName: "Veli",
		EntityType: "order", EntityID: 10, Action: models.AuditActionCreate,
		Description: "Sipariş alındı", After: map[string]any{"total": 130.0},
	}))
	require.NoError(t, audit.WriteLog(audit.LogOptions{
		RestaurantID: &rid1, UserID: 1, UserName: "Veli",
		EntityType: "table", EntityID: 3, Action: models.AuditActionUpdate,
		Description: "Masa dolu", Before: "available", After: "occupied",
	}))
	require.NoError(t, audit.WriteSecurityFault(rid1, "order", 0, "Cross-tenant ürün denemesi"))
	require.NoError(t, audit.WriteLog(audit.LogOptions{
		RestaurantID: &rid2, EntityType: "order", EntityID: 99,
		Action: models.AuditActionCreate, Description: "Başka restoran",
	}))
}

func TestWriteLogSerializesBeforeAfter(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLogs(t, db)

	var row models.AuditLog
	require.NoError(t, db.Where("entity_type = ?", "table").First(&row).Error)
	assert.Equal(t, `"available"`, row.BeforeData)
	assert.Equal(t, `"occupied"`, row.AfterData)

	// Before verilmemişse JSON null yazılır, boş string değil
	require.NoError(t, db.Where("action = ?", models.AuditActionSecurity).First(&row).Error)
	assert.Equal(t, "null", row.BeforeData)
}

func TestListAuditLogsTenantLocked(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLogs(t, db)

	rid := uint(1)
	app := newAuditApp(models.RoleOwner, &rid)

	var out []audit.AuditLogResponse
	resp := testutil.DoJSON(t, app, "GET", "/api/audit-logs", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 3)
	for _, l := range out {
		require.NotNil(t, l.RestaurantID)
		assert.Equal(t, uint(1), *l.RestaurantID)
	}

	// Owner başka restoranı sorgulasa bile kendi tenant'ına kilitli...
	out = nil
	resp = testutil.DoJSON(t, app, "GET", "/api/audit-logs?restaurant_id=2", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 3)

	// ...super_admin ise seçebilir
	adminApp := newAuditApp(models.RoleSuperAdmin, nil)
	out = nil
	resp = testutil.DoJSON(t, adminApp, "GET", "/api/audit-logs?restaurant_id=2", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 1)
	assert.Equal(t, uint(99), out[0].EntityID)
}

func TestListAuditLogsFilters(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLogs(t, db)

	rid := uint(1)
	app := newAuditApp(models.RoleOwner, &rid)

	var out []audit.AuditLogResponse
	resp := testutil.DoJSON(t, app, "GET", "/api/audit-logs?action=security", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 1)
	assert.Equal(t, models.AuditActionSecurity, out[0].Action)

	out = nil
	resp = testutil.DoJSON(t, app, "GET", "/api/audit-logs?entity_type=order&entity_id=10", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 1)
	assert.Equal(t, "Sipariş alındı", out[0].Description)
}
