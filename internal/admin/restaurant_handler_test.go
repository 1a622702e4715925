package admin

import (
	"net/http"
	"testing"

	"siparis-backend/internal/models"
	"siparis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp() *fiber.App {
	app := testutil.NewApp()
	app.Use(testutil.AuthStub(1, models.RoleSuperAdmin, nil))
	app.Post("/api/admin/restaurants", CreateRestaurantHandler())
	app.Get("/api/admin/restaurants", ListRestaurantsHandler())
	app.Get("/api/admin/restaurants/:id", GetRestaurantHandler())
	app.Put("/api/admin/restaurants/:id", UpdateRestaurantHandler())
	app.Post("/api/admin/restaurants/:id/staff", CreateStaffHandler())
	app.Get("/api/admin/restaurants/:id/staff", ListStaffHandler())
	return app
}

func TestCreateRestaurant(t *testing.T) {
	testutil.SetupDB(t)
	app := newAdminApp()

	var out RestaurantResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/admin/restaurants", CreateRestaurantRequest{
		Name: "Kebapçı Halil", Slug: "Kebapci-Halil", Address: "Adana",
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "kebapci-halil", out.Slug) // slug küçük harfe çekilir
	assert.True(t, out.IsActive)
	assert.Equal(t, "TRY", out.Currency)

	// Slug tekil
	resp = testutil.DoJSON(t, app, "POST", "/api/admin/restaurants", CreateRestaurantRequest{
		Name: "Kopya", Slug: "kebapci-halil",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Ad/slug zorunlu
	resp = testutil.DoJSON(t, app, "POST", "/api/admin/restaurants", CreateRestaurantRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRestaurantSettings(t *testing.T) {
	db := testutil.SetupDB(t)
	app := newAdminApp()

	require.NoError(t, db.Create(&models.Restaurant{
		ID: 1, Name: "Kebapçı Halil", Slug: "kebapci-halil", IsActive: true,
	}).Error)

	fee := 25.0
	ppu := 0.5
	inactive := false
	var out RestaurantResponse
	resp := testutil.DoJSON(t, app, "PUT", "/api/admin/restaurants/1", UpdateRestaurantRequest{
		DeliveryFee:          &fee,
		LoyaltyPointsPerUnit: &ppu,
		IsActive:             &inactive,
	}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 25.0, out.DeliveryFee)
	assert.Equal(t, 0.5, out.LoyaltyPointsPerUnit)
	assert.False(t, out.IsActive)

	resp = testutil.DoJSON(t, app, "PUT", "/api/admin/restaurants/99", UpdateRestaurantRequest{}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateAndListStaff(t *testing.T) {
	db := testutil.SetupDB(t)
	app := newAdminApp()

	require.NoError(t, db.Create(&models.Restaurant{
		ID: 1, Name: "Kebapçı Halil", Slug: "kebapci-halil", IsActive: true,
	}).Error)

	var created StaffResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/admin/restaurants/1/staff", CreateStaffRequest{
		Name: "Veli", Email: "Veli@Test.com", Password: "gizli123", Role: models.RoleOwner,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "veli@test.com", created.Email)
	assert.Equal(t, "owner", created.Role)
	require.NotNil(t, created.RestaurantID)
	assert.Equal(t, uint(1), *created.RestaurantID)

	// super_admin rolü bu endpoint'ten verilemez
	resp = testutil.DoJSON(t, app, "POST", "/api/admin/restaurants/1/staff", CreateStaffRequest{
		Name: "Kötü", Email: "kotu@test.com", Password: "gizli123", Role: models.RoleSuperAdmin,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Aynı email ikinci kez kayıt edilemez
	resp = testutil.DoJSON(t, app, "POST", "/api/admin/restaurants/1/staff", CreateStaffRequest{
		Name: "Veli2", Email: "veli@test.com", Password: "gizli123", Role: models.RoleStaff,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Olmayan restorana personel eklenemez
	resp = testutil.DoJSON(t, app, "POST", "/api/admin/restaurants/42/staff", CreateStaffRequest{
		Name: "Veli3", Email: "veli3@test.com", Password: "gizli123", Role: models.RoleStaff,
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var staff []StaffResponse
	resp = testutil.DoJSON(t, app, "GET", "/api/admin/restaurants/1/staff", nil, &staff)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, staff, 1)
}
