package loyalty

import (
	"net/http"
	"testing"

	"siparis-backend/internal/models"
	"siparis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLoyaltyApp(restaurantID uint) *fiber.App {
	app := testutil.NewApp()
	rid := restaurantID
	app.Use(testutil.AuthStub(1, models.RoleOwner, &rid))
	app.Get("/api/loyalty-customers", ListCustomersHandler())
	app.Post("/api/loyalty-customers/:id/bonus", AddBonusHandler())
	app.Post("/api/loyalty-customers/:id/redeem", RedeemPointsHandler())
	return app
}

func seedLoyaltyData(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Restaurant{
		ID: 1, Name: "Kebapçı Halil", Slug: "kebapci-halil", IsActive: true,
	}).Error)
	customers := []models.LoyaltyCustomer{
		{ID: 1, RestaurantID: 1, Phone: "05551112233", Name: "Ali", TotalPoints: 150},
		{ID: 2, RestaurantID: 1, Phone: "05329998877", Name: "Ayşe", TotalPoints: 40},
	}
	for i := range customers {
		require.NoError(t, db.Create(&customers[i]).Error)
	}
}

func TestListCustomers(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLoyaltyData(t, db)
	app := newLoyaltyApp(1)

	var out []LoyaltyCustomerResponse
	resp := testutil.DoJSON(t, app, "GET", "/api/loyalty-customers", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 2)
	assert.Equal(t, "Ali", out[0].Name) // puana göre azalan sıra

	out = nil
	resp = testutil.DoJSON(t, app, "GET", "/api/loyalty-customers?phone=0532", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out, 1)
	assert.Equal(t, "Ayşe", out[0].Name)
}

func TestAddBonusPoints(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLoyaltyData(t, db)
	app := newLoyaltyApp(1)

	var out LoyaltyCustomerResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/loyalty-customers/2/bonus",
		BonusPointsRequest{Points: 25}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 65, out.TotalPoints)

	resp = testutil.DoJSON(t, app, "POST", "/api/loyalty-customers/99/bonus",
		BonusPointsRequest{Points: 25}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = testutil.DoJSON(t, app, "POST", "/api/loyalty-customers/2/bonus",
		BonusPointsRequest{Points: -5}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRedeemPoints(t *testing.T) {
	db := testutil.SetupDB(t)
	seedLoyaltyData(t, db)
	app := newLoyaltyApp(1)

	var out LoyaltyCustomerResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/loyalty-customers/1/redeem",
		RedeemPointsRequest{Points: 100}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 50, out.TotalPoints)

	// Bakiyeden fazlası harcanamaz
	resp = testutil.DoJSON(t, app, "POST", "/api/loyalty-customers/1/redeem",
		RedeemPointsRequest{Points: 60}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var cust models.LoyaltyCustomer
	require.NoError(t, db.First(&cust, 1).Error)
	assert.Equal(t, 50, cust.TotalPoints)
}
