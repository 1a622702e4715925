package order

import (
	"net/http"
	"testing"

	"siparis-backend/internal/models"
	"siparis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromotionApp(restaurantID uint) *fiber.App {
	app := testutil.NewApp()
	rid := restaurantID
	app.Use(testutil.AuthStub(1, models.RoleOwner, &rid))
	app.Post("/api/promotions", CreatePromotionHandler())
	app.Get("/api/promotions", ListPromotionsHandler())
	app.Patch("/api/promotions/:id/deactivate", DeactivatePromotionHandler())
	return app
}

func TestCreatePromotion(t *testing.T) {
	db := testutil.SetupDB(t)
	seedStatusData(t, db)
	app := newPromotionApp(1)

	maxUses := 100
	expires := "2026-12-31"
	var out PromotionResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/promotions", CreatePromotionRequest{
		Code:           "  save10  ",
		DiscountType:   models.DiscountTypePercent,
		DiscountValue:  10,
		MaxUses:        &maxUses,
		MinOrderAmount: 50,
		ExpiresAt:      &expires,
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Kod normalize edilir: trim + büyük harf
	assert.Equal(t, "SAVE10", out.Code)
	assert.Equal(t, 0, out.CurrentUses)
	assert.True(t, out.IsActive)
	require.NotNil(t, out.ExpiresAt)
	assert.Equal(t, "2026-12-31", *out.ExpiresAt)

	// Aynı kod ikinci kez tanımlanamaz
	resp = testutil.DoJSON(t, app, "POST", "/api/promotions", CreatePromotionRequest{
		Code: "SAVE10", DiscountType: models.DiscountTypePercent, DiscountValue: 5,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePromotionValidation(t *testing.T) {
	db := testutil.SetupDB(t)
	seedStatusData(t, db)
	app := newPromotionApp(1)

	badMax := 0
	tests := []struct {
		name string
		body CreatePromotionRequest
	}{
		{"empty code", CreatePromotionRequest{DiscountType: models.DiscountTypePercent, DiscountValue: 10}},
		{"bad type", CreatePromotionRequest{Code: "X", DiscountType: "bogo", DiscountValue: 10}},
		{"zero value", CreatePromotionRequest{Code: "X", DiscountType: models.DiscountTypeFixed, DiscountValue: 0}},
		{"percent over 100", CreatePromotionRequest{Code: "X", DiscountType: models.DiscountTypePercent, DiscountValue: 150}},
		{"zero max uses", CreatePromotionRequest{Code: "X", DiscountType: models.DiscountTypeFixed, DiscountValue: 10, MaxUses: &badMax}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, app, "POST", "/api/promotions", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestDeactivatePromotion(t *testing.T) {
	db := testutil.SetupDB(t)
	seedStatusData(t, db)
	app := newPromotionApp(1)

	require.NoError(t, db.Create(&models.Promotion{
		ID: 1, RestaurantID: 1, Code: "SAVE10",
		DiscountType: models.DiscountTypePercent, DiscountValue: 10,
		CurrentUses: 7, IsActive: true,
	}).Error)

	var out PromotionResponse
	resp := testutil.DoJSON(t, app, "PATCH", "/api/promotions/1/deactivate", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, out.IsActive)
	assert.Equal(t, 7, out.CurrentUses) // kullanım geçmişi korunur

	resp = testutil.DoJSON(t, app, "PATCH", "/api/promotions/99/deactivate", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
