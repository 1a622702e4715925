package giftcard

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

func newGiftCardApp(restaurantID uint) *fiber.App {
	app := testutil.NewApp()
	rid := restaurantID
	app.Use(testutil.AuthStub(1, models.RoleOwner, &rid))
	app.Post("/api/gift-cards", CreateGiftCardHandler())
	app.Get("/api/gift-cards", ListGiftCardsHandler())
	app.Get("/api/gift-cards/lookup", LookupGiftCardHandler())
	app.Post("/api/gift-cards/:id/cancel", CancelGiftCardHandler())
	return app
}

func seedGiftCardData(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Restaurant{
		ID: 1, Name: "Kebapçı Halil", Slug: "kebapci-halil", IsActive: true,
	}).Error)
}

func TestCreateAndLookupGiftCard(t *testing.T) {
	db := testutil.SetupDB(t)
	seedGiftCardData(t, db)
	app := newGiftCardApp(1)

	var created GiftCardResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/gift-cards",
		CreateGiftCardRequest{Amount: 250}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, `^GC-[A-Z2-9]{10}$`, created.Code)
	assert.Equal(t, 250.0, created.InitialAmount)
	assert.Equal(t, 250.0, created.RemainingAmount)
	assert.Equal(t, models.GiftCardStatusActive, created.Status)

	var found GiftCardResponse
	resp = testutil.DoJSON(t, app, "GET", "/api/gift-cards/lookup?code="+created.Code, nil, &found)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, found.ID)

	resp = testutil.DoJSON(t, app, "GET", "/api/gift-cards/lookup?code=GC-YOKBOYLEKOD", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateGiftCardValidation(t *testing.T) {
	db := testutil.SetupDB(t)
	seedGiftCardData(t, db)
	app := newGiftCardApp(1)

	resp := testutil.DoJSON(t, app, "POST", "/api/gift-cards",
		CreateGiftCardRequest{Amount: 0}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := "31-12-2026"
	resp = testutil.DoJSON(t, app, "POST", "/api/gift-cards",
		CreateGiftCardRequest{Amount: 100, ExpiresAt: &bad}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCancelGiftCard(t *testing.T) {
	db := testutil.SetupDB(t)
	seedGiftCardData(t, db)
	app := newGiftCardApp(1)

	require.NoError(t, db.Create(&models.GiftCard{
		ID: 1, RestaurantID: 1, Code: "GC-IPTALTEST1",
		InitialAmount: 100, RemainingAmount: 60,
		Status: models.GiftCardStatusActive,
	}).Error)

	var out GiftCardResponse
	resp := testutil.DoJSON(t, app, "POST", "/api/gift-cards/1/cancel", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.GiftCardStatusCancelled, out.Status)

	// Kapanmış kart ikinci kez iptal edilemez
	resp = testutil.DoJSON(t, app, "POST", "/api/gift-cards/1/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var logCount int64
	db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", "gift_card", 1).
		Count(&logCount)
	assert.Equal(t, int64(1), logCount)
}

func TestGiftCardTenantScope(t *testing.T) {
	db := testutil.SetupDB(t)
	seedGiftCardData(t, db)
	require.NoError(t, db.Create(&models.Restaurant{
		ID: 2, Name: "Rakip", Slug: "rakip", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.GiftCard{
		ID: 1, RestaurantID: 2, Code: "GC-DIGERREST1",
		InitialAmount: 100, RemainingAmount: 100,
		Status: models.GiftCardStatusActive,
	}).Error)

	app := newGiftCardApp(1)

	resp := testutil.DoJSON(t, app, "GET", "/api/gift-cards/lookup?code=GC-DIGERREST1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = testutil.DoJSON(t, app, "POST", "/api/gift-cards/1/cancel", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
