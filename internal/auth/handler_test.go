package auth_test

import (
	"net/http"
	"testing"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/config"
	"siparis-backend/internal/models"
	"siparis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}
}

func newAuthApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	app.Post("/api/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	app.Post("/api/auth/login", auth.LoginHandler(cfg))

	protected := app.Group("/api", auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/admin-only", auth.RequireRole(models.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestRegisterLoginMeFlow(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	resp := testutil.DoJSON(t, app, "POST", "/api/auth/register-super-admin",
		auth.RegisterSuperAdminRequest{Name: "Admin", Email: "Admin@Test.com", Password: "gizli123"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// İkinci super admin engellenir
	resp = testutil.DoJSON(t, app, "POST", "/api/auth/register-super-admin",
		auth.RegisterSuperAdminRequest{Name: "Admin2", Email: "admin2@test.com", Password: "gizli123"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Email büyük/küçük harf duyarsız
	var login struct {
		Token string `json:"token"`
		User  struct {
			Role models.UserRole `json:"role"`
		} `json:"user"`
	}
	resp = testutil.DoJSON(t, app, "POST", "/api/auth/login",
		auth.LoginRequest{Email: "ADMIN@test.com", Password: "gizli123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleSuperAdmin, login.User.Role)

	// Token ile korumalı endpoint
	req := testutil.NewAuthedRequest("GET", "/api/auth/me", login.Token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	resp := testutil.DoJSON(t, app, "POST", "/api/auth/register-super-admin",
		auth.RegisterSuperAdminRequest{Name: "Admin", Email: "admin@test.com", Password: "gizli123"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = testutil.DoJSON(t, app, "POST", "/api/auth/login",
		auth.LoginRequest{Email: "admin@test.com", Password: "yanlis"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutil.DoJSON(t, app, "POST", "/api/auth/login",
		auth.LoginRequest{Email: "yok@test.com", Password: "gizli123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejections(t *testing.T) {
	testutil.SetupDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	// Header yok
	req := testutil.NewAuthedRequest("GET", "/api/auth/me", "")
	req.Header.Del("Authorization")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bozuk token
	req = testutil.NewAuthedRequest("GET", "/api/auth/me", "bozuk.token.degeri")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Başka secret ile imzalanmış token
	otherToken, err := auth.GenerateToken("baska-secret-baska-secret-baska!", &models.User{ID: 1, Role: models.RoleOwner})
	require.NoError(t, err)
	req = testutil.NewAuthedRequest("GET", "/api/auth/me", otherToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	db := testutil.SetupDB(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	rid := uint(1)
	staff := models.User{
		ID: 5, Name: "Garson", Email: "garson@test.com",
		PasswordHash: "x", Role: models.RoleStaff, RestaurantID: &rid,
	}
	require.NoError(t, db.Create(&staff).Error)

	token, err := auth.GenerateToken(cfg.JWTSecret, &staff)
	require.NoError(t, err)

	req := testutil.NewAuthedRequest("GET", "/api/admin-only", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
