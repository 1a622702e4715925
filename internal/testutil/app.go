package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"siparis-backend/internal/auth"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// NewApp: prod'daki error handler ile fiber uygulaması.
// fiber.NewError'ların {"error": ...} JSON'una çevrilmesi testlerde de aynı.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
}

// AuthStub: JWT middleware'in context'e koyduğu değerleri doğrudan koyar,
// testlerde token üretmeye gerek kalmaz.
func AuthStub(userID uint, role models.UserRole, restaurantID *uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, role)
		c.Locals(auth.CtxRestaurantIDKey, restaurantID)
		return c.Next()
	}
}

// NewAuthedRequest: Bearer token'lı istek.
func NewAuthedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// DoJSON: body'yi marshal edip isteği uygulamadan geçirir, cevabı decode eder.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("istek gövdesi marshal edilemedi: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}

	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("cevap decode edilemedi: %v", err)
		}
	}

	return resp
}
