package catalog

import (
	"errors"
	"fmt"

	"siparis-backend/internal/audit"
	"siparis-backend/internal/auth"
	"siparis-backend/internal/database"
	"siparis-backend/internal/ledger"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductStockResponse struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	IsActive          bool    `json:"is_active"`
	TrackInventory    bool    `json:"track_inventory"`
	StockQuantity     int     `json:"stock_quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	LowStock          bool    `json:"low_stock"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

type AdjustStockRequest struct {
	Quantity int `json:"quantity"` // mutlak değer, sayım sonucu
}

func toStockResponse(p models.Product) ProductStockResponse {
	return ProductStockResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price,
		IsActive:          p.IsActive,
		TrackInventory:    p.TrackInventory,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.TrackInventory && p.StockQuantity <= p.LowStockThreshold,
	}
}

// Yardımcı: audit için kullanıcı bilgilerini al
func getUserInfo(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

// GET /api/products — stok bilgisiyle ürün listesi
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("restaurant_id = ?", restaurantID).
			Order("name ASC").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductStockResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toStockResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/products/low-stock — eşiğin altındaki takipli ürünler
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("restaurant_id = ? AND track_inventory = ? AND stock_quantity <= low_stock_threshold", restaurantID, true).
			Order("stock_quantity ASC").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düşük stok listesi alınamadı")
		}

		res := make([]ProductStockResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toStockResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/products/:id/restock — stok girişi (atomik artış)
func RestockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var body RestockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar 0'dan büyük olmalı")
		}

		if err := ledger.RestockProduct(restaurantID, uint(productID), body.Quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok girişi yapılamadı")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün okunamadı")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "product",
			EntityID:     product.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Stok girişi: %s +%d", product.Name, body.Quantity),
			After:        toStockResponse(product),
		})

		return c.JSON(toStockResponse(product))
	}
}

// PATCH /api/products/:id/stock — manuel sayım düzeltmesi (mutlak değer)
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDFromCtx(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var before models.Product
		if err := database.DB.
			Where("id = ? AND restaurant_id = ?", productID, restaurantID).
			First(&before).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := ledger.SetStock(restaurantID, uint(productID), body.Quantity); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok düzeltilemedi")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün okunamadı")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "product",
			EntityID:     product.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Stok sayımı: %s %d -> %d", product.Name, before.StockQuantity, body.Quantity),
			Before:       toStockResponse(before),
			After:        toStockResponse(product),
		})

		return c.JSON(toStockResponse(product))
	}
}
