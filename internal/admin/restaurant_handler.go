package admin

import (
	"strings"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RestaurantResponse struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	Slug                 string  `json:"slug"`
	Address              string  `json:"address"`
	Phone                string  `json:"phone"`
	Currency             string  `json:"currency"`
	DeliveryFee          float64 `json:"delivery_fee"`
	LoyaltyPointsPerUnit float64 `json:"loyalty_points_per_unit"`
	IsActive             bool    `json:"is_active"`
	CreatedAt            string  `json:"created_at"`
}

type CreateRestaurantRequest struct {
	Name                 string   `json:"name"`
	Slug                 string   `json:"slug"`
	Address              string   `json:"address"`
	Phone                *string  `json:"phone"` // Opsiyonel
	Currency             *string  `json:"currency"`
	DeliveryFee          *float64 `json:"delivery_fee"`
	LoyaltyPointsPerUnit *float64 `json:"loyalty_points_per_unit"`
}

type UpdateRestaurantRequest struct {
	Name                 *string  `json:"name"`
	Address              *string  `json:"address"`
	Phone                *string  `json:"phone"`
	DeliveryFee          *float64 `json:"delivery_fee"`
	LoyaltyPointsPerUnit *float64 `json:"loyalty_points_per_unit"`
	IsActive             *bool    `json:"is_active"`
}

type CreateStaffRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"` // owner | staff
}

type StaffResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID *uint  `json:"restaurant_id"`
	CreatedAt    string `json:"created_at"`
}

func toRestaurantResponse(r models.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		Slug:                 r.Slug,
		Address:              r.Address,
		Phone:                r.Phone,
		Currency:             r.Currency,
		DeliveryFee:          r.DeliveryFee,
		LoyaltyPointsPerUnit: r.LoyaltyPointsPerUnit,
		IsActive:             r.IsActive,
		CreatedAt:            r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// RESTORAN CRUD (super_admin)
// ----------------------------------------

func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
		if body.Name == "" || body.Slug == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Restoran adı ve slug boş olamaz")
		}

		// Slug kontrolü
		var exist models.Restaurant
		if err := database.DB.Where("slug = ?", body.Slug).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu slug zaten kullanımda")
		}

		restaurant := models.Restaurant{
			Name:                 body.Name,
			Slug:                 body.Slug,
			Address:              body.Address,
			Currency:             "TRY",
			LoyaltyPointsPerUnit: 1,
			IsActive:             true,
		}
		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Currency != nil {
			restaurant.Currency = *body.Currency
		}
		if body.DeliveryFee != nil {
			restaurant.DeliveryFee = *body.DeliveryFee
		}
		if body.LoyaltyPointsPerUnit != nil {
			restaurant.LoyaltyPointsPerUnit = *body.LoyaltyPointsPerUnit
		}

		if err := database.DB.Create(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toRestaurantResponse(restaurant))
	}
}

func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurants []models.Restaurant
		if err := database.DB.Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoranlar listelenemedi")
		}

		res := make([]RestaurantResponse, 0, len(restaurants))
		for _, r := range restaurants {
			res = append(res, toRestaurantResponse(r))
		}
		return c.JSON(res)
	}
}

func GetRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

func UpdateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var body UpdateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Restoran adı boş olamaz")
			}
			restaurant.Name = name
		}
		if body.Address != nil {
			restaurant.Address = *body.Address
		}
		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.DeliveryFee != nil {
			restaurant.DeliveryFee = *body.DeliveryFee
		}
		if body.LoyaltyPointsPerUnit != nil {
			restaurant.LoyaltyPointsPerUnit = *body.LoyaltyPointsPerUnit
		}
		if body.IsActive != nil {
			restaurant.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran güncellenemedi")
		}

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

// ----------------------------------------
// PERSONEL OLUŞTURMA
// POST /api/admin/restaurants/:id/staff
// ----------------------------------------

func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", restaurantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}
		if body.Role != models.RoleOwner && body.Role != models.RoleStaff {
			return fiber.NewError(fiber.StatusBadRequest, "Rol owner veya staff olmalı")
		}

		// Email kontrolü
		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kayıtlı")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			RestaurantID: &restaurant.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(StaffResponse{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Role:         string(user.Role),
			RestaurantID: user.RestaurantID,
			CreatedAt:    user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/restaurants/:id/staff
func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := c.Params("id")

		var users []models.User
		if err := database.DB.
			Where("restaurant_id = ?", restaurantID).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listelenemedi")
		}

		res := make([]StaffResponse, 0, len(users))
		for _, u := range users {
			res = append(res, StaffResponse{
				ID:           u.ID,
				Name:         u.Name,
				Email:        u.Email,
				Role:         string(u.Role),
				RestaurantID: u.RestaurantID,
				CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
