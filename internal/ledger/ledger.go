// Package ledger: sipariş akışının yarış koşuluna duyarlı sayaçları.
// Tüm güncellemeler storage katmanında koşullu UPDATE ile yapılır;
// uygulama içinde oku-hesapla-yaz deseni bu sayaçlar için yasak.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPromotionExhausted   = errors.New("promosyon kullanım limiti doldu")
	ErrGiftCardInsufficient = errors.New("hediye kartı bakiyesi yetersiz")
	ErrPointsInsufficient   = errors.New("sadakat puanı yetersiz")
)

// ApplyPromotionUse: current_uses'u artırır. max_uses kontrolü artış anında,
// WHERE koşulunda yapılır; iki eşzamanlı sipariş limiti aşamaz.
func ApplyPromotionUse(promotionID uint) error {
	res := database.DB.Model(&models.Promotion{}).
		Where("id = ? AND is_active = ? AND (max_uses IS NULL OR current_uses < max_uses)", promotionID, true).
		Update("current_uses", gorm.Expr("current_uses + 1"))
	if res.Error != nil {
		return fmt.Errorf("promosyon sayacı güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPromotionExhausted
	}
	return nil
}

// DecrementStock: takipli ürünün stoğunu sipariş miktarı kadar düşer.
// Düşüm o anki persist değere karşı yapılır, istek başında okunan değere değil.
// Negatif stok bilinçli olarak engellenmiyor; eksiye düşen ürün düşük stok
// raporunda görünür ve personel manuel düzeltir.
func DecrementStock(productID uint, qty int) error {
	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND track_inventory = ?", productID, true).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok düşülemedi: %w", res.Error)
	}
	return nil
}

// RestockProduct: personel stok girişi, atomik artış.
func RestockProduct(restaurantID, productID uint, qty int) error {
	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND restaurant_id = ?", productID, restaurantID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok girişi yapılamadı: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStock: manuel sayım düzeltmesi, mutlak değer yazar.
func SetStock(restaurantID, productID uint, qty int) error {
	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND restaurant_id = ?", productID, restaurantID).
		Update("stock_quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("stok düzeltilemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const giftCardRetries = 3

// RedeemGiftCard: bakiyeden amount'a kadar düşer, düşülen tutarı döner.
// remaining_amount >= düşülen koşulu WHERE'de; bakiye hiçbir yarışta eksiye inmez.
// Bakiye tutardan azsa kalan bakiyenin tamamı kullanılır (kısmi ödeme).
func RedeemGiftCard(restaurantID uint, code string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, nil
	}

	for attempt := 0; attempt < giftCardRetries; attempt++ {
		var card models.GiftCard
		err := database.DB.
			Where("restaurant_id = ? AND code = ? AND status = ?", restaurantID, code, models.GiftCardStatusActive).
			First(&card).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, gorm.ErrRecordNotFound
			}
			return 0, fmt.Errorf("hediye kartı okunamadı: %w", err)
		}

		if card.ExpiresAt != nil && card.ExpiresAt.Before(time.Now()) {
			return 0, ErrGiftCardInsufficient
		}

		debit := math.Min(card.RemainingAmount, amount)
		if debit <= 0 {
			return 0, ErrGiftCardInsufficient
		}

		res := database.DB.Model(&models.GiftCard{}).
			Where("id = ? AND status = ? AND remaining_amount >= ?", card.ID, models.GiftCardStatusActive, debit).
			Update("remaining_amount", gorm.Expr("remaining_amount - ?", debit))
		if res.Error != nil {
			return 0, fmt.Errorf("hediye kartı bakiyesi düşülemedi: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Araya başka bir kullanım girdi, güncel bakiyeyle tekrar dene
			continue
		}

		// Bakiye sıfırlandıysa kartı kapat; yarışta iki kez çalışması zararsız
		database.DB.Model(&models.GiftCard{}).
			Where("id = ? AND remaining_amount <= 0 AND status = ?", card.ID, models.GiftCardStatusActive).
			Update("status", models.GiftCardStatusUsed)

		return debit, nil
	}

	return 0, ErrGiftCardInsufficient
}

// AccrueLoyalty: teslim edilen sipariş için puan işler.
// Müşteri kaydı yoksa oluşturulur; sayaç artışları atomik.
// Çağıran taraf exactly-once garantisini durum geçişiyle sağlar
// (bkz. order.UpdateStatusHandler), burada ayrıca bayrak tutulmaz.
func AccrueLoyalty(restaurantID uint, phone, name string, spent, pointsPerUnit float64) (int, error) {
	customer, err := findOrCreateCustomer(restaurantID, phone, name)
	if err != nil {
		return 0, err
	}

	points := int(math.Floor(spent * pointsPerUnit))

	res := database.DB.Model(&models.LoyaltyCustomer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", points),
			"total_spent":  gorm.Expr("total_spent + ?", spent),
			"total_orders": gorm.Expr("total_orders + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("sadakat puanı işlenemedi: %w", res.Error)
	}

	return points, nil
}

// AddBonusPoints: personelin manuel puan hediyesi.
func AddBonusPoints(restaurantID, customerID uint, points int) error {
	res := database.DB.Model(&models.LoyaltyCustomer{}).
		Where("id = ? AND restaurant_id = ?", customerID, restaurantID).
		Update("total_points", gorm.Expr("total_points + ?", points))
	if res.Error != nil {
		return fmt.Errorf("bonus puan eklenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemLoyaltyPoints: puan harcama, tek izinli azalma yolu.
// total_points >= puan koşulu WHERE'de; bakiye eksiye inmez.
func RedeemLoyaltyPoints(restaurantID, customerID uint, points int) error {
	res := database.DB.Model(&models.LoyaltyCustomer{}).
		Where("id = ? AND restaurant_id = ? AND total_points >= ?", customerID, restaurantID, points).
		Update("total_points", gorm.Expr("total_points - ?", points))
	if res.Error != nil {
		return fmt.Errorf("puan harcanamadı: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPointsInsufficient
	}
	return nil
}

func findOrCreateCustomer(restaurantID uint, phone, name string) (*models.LoyaltyCustomer, error) {
	var customer models.LoyaltyCustomer
	err := database.DB.
		Where("restaurant_id = ? AND phone = ?", restaurantID, phone).
		First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sadakat müşterisi okunamadı: %w", err)
	}

	customer = models.LoyaltyCustomer{
		RestaurantID: restaurantID,
		Phone:        phone,
		Name:         name,
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		// Unique index çakışması: başka bir istek aynı anda oluşturdu
		var existing models.LoyaltyCustomer
		if err2 := database.DB.
			Where("restaurant_id = ? AND phone = ?", restaurantID, phone).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("sadakat müşterisi oluşturulamadı: %w", err)
	}

	return &customer, nil
}
