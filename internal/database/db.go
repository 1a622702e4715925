package database

import (
	"log"

	"siparis-backend/internal/config"
	"siparis-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Poll sorgusu (restaurant_id, updated_at) üzerinden çalışıyor,
	// tekil kolon indexleri yeterli olmuyor
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_restaurant_updated ON orders(restaurant_id, updated_at)")

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: tüm modelleri migrate eder. Testler aynı şemayı
// sqlite üzerinde kurmak için bunu doğrudan çağırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductExtra{},
		&models.Promotion{},
		&models.GiftCard{},
		&models.LoyaltyCustomer{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemExtra{},
		&models.AuditLog{},
	)
}
