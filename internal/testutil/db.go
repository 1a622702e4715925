// Package testutil: test veritabanı kurulumu. Handler'lar ve ledger
// global database.DB üzerinden çalıştığı için testler onu geçici bir
// sqlite dosyasına yönlendirir.
package testutil

import (
	"path/filepath"
	"testing"

	"siparis-backend/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDB: her test için izole sqlite veritabanı açar ve şemayı kurar.
// Tek bağlantıya sabitlenir; sqlite yazmaları zaten serileşir, "database
// is locked" kaynaklı flake'lere gerek yok. Yarış testleri guard'ların
// mantığını doğrular, Postgres'teki gerçek eşzamanlılığı değil.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration başarısız: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})

	return db
}
