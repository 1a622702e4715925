// Package catalog: sipariş motorunun katalog görünümü.
// Menü düzenleme başka bir sistemde; buradan sadece okunur
// (is_active, fiyat, tenant sahipliği). Tek istisna stok alanları,
// onları da ledger günceller.
package catalog

import (
	"errors"
	"fmt"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"
)

var (
	// ErrProductMissing: ürün hiç yok (400)
	ErrProductMissing = errors.New("ürün bulunamadı")
	// ErrProductInactive: ürün var ama satışta değil (400)
	ErrProductInactive = errors.New("ürün satışta değil")
	// ErrCrossTenant: ürün başka bir restorana ait. Güvenlik hatası,
	// "bulunamadı" ile aynı kefeye konmaz, 403 döner ve ayrıca loglanır.
	ErrCrossTenant = errors.New("ürün bu restorana ait değil")

	ErrVariantInvalid = errors.New("geçersiz varyant")
	ErrExtraInvalid   = errors.New("geçersiz ekstra")
)

// Snapshot: tek bir sipariş doğrulaması için yüklenen ürün kümesi.
// Ürünler tenant filtresi UYGULANMADAN yüklenir ki "başka restoranın ürünü"
// ile "olmayan ürün" ayırt edilebilsin.
type Snapshot struct {
	products map[uint]*models.Product
}

func LoadSnapshot(productIDs []uint) (*Snapshot, error) {
	var products []models.Product
	if err := database.DB.
		Preload("Variants").
		Preload("Extras").
		Where("id IN ?", productIDs).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("katalog okunamadı: %w", err)
	}
	return NewSnapshot(products), nil
}

func NewSnapshot(products []models.Product) *Snapshot {
	snap := &Snapshot{products: make(map[uint]*models.Product, len(products))}
	for i := range products {
		snap.products[products[i].ID] = &products[i]
	}
	return snap
}

// Resolve: ürünü doğrular. Sıralama önemli: önce varlık, sonra tenant
// sahipliği, en son aktiflik. Cross-tenant ürün aktif olsa da ErrCrossTenant.
func (s *Snapshot) Resolve(restaurantID, productID uint) (*models.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, ErrProductMissing
	}
	if p.RestaurantID != restaurantID {
		return nil, ErrCrossTenant
	}
	if !p.IsActive {
		return nil, ErrProductInactive
	}
	return p, nil
}

// Variant: varyant ürüne ait ve aktif olmalı.
func (s *Snapshot) Variant(p *models.Product, variantID uint) (*models.ProductVariant, error) {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID == variantID {
			if !v.IsActive {
				return nil, ErrVariantInvalid
			}
			return v, nil
		}
	}
	return nil, ErrVariantInvalid
}

// Extra: ekstra ürüne ait ve aktif olmalı.
func (s *Snapshot) Extra(p *models.Product, extraID uint) (*models.ProductExtra, error) {
	for i := range p.Extras {
		e := &p.Extras[i]
		if e.ID == extraID {
			if !e.IsActive {
				return nil, ErrExtraInvalid
			}
			return e, nil
		}
	}
	return nil, ErrExtraInvalid
}
