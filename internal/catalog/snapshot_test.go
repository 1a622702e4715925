package catalog

import (
	"testing"

	"siparis-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return NewSnapshot([]models.Product{
		{
			ID: 1, RestaurantID: 1, Name: "Adana Kebap", Price: 50, IsActive: true,
			Variants: []models.ProductVariant{
				{ID: 10, ProductID: 1, Name: "Büyük", Price: 70, IsActive: true},
				{ID: 11, ProductID: 1, Name: "Eski", Price: 40, IsActive: false},
			},
			Extras: []models.ProductExtra{
				{ID: 20, ProductID: 1, Name: "Ekstra Lavaş", Price: 5, IsActive: true},
				{ID: 21, ProductID: 1, Name: "Eski Ekstra", Price: 3, IsActive: false},
			},
		},
		{ID: 2, RestaurantID: 1, Name: "Künefe", Price: 60, IsActive: false},
		{ID: 3, RestaurantID: 2, Name: "Rakip Ürünü", Price: 10, IsActive: true},
		{ID: 4, RestaurantID: 2, Name: "Rakip Pasif", Price: 10, IsActive: false},
	})
}

func TestResolve(t *testing.T) {
	snap := testSnapshot()

	p, err := snap.Resolve(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Adana Kebap", p.Name)

	_, err = snap.Resolve(1, 99)
	assert.ErrorIs(t, err, ErrProductMissing)

	_, err = snap.Resolve(1, 2)
	assert.ErrorIs(t, err, ErrProductInactive)

	_, err = snap.Resolve(1, 3)
	assert.ErrorIs(t, err, ErrCrossTenant)
}

// Çözümleme sırası: varlık > tenant sahipliği > aktiflik.
// Başka restoranın PASİF ürünü bile "pasif" değil "cross-tenant" sayılır;
// aksi halde hata kodu üzerinden başka tenant'ın katalog durumu sızar.
func TestResolveCrossTenantBeforeInactive(t *testing.T) {
	snap := testSnapshot()

	_, err := snap.Resolve(1, 4)
	assert.ErrorIs(t, err, ErrCrossTenant)
}

func TestVariantLookup(t *testing.T) {
	snap := testSnapshot()
	p, err := snap.Resolve(1, 1)
	require.NoError(t, err)

	v, err := snap.Variant(p, 10)
	require.NoError(t, err)
	assert.Equal(t, 70.0, v.Price)

	// Pasif varyant ve olmayan varyant aynı hatayla reddedilir
	_, err = snap.Variant(p, 11)
	assert.ErrorIs(t, err, ErrVariantInvalid)
	_, err = snap.Variant(p, 99)
	assert.ErrorIs(t, err, ErrVariantInvalid)
}

func TestExtraLookup(t *testing.T) {
	snap := testSnapshot()
	p, err := snap.Resolve(1, 1)
	require.NoError(t, err)

	e, err := snap.Extra(p, 20)
	require.NoError(t, err)
	assert.Equal(t, 5.0, e.Price)

	_, err = snap.Extra(p, 21)
	assert.ErrorIs(t, err, ErrExtraInvalid)
	_, err = snap.Extra(p, 99)
	assert.ErrorIs(t, err, ErrExtraInvalid)
}
