package sales

import (
	"testing"

	"magaza-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID, colorID uint, qty int, price float64, note string) models.SaleItem {
	return models.SaleItem{
		ProductID:    productID,
		ColorID:      colorID,
		Quantity:     qty,
		UnitPrice:    price,
		SupplyMethod: models.SupplyFromStock,
		Note:         note,
	}
}

func TestDiffItemsUnchanged(t *testing.T) {
	current := []models.SaleItem{line(1, 1, 2, 100, "")}
	desired := []models.SaleItem{line(1, 1, 2, 100, "")}

	added, removed := DiffItems(current, desired)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDiffItemsAddAndRemove(t *testing.T) {
	current := []models.SaleItem{line(1, 1, 2, 100, "")}
	desired := []models.SaleItem{line(2, 1, 1, 50, "")}

	added, removed := DiffItems(current, desired)
	assert.Len(t, added, 1)
	assert.Len(t, removed, 1)
	assert.Equal(t, uint(2), added[0].ProductID)
	assert.Equal(t, uint(1), removed[0].ProductID)
}

func TestDiffItemsPriceChangeIsRemoveAndAdd(t *testing.T) {
	// Fiyat eşleştirme beşlisine dahildir; fiyatı değişen satır eski
	// haliyle çıkarılır, yeni haliyle eklenir.
	current := []models.SaleItem{line(1, 1, 2, 100, "")}
	desired := []models.SaleItem{line(1, 1, 2, 120, "")}

	added, removed := DiffItems(current, desired)
	assert.Len(t, added, 1)
	assert.Len(t, removed, 1)
	assert.Equal(t, 120.0, added[0].UnitPrice)
	assert.Equal(t, 100.0, removed[0].UnitPrice)
}

func TestDiffItemsDuplicateLinesMatchedOneByOne(t *testing.T) {
	// Aynı beşliden iki satır varken biri silinirse yalnızca biri çıkarılmalı.
	current := []models.SaleItem{line(1, 1, 1, 100, ""), line(1, 1, 1, 100, "")}
	desired := []models.SaleItem{line(1, 1, 1, 100, "")}

	added, removed := DiffItems(current, desired)
	assert.Empty(t, added)
	assert.Len(t, removed, 1)
}

func TestMatchRemovedSkipsMissingEntries(t *testing.T) {
	items := []models.SaleItem{line(1, 1, 2, 100, "")}
	items[0].SupplyMethod = models.SupplyFromCenter

	// Biri kayıtlı satırla eşleşen, biri karşılığı olmayan iki girdi:
	// yalnızca eşleşen, kayıtlı haliyle (tedarik şekli dahil) döner.
	removed := []models.SaleItem{line(1, 1, 2, 100, ""), line(9, 9, 1, 10, "")}

	matched := matchRemoved(items, removed)
	require.Len(t, matched, 1)
	assert.Equal(t, uint(1), matched[0].ProductID)
	assert.Equal(t, models.SupplyFromCenter, matched[0].SupplyMethod)
}

func TestRemoveMatchingDropsOnePerRemoved(t *testing.T) {
	items := []models.SaleItem{line(1, 1, 1, 100, ""), line(1, 1, 1, 100, ""), line(2, 1, 1, 50, "")}
	removed := []models.SaleItem{line(1, 1, 1, 100, "")}

	kept := removeMatching(items, removed)
	assert.Len(t, kept, 2)
	assert.Equal(t, uint(1), kept[0].ProductID)
	assert.Equal(t, uint(2), kept[1].ProductID)
}
