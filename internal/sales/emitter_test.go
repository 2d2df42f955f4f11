package sales

import (
	"testing"

	"magaza-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReplenishmentOnlyCenterItems(t *testing.T) {
	sale := &models.Sale{
		StoreID:      1,
		ReceiptNo:    "2024-0042",
		CustomerName: "Ayşe Yılmaz",
		Items: []models.SaleItem{
			{ProductID: 1, ColorID: 1, Quantity: 2, SupplyMethod: models.SupplyFromStock},
			{ProductID: 2, ColorID: 3, Quantity: 1, SupplyMethod: models.SupplyFromCenter},
			{ProductID: 3, ColorID: 1, Quantity: 4, SupplyMethod: models.SupplyFromCenter, Status: models.SaleItemCancelled},
		},
	}

	catID := uint(9)
	p := BuildReplenishment(sale, map[uint]*uint{2: &catID})
	require.NotNil(t, p)
	assert.Equal(t, "SAT-2024-0042", p.ReceiptNo)
	assert.Equal(t, models.PurchaseTypeOrder, p.Type)
	require.Len(t, p.Items, 1)
	assert.Equal(t, uint(2), p.Items[0].ProductID)
	require.NotNil(t, p.Items[0].CategoryID, "sipariş satırı ürünün kategori referansını taşımalı")
	assert.Equal(t, catID, *p.Items[0].CategoryID)
	assert.Equal(t, 1, p.Items[0].Quantity)
	assert.Equal(t, models.PurchaseItemWaiting, p.Items[0].Status)
	assert.Contains(t, p.Items[0].Explanation, "Ayşe Yılmaz")
	assert.Contains(t, p.Items[0].Explanation, "2024-0042")
}

func TestBuildReplenishmentUnknownProductCategory(t *testing.T) {
	// Ürün katalogdan silinmişse kategori referansı boş kalır, satır yine üretilir.
	sale := &models.Sale{
		StoreID:      1,
		ReceiptNo:    "2024-0044",
		CustomerName: "Ali Demir",
		Items: []models.SaleItem{
			{ProductID: 5, ColorID: 1, Quantity: 2, SupplyMethod: models.SupplyFromCenter},
		},
	}

	p := BuildReplenishment(sale, nil)
	require.NotNil(t, p)
	require.Len(t, p.Items, 1)
	assert.Nil(t, p.Items[0].CategoryID)
}

func TestBuildReplenishmentNilWithoutCenterItems(t *testing.T) {
	sale := &models.Sale{
		ReceiptNo:    "2024-0043",
		CustomerName: "Mehmet Kaya",
		Items: []models.SaleItem{
			{ProductID: 1, ColorID: 1, Quantity: 2, SupplyMethod: models.SupplyFromStock},
		},
	}
	assert.Nil(t, BuildReplenishment(sale, nil))
}
