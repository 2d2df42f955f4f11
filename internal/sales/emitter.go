package sales

import (
	"fmt"

	"magaza-backend/internal/models"
)

// BuildReplenishment: Merkezden karşılanacak satırlardan otomatik sipariş
// kaydı üretir. Hiç Merkezden satır yoksa nil döner. categories, ürün ID'sini
// ürünün kategori ID'sine eşler; sipariş satırı kategori referansını da taşır
// (ürün kataloğundan silinmişse nil kalır). Fiş numarası "SAT-" + satış fiş
// numarasıdır; diğer ekranlar bu ön eki köken göstergesi olarak
// kullandığından kural birebir korunur.
func BuildReplenishment(sale *models.Sale, categories map[uint]*uint) *models.Purchase {
	var items []models.PurchaseItem
	for _, it := range sale.Items {
		if it.Status == models.SaleItemCancelled || it.Status == models.SaleItemReturned {
			continue
		}
		if it.SupplyMethod != models.SupplyFromCenter {
			continue
		}
		items = append(items, models.PurchaseItem{
			ProductID:   it.ProductID,
			CategoryID:  categories[it.ProductID],
			ColorID:     it.ColorID,
			DimensionID: it.DimensionID,
			Quantity:    it.Quantity,
			Amount:      0,
			Status:      models.PurchaseItemWaiting,
			Explanation: fmt.Sprintf("%s adlı müşteri için sipariş (Fiş: %s)", sale.CustomerName, sale.ReceiptNo),
		})
	}
	if len(items) == 0 {
		return nil
	}
	return &models.Purchase{
		StoreID:   sale.StoreID,
		ReceiptNo: "SAT-" + sale.ReceiptNo,
		Type:      models.PurchaseTypeOrder,
		Items:     items,
	}
}
