package sales

import (
	"magaza-backend/internal/models"
	"magaza-backend/internal/stock"
)

// Satırlar (ürün, renk, ebat, fiyat, not) beşlisiyle eşleştirilir.
// Düzenleme tüm listeyi yeniden göndermez; mevcut ve istenen listeler
// arasındaki fark alınır, yalnızca eklenen ve çıkarılan satırlar işlenir.

type itemMatchKey struct {
	ProductID uint
	ColorID   uint
	Dimension string
	UnitPrice float64
	Note      string
}

func matchKey(it models.SaleItem) itemMatchKey {
	return itemMatchKey{
		ProductID: it.ProductID,
		ColorID:   it.ColorID,
		Dimension: stock.VariantKey(it.ProductID, it.ColorID, it.DimensionID),
		UnitPrice: it.UnitPrice,
		Note:      it.Note,
	}
}

// DiffItems: mevcut (kayıtlı) ve istenen satır listeleri arasındaki farkı
// hesaplar. Her iki listede de bulunan satırlar dokunulmadan bırakılır;
// aynı beşliden birden fazla satır varsa adet adet eşleştirilir.
func DiffItems(current, desired []models.SaleItem) (added, removed []models.SaleItem) {
	remaining := make(map[itemMatchKey]int, len(current))
	for _, it := range current {
		remaining[matchKey(it)]++
	}

	for _, it := range desired {
		k := matchKey(it)
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		added = append(added, it)
	}

	// İstenen listede karşılığı kalmayan mevcut satırlar çıkarılmıştır.
	for _, it := range current {
		k := matchKey(it)
		if remaining[k] > 0 {
			remaining[k]--
			removed = append(removed, it)
		}
	}

	return added, removed
}

// matchRemoved: çıkarılmak istenen her girdi için kayıtlı listeden beşlisi
// eşleşen BİR satırı seçer ve satırın KAYITLI halini (SupplyMethod dahil)
// döner. Karşılığı olmayan girdiler atlanır; stok geri alması yalnızca
// gerçekten kayıtlı satırlar için üretilir.
func matchRemoved(items, removed []models.SaleItem) []models.SaleItem {
	want := make(map[itemMatchKey]int, len(removed))
	for _, it := range removed {
		want[matchKey(it)]++
	}

	var matched []models.SaleItem
	for _, it := range items {
		k := matchKey(it)
		if want[k] > 0 {
			want[k]--
			matched = append(matched, it)
		}
	}
	return matched
}

// removeMatching: mevcut listeden, çıkarılan her satır için beşlisi eşleşen
// BİR satırı düşürür. Çıkarılan satırın kayıtlı hali (SupplyMethod dahil)
// stok geri alma için zaten elimizdedir; burada yalnızca dizi küçülür.
func removeMatching(items []models.SaleItem, removed []models.SaleItem) []models.SaleItem {
	toDrop := make(map[itemMatchKey]int, len(removed))
	for _, it := range removed {
		toDrop[matchKey(it)]++
	}

	kept := make([]models.SaleItem, 0, len(items))
	for _, it := range items {
		k := matchKey(it)
		if toDrop[k] > 0 {
			toDrop[k]--
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
