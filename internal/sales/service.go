package sales

import (
	"fmt"
	"strings"

	"magaza-backend/internal/models"
	"magaza-backend/internal/stock"
)

// Service: satış/stok tutarlılığını koruyan işlem koordinatörü.
// Her operasyon tek bir atomik işlem içinde çalışır; stok kayıtlarına
// ilişkin tüm okumalar yazmalardan önce yapılır ve hiçbir operasyon
// bir stok kaydını iki ayrı işlem boyunca elinde tutmaz.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SaleHeader: düzenlemede güncellenebilen başlık alanları.
type SaleHeader struct {
	CustomerName string
	Phone        string
	Address      string
	ShippingCost float64
}

// -------------------------
// Delta birikimi
// -------------------------

// variantDelta: bir varyant anahtarına uygulanacak toplam fark.
// Aynı satışta aynı varyanta birden fazla satır gelirse farklar
// üst üste yazılmaz, toplanır.
type variantDelta struct {
	key         string
	productID   uint
	colorID     uint
	dimensionID *uint
	delta       stock.Counters
}

type deltaSet struct {
	order []string
	byKey map[string]*variantDelta
}

func newDeltaSet() *deltaSet {
	return &deltaSet{byKey: make(map[string]*variantDelta)}
}

func (d *deltaSet) add(it models.SaleItem, delta stock.Counters) {
	key := stock.VariantKey(it.ProductID, it.ColorID, it.DimensionID)
	vd, ok := d.byKey[key]
	if !ok {
		vd = &variantDelta{
			key:         key,
			productID:   it.ProductID,
			colorID:     it.ColorID,
			dimensionID: it.DimensionID,
		}
		d.byKey[key] = vd
		d.order = append(d.order, key)
	}
	vd.delta = vd.delta.Add(delta)
}

func (d *deltaSet) entries() []*variantDelta {
	out := make([]*variantDelta, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.byKey[key])
	}
	return out
}

// readStocks: okuma fazı. Tüm varyant kayıtları yazmalardan önce okunur.
func readStocks(tx Tx, storeID uint, entries []*variantDelta) (map[string]*models.VariantStock, error) {
	current := make(map[string]*models.VariantStock, len(entries))
	for _, e := range entries {
		vs, err := tx.GetVariantStock(storeID, e.key)
		if err != nil {
			return nil, err
		}
		current[e.key] = vs
	}
	return current, nil
}

// writeStocks: yazma fazı. Kayıt yoksa sıfır taban üzerinden oluşturulur
// (merge davranışı), varsa yalnızca sayaçlar güncellenir.
func writeStocks(tx Tx, storeID uint, entries []*variantDelta, current map[string]*models.VariantStock) error {
	for _, e := range entries {
		vs := current[e.key]
		if vs == nil {
			vs = &models.VariantStock{
				StoreID:     storeID,
				VariantKey:  e.key,
				ProductID:   e.productID,
				ColorID:     e.colorID,
				DimensionID: e.dimensionID,
			}
		}
		stock.ApplyToRecord(vs, stock.FromRecord(vs).Add(e.delta))
		if err := tx.SaveVariantStock(vs); err != nil {
			return err
		}
	}
	return nil
}

func itemActive(it models.SaleItem) bool {
	return it.Status != models.SaleItemCancelled && it.Status != models.SaleItemReturned
}

func computeGrandTotal(items []models.SaleItem, shippingCost float64) float64 {
	total := shippingCost
	for _, it := range items {
		if !itemActive(it) {
			continue
		}
		total += it.LineTotal()
	}
	return total
}

// -------------------------
// Doğrulama
// -------------------------

func validateItem(it models.SaleItem) error {
	if it.ProductID == 0 {
		return validationErrorf("satır için ürün seçilmeli")
	}
	if it.ColorID == 0 {
		return validationErrorf("satır için renk seçilmeli")
	}
	if it.Quantity <= 0 {
		return validationErrorf("satır adedi 0'dan büyük olmalı")
	}
	if it.UnitPrice <= 0 {
		return validationErrorf("satır birim fiyatı 0'dan büyük olmalı")
	}
	if it.SupplyMethod != models.SupplyFromStock && it.SupplyMethod != models.SupplyFromCenter {
		return validationErrorf("tedarik şekli 'Stoktan' veya 'Merkezden' olmalı")
	}
	return nil
}

func validateSale(sale *models.Sale) error {
	if sale.StoreID == 0 {
		return validationErrorf("şube bilgisi zorunlu")
	}
	if strings.TrimSpace(sale.ReceiptNo) == "" {
		return validationErrorf("fiş numarası zorunlu")
	}
	if strings.TrimSpace(sale.CustomerName) == "" {
		return validationErrorf("müşteri adı zorunlu")
	}
	if len(sale.Items) == 0 {
		return validationErrorf("en az bir satır eklenmeli")
	}
	for _, it := range sale.Items {
		if err := validateItem(it); err != nil {
			return err
		}
	}
	return nil
}

// -------------------------
// Operasyonlar
// -------------------------

// Create: satışı, etkilenen stok kayıtlarını ve (gerekiyorsa) otomatik
// sipariş kaydını tek atomik işlemde yazar. Doğrulama hataları işlem
// açılmadan döner; hiçbir şey yazılmaz.
func (s *Service) Create(sale *models.Sale) error {
	if err := validateSale(sale); err != nil {
		return err
	}

	deltas := newDeltaSet()
	var centerProductIDs []uint
	seenProduct := make(map[uint]bool)
	for i := range sale.Items {
		it := &sale.Items[i]
		it.ItemIndex = i
		if it.Status == "" {
			it.Status = models.SaleItemOrdered
		}
		if it.Delivery == "" {
			it.Delivery = models.DeliveryWaiting
		}
		if !itemActive(*it) {
			continue
		}
		deltas.add(*it, stock.ReserveDelta(it.Quantity, it.SupplyMethod))
		if it.SupplyMethod == models.SupplyFromCenter && !seenProduct[it.ProductID] {
			seenProduct[it.ProductID] = true
			centerProductIDs = append(centerProductIDs, it.ProductID)
		}
	}

	sale.GrandTotal = computeGrandTotal(sale.Items, sale.ShippingCost)
	entries := deltas.entries()

	return s.store.Transact(func(tx Tx) error {
		current, err := readStocks(tx, sale.StoreID, entries)
		if err != nil {
			return err
		}
		// Sipariş satırları kategori referansını da taşır; ürün okumaları
		// diğer okumalar gibi yazmalardan önce yapılır.
		categories, err := readCategories(tx, centerProductIDs)
		if err != nil {
			return err
		}
		purchase := BuildReplenishment(sale, categories)

		if err := tx.CreateSale(sale); err != nil {
			return err
		}
		if err := writeStocks(tx, sale.StoreID, entries, current); err != nil {
			return err
		}
		if purchase != nil {
			if err := tx.CreatePurchase(purchase); err != nil {
				return err
			}
		}
		return nil
	})
}

func readCategories(tx Tx, productIDs []uint) (map[uint]*uint, error) {
	categories := make(map[uint]*uint, len(productIDs))
	for _, id := range productIDs {
		p, err := tx.GetProduct(id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			categories[id] = p.CategoryID
		}
	}
	return categories, nil
}

// Update: fark tabanlı düzenleme. Eklenen satırlar için ileri fark,
// çıkarılan satırlar için KAYITLI tedarik şekliyle ters fark uygulanır.
// Fazla satış işlemi durdurmaz; yalnızca uyarı metni döner.
func (s *Service) Update(storeID, saleID uint, header SaleHeader, added, removed []models.SaleItem) (string, error) {
	if strings.TrimSpace(header.CustomerName) == "" {
		return "", validationErrorf("müşteri adı zorunlu")
	}
	for _, it := range added {
		if err := validateItem(it); err != nil {
			return "", err
		}
	}

	var warnings []string
	err := s.store.Transact(func(tx Tx) error {
		warnings = warnings[:0]

		sale, err := tx.GetSale(storeID, saleID)
		if err != nil {
			return err
		}

		// Çıkarma girdileri işlem içinde taze okunan satırlarla eşleştirilir.
		// Karşılığı kalmamış bir girdi (eşzamanlı başka bir düzenleme aynı
		// satırı zaten çıkardıysa) stok geri alması üretmez; aksi halde aynı
		// rezerv iki kez serbest bırakılırdı. Geri alma her zaman eşleşen
		// satırın KAYITLI tedarik şekliyle yapılır.
		matchedRemoved := matchRemoved(sale.Items, removed)

		deltas := newDeltaSet()
		stoktanAdded := make(map[string]bool)
		for _, it := range added {
			deltas.add(it, stock.ReserveDelta(it.Quantity, it.SupplyMethod))
			if it.SupplyMethod == models.SupplyFromStock {
				stoktanAdded[stock.VariantKey(it.ProductID, it.ColorID, it.DimensionID)] = true
			}
		}
		for _, it := range matchedRemoved {
			if !itemActive(it) {
				continue
			}
			deltas.add(it, stock.ReleaseDelta(it.Quantity, it.SupplyMethod))
		}
		entries := deltas.entries()

		current, err := readStocks(tx, storeID, entries)
		if err != nil {
			return err
		}

		for _, e := range entries {
			next := stock.FromRecord(current[e.key]).Add(e.delta)
			if stoktanAdded[e.key] && next.Free < 0 {
				warnings = append(warnings, fmt.Sprintf("%s varyantı için serbest stok yetersiz (kalan: %d)", e.key, next.Free))
			}
		}

		items := removeMatching(sale.Items, matchedRemoved)
		items = append(items, added...)
		for i := range items {
			items[i].ItemIndex = i
			if items[i].Status == "" {
				items[i].Status = models.SaleItemOrdered
			}
			if items[i].Delivery == "" {
				items[i].Delivery = models.DeliveryWaiting
			}
		}

		sale.CustomerName = strings.TrimSpace(header.CustomerName)
		sale.Phone = header.Phone
		sale.Address = header.Address
		sale.ShippingCost = header.ShippingCost
		sale.GrandTotal = computeGrandTotal(items, header.ShippingCost)

		if err := tx.SaveSale(sale); err != nil {
			return err
		}
		if err := tx.ReplaceSaleItems(sale.ID, items); err != nil {
			return err
		}
		return writeStocks(tx, storeID, entries, current)
	})
	if err != nil {
		return "", err
	}
	return strings.Join(warnings, "; "), nil
}

// UpdateDeliveryStatus: Tek bir satırın teslimat durumunu değiştirir.
// "Teslim Edildi"ye geçiş rezervi tüketir, çıkış aynen geri kurar.
// Stok kaydı hiç yoksa yalnızca durum alanı güncellenir.
func (s *Service) UpdateDeliveryStatus(storeID, saleID uint, itemIndex int, newStatus models.DeliveryStatus) error {
	switch newStatus {
	case models.DeliveryWaiting, models.DeliveryDelivered, models.DeliveryCancelled:
	default:
		return validationErrorf("teslimat durumu 'Bekliyor', 'Teslim Edildi' veya 'İptal' olmalı")
	}

	return s.store.Transact(func(tx Tx) error {
		sale, err := tx.GetSale(storeID, saleID)
		if err != nil {
			return err
		}

		var item *models.SaleItem
		for i := range sale.Items {
			if sale.Items[i].ItemIndex == itemIndex {
				item = &sale.Items[i]
				break
			}
		}
		if item == nil {
			return validationErrorf("satış içinde %d numaralı satır yok", itemIndex)
		}
		if item.Delivery == newStatus {
			return nil
		}

		var delta stock.Counters
		wasDelivered := item.Delivery == models.DeliveryDelivered
		nowDelivered := newStatus == models.DeliveryDelivered
		switch {
		case nowDelivered && !wasDelivered:
			delta = stock.DeliverDelta(item.Quantity, item.SupplyMethod)
		case wasDelivered && !nowDelivered:
			delta = stock.UndoDeliverDelta(item.Quantity, item.SupplyMethod)
		}

		var vs *models.VariantStock
		if !delta.IsZero() {
			key := stock.VariantKey(item.ProductID, item.ColorID, item.DimensionID)
			vs, err = tx.GetVariantStock(storeID, key)
			if err != nil {
				return err
			}
		}

		item.Delivery = newStatus
		if err := tx.SaveSaleItem(item); err != nil {
			return err
		}
		if vs != nil {
			stock.ApplyToRecord(vs, stock.FromRecord(vs).Add(delta))
			return tx.SaveVariantStock(vs)
		}
		return nil
	})
}

func canCancel(actingRole models.UserRole) bool {
	return actingRole == models.RoleSuperAdmin || actingRole == models.RoleStoreAdmin
}

// releaseAll: satıştaki aktif satırların stok tahsislerini, her satırın
// kayıtlı tedarik şekliyle, oluşturmanın aynadaki tersi olarak toplar.
func releaseAll(sale *models.Sale) *deltaSet {
	deltas := newDeltaSet()
	for _, it := range sale.Items {
		if !itemActive(it) {
			continue
		}
		deltas.add(it, stock.ReleaseDelta(it.Quantity, it.SupplyMethod))
	}
	return deltas
}

// Cancel: satışı iptal eder; belge denetim için yerinde kalır, tutar
// sıfırlanır, tüm satırlar iptal işaretlenir ve stok tahsisleri geri alınır.
func (s *Service) Cancel(actingRole models.UserRole, storeID, saleID uint) error {
	if !canCancel(actingRole) {
		return ErrForbidden
	}

	return s.store.Transact(func(tx Tx) error {
		sale, err := tx.GetSale(storeID, saleID)
		if err != nil {
			return err
		}

		deltas := releaseAll(sale)
		entries := deltas.entries()
		current, err := readStocks(tx, storeID, entries)
		if err != nil {
			return err
		}

		sale.GrandTotal = 0
		if err := tx.SaveSale(sale); err != nil {
			return err
		}
		for i := range sale.Items {
			if !itemActive(sale.Items[i]) {
				continue
			}
			sale.Items[i].Status = models.SaleItemCancelled
			if err := tx.SaveSaleItem(&sale.Items[i]); err != nil {
				return err
			}
		}
		return writeStocks(tx, storeID, entries, current)
	})
}

// Delete: satış belgesini tamamen kaldırır; stok geri alma iptalle aynıdır.
func (s *Service) Delete(actingRole models.UserRole, storeID, saleID uint) error {
	if !canCancel(actingRole) {
		return ErrForbidden
	}

	return s.store.Transact(func(tx Tx) error {
		sale, err := tx.GetSale(storeID, saleID)
		if err != nil {
			return err
		}

		deltas := releaseAll(sale)
		entries := deltas.entries()
		current, err := readStocks(tx, storeID, entries)
		if err != nil {
			return err
		}

		if err := tx.DeleteSale(sale); err != nil {
			return err
		}
		return writeStocks(tx, storeID, entries, current)
	})
}

// Get / List: basit okuma servisleri, invaryant içermez.

func (s *Service) Get(storeID, saleID uint) (*models.Sale, error) {
	return s.store.GetSale(storeID, saleID)
}

func (s *Service) List(storeID uint) ([]models.Sale, error) {
	return s.store.ListSales(storeID)
}
