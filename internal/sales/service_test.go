package sales

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"magaza-backend/internal/models"
	"magaza-backend/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore: Store/Tx sözleşmesinin bellek içi gerçeklemesi. Commit
// çakışması enjekte edilebilir; çakışan denemenin yazmaları atılır,
// GormStore'daki gibi bütçe dahilinde yeniden denenir.
type memStore struct {
	state         *memState
	conflictsLeft int
	attempts      int
}

type memState struct {
	sales       map[uint]*models.Sale
	stocks      map[string]*models.VariantStock
	products    map[uint]*models.Product
	purchases   []models.Purchase
	nextSaleID  uint
	nextItemID  uint
	nextStockID uint
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		sales:    make(map[uint]*models.Sale),
		stocks:   make(map[string]*models.VariantStock),
		products: make(map[uint]*models.Product),
	}}
}

func stockMapKey(storeID uint, variantKey string) string {
	return fmt.Sprintf("%d|%s", storeID, variantKey)
}

func copySale(s *models.Sale) *models.Sale {
	cp := *s
	cp.Items = append([]models.SaleItem(nil), s.Items...)
	return &cp
}

func (st *memState) clone() *memState {
	cp := &memState{
		sales:       make(map[uint]*models.Sale, len(st.sales)),
		stocks:      make(map[string]*models.VariantStock, len(st.stocks)),
		products:    make(map[uint]*models.Product, len(st.products)),
		purchases:   append([]models.Purchase(nil), st.purchases...),
		nextSaleID:  st.nextSaleID,
		nextItemID:  st.nextItemID,
		nextStockID: st.nextStockID,
	}
	for id, s := range st.sales {
		cp.sales[id] = copySale(s)
	}
	for k, vs := range st.stocks {
		v := *vs
		cp.stocks[k] = &v
	}
	for id, p := range st.products {
		v := *p
		cp.products[id] = &v
	}
	return cp
}

func (m *memStore) Transact(fn func(Tx) error) error {
	for attempt := 0; attempt < txRetryBudget; attempt++ {
		m.attempts++
		snap := m.state.clone()
		if err := fn(&memTx{st: snap}); err != nil {
			return err
		}
		if m.conflictsLeft > 0 {
			// Commit çakıştı: bu denemenin tüm yazmaları atılır.
			m.conflictsLeft--
			continue
		}
		m.state = snap
		return nil
	}
	return ErrTransactionConflict
}

func (m *memStore) GetSale(storeID, saleID uint) (*models.Sale, error) {
	return (&memTx{st: m.state}).GetSale(storeID, saleID)
}

func (m *memStore) ListSales(storeID uint) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range m.state.sales {
		if s.StoreID == storeID {
			out = append(out, *copySale(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memTx: yazma başladıktan sonra okuma yapılmasına izin vermez; altta
// yatan işlem primitifinin okuma-önce-yazma kuralını birebir uygular.
type memTx struct {
	st    *memState
	wrote bool
}

func (t *memTx) readCheck() error {
	if t.wrote {
		return errors.New("işlem içinde yazmadan sonra okuma yapıldı")
	}
	return nil
}

func (t *memTx) GetSale(storeID, saleID uint) (*models.Sale, error) {
	if err := t.readCheck(); err != nil {
		return nil, err
	}
	s, ok := t.st.sales[saleID]
	if !ok || s.StoreID != storeID {
		return nil, ErrSaleNotFound
	}
	cp := copySale(s)
	sort.Slice(cp.Items, func(i, j int) bool { return cp.Items[i].ItemIndex < cp.Items[j].ItemIndex })
	return cp, nil
}

func (t *memTx) GetVariantStock(storeID uint, variantKey string) (*models.VariantStock, error) {
	if err := t.readCheck(); err != nil {
		return nil, err
	}
	vs, ok := t.st.stocks[stockMapKey(storeID, variantKey)]
	if !ok {
		return nil, nil
	}
	cp := *vs
	return &cp, nil
}

func (t *memTx) GetProduct(productID uint) (*models.Product, error) {
	if err := t.readCheck(); err != nil {
		return nil, err
	}
	p, ok := t.st.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) CreateSale(sale *models.Sale) error {
	t.wrote = true
	if sale.ID == 0 {
		t.st.nextSaleID++
		sale.ID = t.st.nextSaleID
	}
	for i := range sale.Items {
		if sale.Items[i].ID == 0 {
			t.st.nextItemID++
			sale.Items[i].ID = t.st.nextItemID
		}
		sale.Items[i].SaleID = sale.ID
	}
	t.st.sales[sale.ID] = copySale(sale)
	return nil
}

func (t *memTx) SaveSale(sale *models.Sale) error {
	t.wrote = true
	existing, ok := t.st.sales[sale.ID]
	if !ok {
		return ErrSaleNotFound
	}
	existing.CustomerName = sale.CustomerName
	existing.Phone = sale.Phone
	existing.Address = sale.Address
	existing.ShippingCost = sale.ShippingCost
	existing.GrandTotal = sale.GrandTotal
	return nil
}

func (t *memTx) SaveSaleItem(item *models.SaleItem) error {
	t.wrote = true
	sale, ok := t.st.sales[item.SaleID]
	if !ok {
		return ErrSaleNotFound
	}
	for i := range sale.Items {
		if sale.Items[i].ID == item.ID {
			sale.Items[i] = *item
			return nil
		}
	}
	return errors.New("satış satırı bulunamadı")
}

func (t *memTx) ReplaceSaleItems(saleID uint, items []models.SaleItem) error {
	t.wrote = true
	sale, ok := t.st.sales[saleID]
	if !ok {
		return ErrSaleNotFound
	}
	sale.Items = nil
	for _, it := range items {
		t.st.nextItemID++
		it.ID = t.st.nextItemID
		it.SaleID = saleID
		sale.Items = append(sale.Items, it)
	}
	return nil
}

func (t *memTx) DeleteSale(sale *models.Sale) error {
	t.wrote = true
	delete(t.st.sales, sale.ID)
	return nil
}

func (t *memTx) SaveVariantStock(vs *models.VariantStock) error {
	t.wrote = true
	if vs.ID == 0 {
		t.st.nextStockID++
		vs.ID = t.st.nextStockID
	}
	cp := *vs
	t.st.stocks[stockMapKey(vs.StoreID, vs.VariantKey)] = &cp
	return nil
}

func (t *memTx) CreatePurchase(p *models.Purchase) error {
	t.wrote = true
	p.ID = uint(len(t.st.purchases) + 1)
	t.st.purchases = append(t.st.purchases, *p)
	return nil
}

// -------------------------
// Test yardımcıları
// -------------------------

func seedStock(ms *memStore, storeID, productID, colorID uint, dimensionID *uint, c stock.Counters) {
	key := stock.VariantKey(productID, colorID, dimensionID)
	ms.state.nextStockID++
	vs := &models.VariantStock{
		ID:          ms.state.nextStockID,
		StoreID:     storeID,
		VariantKey:  key,
		ProductID:   productID,
		ColorID:     colorID,
		DimensionID: dimensionID,
	}
	stock.ApplyToRecord(vs, c)
	ms.state.stocks[stockMapKey(storeID, key)] = vs
}

func seedProduct(ms *memStore, productID uint, categoryID *uint) {
	ms.state.products[productID] = &models.Product{
		ID:         productID,
		CategoryID: categoryID,
	}
}

func counters(t *testing.T, ms *memStore, storeID, productID, colorID uint, dimensionID *uint) stock.Counters {
	t.Helper()
	vs := ms.state.stocks[stockMapKey(storeID, stock.VariantKey(productID, colorID, dimensionID))]
	return stock.FromRecord(vs)
}

func stoktanItem(productID, colorID uint, qty int, price float64) models.SaleItem {
	return models.SaleItem{
		ProductID:    productID,
		ColorID:      colorID,
		Quantity:     qty,
		UnitPrice:    price,
		SupplyMethod: models.SupplyFromStock,
	}
}

func merkezdenItem(productID, colorID uint, qty int, price float64) models.SaleItem {
	it := stoktanItem(productID, colorID, qty, price)
	it.SupplyMethod = models.SupplyFromCenter
	return it
}

func newSale(storeID uint, receiptNo string, items ...models.SaleItem) *models.Sale {
	return &models.Sale{
		StoreID:      storeID,
		ReceiptNo:    receiptNo,
		CustomerName: "Ayşe Yılmaz",
		Items:        items,
	}
}

// -------------------------
// Oluşturma
// -------------------------

func TestCreateSaleFromStock(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0001", stoktanItem(10, 20, 3, 100))
	sale.ShippingCost = 10
	require.NoError(t, svc.Create(sale))

	assert.Equal(t, stock.Counters{Free: 2, Reserved: 3}, counters(t, ms, 1, 10, 20, nil))
	assert.Equal(t, 310.0, sale.GrandTotal)
	assert.Len(t, ms.state.sales, 1)
	assert.Empty(t, ms.state.purchases, "Stoktan satış sipariş üretmemeli")

	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryWaiting, got.Items[0].Delivery)
	assert.Equal(t, models.SaleItemOrdered, got.Items[0].Status)
}

func TestCreateSaleFromCenter(t *testing.T) {
	ms := newMemStore()
	catID := uint(4)
	seedProduct(ms, 10, &catID)
	svc := NewService(ms)

	sale := newSale(1, "2024-0002", merkezdenItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	// Stok kaydı yokken sıfır taban üzerinden oluşturulur.
	assert.Equal(t, stock.Counters{IncomingReserved: 3}, counters(t, ms, 1, 10, 20, nil))

	require.Len(t, ms.state.purchases, 1)
	p := ms.state.purchases[0]
	assert.Equal(t, "SAT-2024-0002", p.ReceiptNo)
	require.Len(t, p.Items, 1)
	assert.Equal(t, 3, p.Items[0].Quantity)
	assert.Equal(t, models.PurchaseItemWaiting, p.Items[0].Status)
	require.NotNil(t, p.Items[0].CategoryID, "sipariş satırı ürünün kategori referansını taşımalı")
	assert.Equal(t, catID, *p.Items[0].CategoryID)
}

func TestCreateSaleFromCenterProductMissing(t *testing.T) {
	// Ürün kaydı bulunamazsa sipariş yine üretilir, kategori boş kalır.
	ms := newMemStore()
	svc := NewService(ms)

	require.NoError(t, svc.Create(newSale(1, "2024-0007", merkezdenItem(10, 20, 1, 100))))

	require.Len(t, ms.state.purchases, 1)
	assert.Nil(t, ms.state.purchases[0].Items[0].CategoryID)
}

func TestCreateAccumulatesDuplicateVariant(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	// Aynı varyanta iki satır: farklar toplanmalı, üst üste yazılmamalı.
	sale := newSale(1, "2024-0003",
		stoktanItem(10, 20, 1, 100),
		stoktanItem(10, 20, 2, 100),
	)
	require.NoError(t, svc.Create(sale))

	assert.Equal(t, stock.Counters{Free: -3, Reserved: 3}, counters(t, ms, 1, 10, 20, nil))
}

func TestCreateOversellAllowed(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 1})
	svc := NewService(ms)

	require.NoError(t, svc.Create(newSale(1, "2024-0004", stoktanItem(10, 20, 5, 100))))
	assert.Equal(t, stock.Counters{Free: -4, Reserved: 5}, counters(t, ms, 1, 10, 20, nil))
}

func TestCreateValidationWritesNothing(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	sale := newSale(1, "2024-0005", stoktanItem(10, 20, 3, 100))
	sale.CustomerName = ""

	err := svc.Create(sale)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Zero(t, ms.attempts, "doğrulama hatasında işlem hiç açılmamalı")
	assert.Empty(t, ms.state.sales)
	assert.Empty(t, ms.state.stocks)
}

func TestCreateRejectsMalformedItem(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	bad := stoktanItem(10, 20, 0, 100)
	err := svc.Create(newSale(1, "2024-0006", bad))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// -------------------------
// Teslimat durumu
// -------------------------

func TestDeliveryStatusConsumesReservation(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0010", stoktanItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	require.NoError(t, svc.UpdateDeliveryStatus(1, sale.ID, 0, models.DeliveryDelivered))
	assert.Equal(t, stock.Counters{Free: 2}, counters(t, ms, 1, 10, 20, nil))

	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDelivered, got.Items[0].Delivery)

	// Geri alma rezervi aynen kurar.
	require.NoError(t, svc.UpdateDeliveryStatus(1, sale.ID, 0, models.DeliveryWaiting))
	assert.Equal(t, stock.Counters{Free: 2, Reserved: 3}, counters(t, ms, 1, 10, 20, nil))
}

func TestDeliveryStatusCenterItem(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	sale := newSale(1, "2024-0011", merkezdenItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))

	require.NoError(t, svc.UpdateDeliveryStatus(1, sale.ID, 0, models.DeliveryDelivered))
	assert.Equal(t, stock.Counters{}, counters(t, ms, 1, 10, 20, nil))
}

func TestDeliveryStatusSameStatusNoChange(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0012", stoktanItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	before := counters(t, ms, 1, 10, 20, nil)
	require.NoError(t, svc.UpdateDeliveryStatus(1, sale.ID, 0, models.DeliveryWaiting))
	assert.Equal(t, before, counters(t, ms, 1, 10, 20, nil))
}

func TestDeliveryStatusMissingStockRecord(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	sale := newSale(1, "2024-0013", stoktanItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	// Stok belgesi ortadan kalkmış olsa bile durum güncellenir,
	// yeni bir stok kaydı uydurulmaz.
	key := stockMapKey(1, stock.VariantKey(10, 20, nil))
	delete(ms.state.stocks, key)

	require.NoError(t, svc.UpdateDeliveryStatus(1, sale.ID, 0, models.DeliveryDelivered))
	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDelivered, got.Items[0].Delivery)
	_, ok := ms.state.stocks[key]
	assert.False(t, ok)
}

func TestDeliveryStatusInvalid(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	err := svc.UpdateDeliveryStatus(1, 1, 0, "Yolda")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// -------------------------
// Düzenleme
// -------------------------

func editHeader(sale *models.Sale) SaleHeader {
	return SaleHeader{
		CustomerName: sale.CustomerName,
		Phone:        sale.Phone,
		Address:      sale.Address,
		ShippingCost: sale.ShippingCost,
	}
}

func TestUpdateRemoveItemRestoresStock(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0020", stoktanItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	warning, err := svc.Update(1, sale.ID, editHeader(stored), nil, stored.Items)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))

	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0.0, got.GrandTotal)
}

func TestUpdateRemoveUsesStoredSupplyMethod(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	sale := newSale(1, "2024-0021", merkezdenItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))
	require.Equal(t, stock.Counters{IncomingReserved: 2}, counters(t, ms, 1, 10, 20, nil))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	// Geri alma satırın KAYITLI tedarik şekliyle yapılmalı: Merkezden
	// satırın çıkarılması serbest stoğa asla dokunmaz.
	_, err = svc.Update(1, sale.ID, editHeader(stored), nil, stored.Items)
	require.NoError(t, err)
	assert.Equal(t, stock.Counters{}, counters(t, ms, 1, 10, 20, nil))
}

func TestUpdateAddAndRemoveTogether(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	seedStock(ms, 1, 11, 20, nil, stock.Counters{Free: 2})
	svc := NewService(ms)

	sale := newSale(1, "2024-0022", stoktanItem(10, 20, 3, 100))
	require.NoError(t, svc.Create(sale))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	added := []models.SaleItem{stoktanItem(11, 20, 1, 250)}
	warning, err := svc.Update(1, sale.ID, editHeader(stored), added, stored.Items)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
	assert.Equal(t, stock.Counters{Free: 1, Reserved: 1}, counters(t, ms, 1, 11, 20, nil))

	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(11), got.Items[0].ProductID)
	assert.Equal(t, 0, got.Items[0].ItemIndex)
	assert.Equal(t, 250.0, got.GrandTotal)
}

func TestUpdateOversellWarnsButCommits(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 11, 20, nil, stock.Counters{Free: 1})
	svc := NewService(ms)

	sale := newSale(1, "2024-0023", merkezdenItem(10, 20, 1, 100))
	require.NoError(t, svc.Create(sale))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	added := []models.SaleItem{stoktanItem(11, 20, 5, 100)}
	warning, err := svc.Update(1, sale.ID, editHeader(stored), added, nil)
	require.NoError(t, err, "fazla satış işlemi asla durdurmaz")
	assert.NotEmpty(t, warning)

	// Uyarıya rağmen yazma tamamlanmıştır.
	assert.Equal(t, stock.Counters{Free: -4, Reserved: 5}, counters(t, ms, 1, 11, 20, nil))
	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestUpdateStaleRemovalDoesNotDoubleRelease(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0024", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))
	require.Equal(t, stock.Counters{Free: 3, Reserved: 2}, counters(t, ms, 1, 10, 20, nil))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	// İlk düzenleme satırı çıkarır ve rezervi geri kurar.
	_, err = svc.Update(1, sale.ID, editHeader(stored), nil, stored.Items)
	require.NoError(t, err)
	require.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))

	// Aynı (artık bayat) çıkarma listesiyle ikinci düzenleme: satırın
	// karşılığı kalmadığından rezerv ikinci kez serbest bırakılmamalı.
	_, err = svc.Update(1, sale.ID, editHeader(stored), nil, stored.Items)
	require.NoError(t, err)
	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
}

func TestUpdateNotFound(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)

	_, err := svc.Update(1, 99, SaleHeader{CustomerName: "Ali"}, nil, nil)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

// -------------------------
// İptal / silme
// -------------------------

func TestCancelReleasesStockKeepsDocument(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0030",
		stoktanItem(10, 20, 2, 100),
		merkezdenItem(11, 20, 1, 200),
	)
	require.NoError(t, svc.Create(sale))
	require.Equal(t, stock.Counters{Free: 3, Reserved: 2}, counters(t, ms, 1, 10, 20, nil))
	require.Equal(t, stock.Counters{IncomingReserved: 1}, counters(t, ms, 1, 11, 20, nil))

	require.NoError(t, svc.Cancel(models.RoleStoreAdmin, 1, sale.ID))

	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
	assert.Equal(t, stock.Counters{}, counters(t, ms, 1, 11, 20, nil))

	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err, "iptal belgesi denetim için yerinde kalır")
	assert.Equal(t, 0.0, got.GrandTotal)
	for _, it := range got.Items {
		assert.Equal(t, models.SaleItemCancelled, it.Status)
	}
}

func TestCancelTwiceDoesNotDoubleRelease(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0031", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))
	require.NoError(t, svc.Cancel(models.RoleSuperAdmin, 1, sale.ID))
	require.NoError(t, svc.Cancel(models.RoleSuperAdmin, 1, sale.ID))

	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
}

func TestCancelForbiddenForStaff(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0032", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))

	err := svc.Cancel(models.RoleStoreStaff, 1, sale.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, stock.Counters{Free: 3, Reserved: 2}, counters(t, ms, 1, 10, 20, nil))
}

func TestDeleteRemovesSaleAndReleasesStock(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0033", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))

	require.NoError(t, svc.Delete(models.RoleStoreAdmin, 1, sale.ID))

	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
	_, err := svc.Get(1, sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

// -------------------------
// İşlem çakışmaları
// -------------------------

func TestTransactRetriesThenSucceeds(t *testing.T) {
	ms := newMemStore()
	ms.conflictsLeft = 2
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	require.NoError(t, svc.Create(newSale(1, "2024-0040", stoktanItem(10, 20, 3, 100))))
	assert.Equal(t, 3, ms.attempts)

	// Düşen denemelerin yazmaları sızmamış olmalı: fark bir kez uygulanır.
	assert.Equal(t, stock.Counters{Free: 2, Reserved: 3}, counters(t, ms, 1, 10, 20, nil))
	assert.Len(t, ms.state.sales, 1)
}

func TestTransactBudgetExhausted(t *testing.T) {
	ms := newMemStore()
	ms.conflictsLeft = txRetryBudget
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	err := svc.Create(newSale(1, "2024-0041", stoktanItem(10, 20, 3, 100)))
	assert.ErrorIs(t, err, ErrTransactionConflict)

	// Ya hep ya hiç: kısmi yazma kalıcı olmaz.
	assert.Empty(t, ms.state.sales)
	assert.Equal(t, stock.Counters{Free: 5}, counters(t, ms, 1, 10, 20, nil))
}

func TestUpdateWarningsNotDuplicatedAcrossRetries(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 11, 20, nil, stock.Counters{Free: 1})
	svc := NewService(ms)

	sale := newSale(1, "2024-0042", merkezdenItem(10, 20, 1, 100))
	require.NoError(t, svc.Create(sale))

	stored, err := svc.Get(1, sale.ID)
	require.NoError(t, err)

	ms.conflictsLeft = 2
	added := []models.SaleItem{stoktanItem(11, 20, 5, 100)}
	warning, err := svc.Update(1, sale.ID, editHeader(stored), added, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.False(t, strings.Contains(warning, ";"), "uyarı yenilenen denemelerde birikmemeli: %q", warning)
}
