package sales

import (
	"database/sql"
	"errors"
	"fmt"

	"magaza-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx: Tek bir atomik işlem içindeki belge erişimi. Koordinatör tüm
// okumaları yazmalardan önce yapar; bu sıra işlemin gereğidir.
type Tx interface {
	// GetSale: satırları ItemIndex sırasıyla yüklü döner; yoksa ErrSaleNotFound.
	GetSale(storeID, saleID uint) (*models.Sale, error)
	// GetVariantStock: kayıt yoksa (nil, nil) döner; tüm sayaçlar 0 kabul edilir.
	GetVariantStock(storeID uint, variantKey string) (*models.VariantStock, error)
	// GetProduct: kayıt yoksa (nil, nil) döner (ürün katalogdan silinmiş olabilir).
	GetProduct(productID uint) (*models.Product, error)

	CreateSale(sale *models.Sale) error
	// SaveSale: yalnızca başlık alanlarını yazar, satırlara dokunmaz.
	SaveSale(sale *models.Sale) error
	SaveSaleItem(item *models.SaleItem) error
	// ReplaceSaleItems: satış satırlarını verilen listeyle değiştirir.
	ReplaceSaleItems(saleID uint, items []models.SaleItem) error
	DeleteSale(sale *models.Sale) error
	// SaveVariantStock: yoksa oluşturur, varsa sayaçları günceller (merge).
	SaveVariantStock(vs *models.VariantStock) error
	CreatePurchase(p *models.Purchase) error
}

// Store: koordinatörün altındaki işlem primitifi. Transact, commit
// çakışmalarını kendi bütçesi dahilinde yeniler; bütçe tükenirse
// ErrTransactionConflict döner ve hiçbir kısmi yazma kalıcı olmaz.
type Store interface {
	Transact(fn func(Tx) error) error
	GetSale(storeID, saleID uint) (*models.Sale, error)
	ListSales(storeID uint) ([]models.Sale, error)
}

const txRetryBudget = 5

// GormStore: Postgres üzerinde SERIALIZABLE izolasyonla çalışan Store.
// Serileştirme hataları (SQLSTATE 40001/40P01) şeffaf biçimde yenilenir.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transact(fn func(Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < txRetryBudget; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return fn(&gormTx{tx: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrTransactionConflict, lastErr)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func (s *GormStore) GetSale(storeID, saleID uint) (*models.Sale, error) {
	return getSale(s.db, storeID, saleID)
}

func (s *GormStore) ListSales(storeID uint) ([]models.Sale, error) {
	var sales []models.Sale
	if err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_index asc") }).
		Preload("Items.Product").
		Where("store_id = ?", storeID).
		Order("created_at desc, id desc").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

type gormTx struct {
	tx *gorm.DB
}

func getSale(db *gorm.DB, storeID, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_index asc") }).
		First(&sale, "id = ? AND store_id = ?", saleID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (t *gormTx) GetSale(storeID, saleID uint) (*models.Sale, error) {
	return getSale(t.tx, storeID, saleID)
}

func (t *gormTx) GetVariantStock(storeID uint, variantKey string) (*models.VariantStock, error) {
	var vs models.VariantStock
	err := t.tx.First(&vs, "store_id = ? AND variant_key = ?", storeID, variantKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vs, nil
}

func (t *gormTx) GetProduct(productID uint) (*models.Product, error) {
	var p models.Product
	err := t.tx.First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *gormTx) CreateSale(sale *models.Sale) error {
	return t.tx.Create(sale).Error
}

func (t *gormTx) SaveSale(sale *models.Sale) error {
	return t.tx.Omit(clause.Associations).Save(sale).Error
}

func (t *gormTx) SaveSaleItem(item *models.SaleItem) error {
	return t.tx.Omit(clause.Associations).Save(item).Error
}

func (t *gormTx) ReplaceSaleItems(saleID uint, items []models.SaleItem) error {
	if err := t.tx.Where("sale_id = ?", saleID).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].SaleID = saleID
	}
	if len(items) == 0 {
		return nil
	}
	return t.tx.Omit(clause.Associations).Create(&items).Error
}

func (t *gormTx) DeleteSale(sale *models.Sale) error {
	if err := t.tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return t.tx.Delete(sale).Error
}

func (t *gormTx) SaveVariantStock(vs *models.VariantStock) error {
	if vs.ID == 0 {
		return t.tx.Create(vs).Error
	}
	return t.tx.Omit(clause.Associations).Save(vs).Error
}

func (t *gormTx) CreatePurchase(p *models.Purchase) error {
	return t.tx.Create(p).Error
}
