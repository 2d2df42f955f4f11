package models

import "time"

// VariantStock: Şube + (ürün, renk, ebat) kombinasyonu başına stok sayaçları.
// Kayıt yoksa tüm sayaçlar 0 kabul edilir; ilk mutasyonda oluşturulur.
// Sayaçlar bilinçli olarak negatife düşebilir: fazla satış engellenmez,
// yalnızca uyarı olarak gösterilir.
type VariantStock struct {
	ID      uint `gorm:"primaryKey"`
	StoreID uint `gorm:"index;not null;uniqueIndex:idx_store_variant"`
	Store   Store
	// VariantKey: "{productId}_{colorId}_{dimensionId-veya-'null'}"
	VariantKey  string `gorm:"size:100;not null;uniqueIndex:idx_store_variant"`
	ProductID   uint   `gorm:"index;not null"`
	ColorID     uint   `gorm:"not null"`
	DimensionID *uint

	FreeStock             int `gorm:"not null;default:0"` // eldeki serbest stok
	ReservedStock         int `gorm:"not null;default:0"` // stoktan satışa ayrılmış, henüz teslim edilmemiş
	IncomingStock         int `gorm:"not null;default:0"` // merkezden beklenen, henüz gelmemiş
	IncomingReservedStock int `gorm:"not null;default:0"` // merkezden satışa söz verilmiş

	CreatedAt time.Time
	UpdatedAt time.Time
}
