package models

import "time"

type ProductCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null;unique"`
	StockCode  string `gorm:"size:50;index"` // Opsiyonel stok kodu
	CategoryID *uint
	Category   *ProductCategory
	// Satış ekranında önerilen tedarik şekli. Satır kaydedildikten sonra
	// değişirse eski satırları etkilemez, yalnızca yeni satışlar için varsayılandır.
	DefaultSupplyMethod SupplyMethod `gorm:"size:20;not null;default:Stoktan"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
