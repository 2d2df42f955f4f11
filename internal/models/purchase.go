package models

import "time"

type PurchaseType string

const (
	PurchaseTypeOrder PurchaseType = "Sipariş"
)

type PurchaseItemStatus string

const (
	PurchaseItemWaiting  PurchaseItemStatus = "Beklemede"
	PurchaseItemOrdered  PurchaseItemStatus = "Sipariş Verildi"
	PurchaseItemReceived PurchaseItemStatus = "Teslim Alındı"
)

// Purchase: Merkezden tedarik edilecek ürünler için otomatik oluşturulan
// sipariş kaydı. Fiş numarası "SAT-" + kaynak satışın fiş numarasıdır;
// bağ yalnızca bu kurala dayanır, zorunlu bir foreign key yoktur.
type Purchase struct {
	ID        uint `gorm:"primaryKey"`
	StoreID   uint `gorm:"index;not null"`
	Store     Store
	ReceiptNo string       `gorm:"size:60;not null;index"`
	Type      PurchaseType `gorm:"size:20;not null"`
	Note      string       `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

type PurchaseItem struct {
	ID          uint `gorm:"primaryKey"`
	PurchaseID  uint `gorm:"index;not null"`
	ProductID   uint `gorm:"index;not null"`
	Product     Product
	CategoryID  *uint
	ColorID     uint `gorm:"not null"`
	Color       Color
	DimensionID *uint
	Dimension   *Dimension

	Quantity    int                `gorm:"not null"`
	Amount      float64            `gorm:"not null;default:0"`
	Status      PurchaseItemStatus `gorm:"size:20;not null;default:Beklemede"`
	Explanation string             `gorm:"size:255"` // hangi müşteri için sipariş edildiği

	CreatedAt time.Time
	UpdatedAt time.Time
}
