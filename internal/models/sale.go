package models

import "time"

type SupplyMethod string

const (
	SupplyFromStock  SupplyMethod = "Stoktan"   // eldeki serbest stoktan karşılanır
	SupplyFromCenter SupplyMethod = "Merkezden" // merkez depodan / gelecek sevkiyattan karşılanır
)

type DeliveryStatus string

const (
	DeliveryWaiting   DeliveryStatus = "Bekliyor"
	DeliveryDelivered DeliveryStatus = "Teslim Edildi"
	DeliveryCancelled DeliveryStatus = "İptal"
)

type SaleItemStatus string

const (
	SaleItemOrdered   SaleItemStatus = "Sipariş"
	SaleItemCancelled SaleItemStatus = "İptal"
	SaleItemReturned  SaleItemStatus = "İade"
)

// Sale: Bir fiş/satış kaydı. Fiş numarası kaydedildikten sonra değişmez.
type Sale struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      uint `gorm:"index;not null;uniqueIndex:idx_store_receipt"`
	Store        Store
	ReceiptNo    string `gorm:"size:50;not null;uniqueIndex:idx_store_receipt"`
	CustomerName string `gorm:"size:100;not null"`
	Phone        string `gorm:"size:50"`
	Address      string `gorm:"size:255"`
	ShippingCost float64 `gorm:"not null;default:0"`
	GrandTotal   float64 `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem: Satış içindeki her ürün satırı. Satırın bağımsız bir kimliği yoktur,
// dizin (ItemIndex) üzerinden erişilir. SupplyMethod kayıt anında sabitlenir;
// stok geri alma işlemleri her zaman kayıtlı değeri kullanır.
type SaleItem struct {
	ID          uint `gorm:"primaryKey"`
	SaleID      uint `gorm:"index;not null"`
	ItemIndex   int  `gorm:"not null"` // satış içindeki sıra (0'dan başlar)
	ProductID   uint `gorm:"index;not null"`
	Product     Product
	ColorID     uint `gorm:"not null"`
	Color       Color
	DimensionID *uint
	Dimension   *Dimension
	CushionID   *uint
	Cushion     *Cushion

	Quantity     int     `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"`
	Discount     float64 `gorm:"not null;default:0"`
	SupplyMethod SupplyMethod   `gorm:"size:20;not null"`
	Delivery     DeliveryStatus `gorm:"size:20;not null;default:Bekliyor"`
	Status       SaleItemStatus `gorm:"size:20;not null;default:Sipariş"`
	Note         string         `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal: satırın indirimli toplamı.
func (it SaleItem) LineTotal() float64 {
	return float64(it.Quantity)*it.UnitPrice - it.Discount
}
