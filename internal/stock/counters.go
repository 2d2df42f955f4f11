package stock

import "magaza-backend/internal/models"

// Counters: Bir varyantın dört stok sayacının saf (I/O'suz) temsili.
// Delta olarak da kullanılır; Apply ile mevcut duruma eklenir.
// Sayaçlar negatife düşebilir, burada hiçbir sınır kontrolü yapılmaz.
type Counters struct {
	Free             int
	Reserved         int
	Incoming         int
	IncomingReserved int
}

func (c Counters) Add(d Counters) Counters {
	return Counters{
		Free:             c.Free + d.Free,
		Reserved:         c.Reserved + d.Reserved,
		Incoming:         c.Incoming + d.Incoming,
		IncomingReserved: c.IncomingReserved + d.IncomingReserved,
	}
}

func (c Counters) Negate() Counters {
	return Counters{
		Free:             -c.Free,
		Reserved:         -c.Reserved,
		Incoming:         -c.Incoming,
		IncomingReserved: -c.IncomingReserved,
	}
}

func (c Counters) IsZero() bool {
	return c == Counters{}
}

// ReserveDelta: Satış satırı oluşturulurken uygulanacak fark.
// Stoktan: serbest stoktan düşülür, rezerve edilir.
// Merkezden: yalnızca merkezden-rezerve sayacı artar.
func ReserveDelta(quantity int, method models.SupplyMethod) Counters {
	if method == models.SupplyFromCenter {
		return Counters{IncomingReserved: quantity}
	}
	return Counters{Free: -quantity, Reserved: quantity}
}

// ReleaseDelta: ReserveDelta'nın tersi. Satır silinirken/iptal edilirken
// her zaman satırın KAYITLI tedarik şekliyle çağrılmalıdır.
func ReleaseDelta(quantity int, method models.SupplyMethod) Counters {
	return ReserveDelta(quantity, method).Negate()
}

// DeliverDelta: "Teslim Edildi" durumuna geçişte uygulanacak fark.
// Mal fiziksel olarak çıktığı için rezerv sayacı düşer.
func DeliverDelta(quantity int, method models.SupplyMethod) Counters {
	if method == models.SupplyFromCenter {
		return Counters{IncomingReserved: -quantity}
	}
	return Counters{Reserved: -quantity}
}

// UndoDeliverDelta: "Teslim Edildi" durumundan çıkışta rezerv geri kurulur.
func UndoDeliverDelta(quantity int, method models.SupplyMethod) Counters {
	return DeliverDelta(quantity, method).Negate()
}

// FromRecord / ApplyToRecord: sayaçları GORM kaydıyla eşler.

func FromRecord(vs *models.VariantStock) Counters {
	if vs == nil {
		return Counters{}
	}
	return Counters{
		Free:             vs.FreeStock,
		Reserved:         vs.ReservedStock,
		Incoming:         vs.IncomingStock,
		IncomingReserved: vs.IncomingReservedStock,
	}
}

func ApplyToRecord(vs *models.VariantStock, c Counters) {
	vs.FreeStock = c.Free
	vs.ReservedStock = c.Reserved
	vs.IncomingStock = c.Incoming
	vs.IncomingReservedStock = c.IncomingReserved
}
