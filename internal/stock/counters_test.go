package stock

import (
	"testing"

	"magaza-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestReserveDelta(t *testing.T) {
	assert.Equal(t, Counters{Free: -3, Reserved: 3}, ReserveDelta(3, models.SupplyFromStock))
	assert.Equal(t, Counters{IncomingReserved: 3}, ReserveDelta(3, models.SupplyFromCenter))
}

func TestReleaseDeltaIsInverse(t *testing.T) {
	for _, method := range []models.SupplyMethod{models.SupplyFromStock, models.SupplyFromCenter} {
		sum := ReserveDelta(7, method).Add(ReleaseDelta(7, method))
		assert.True(t, sum.IsZero(), "rezerv + geri alma sıfırlanmalı (%s)", method)
	}
}

func TestDeliverDelta(t *testing.T) {
	assert.Equal(t, Counters{Reserved: -2}, DeliverDelta(2, models.SupplyFromStock))
	assert.Equal(t, Counters{IncomingReserved: -2}, DeliverDelta(2, models.SupplyFromCenter))

	for _, method := range []models.SupplyMethod{models.SupplyFromStock, models.SupplyFromCenter} {
		sum := DeliverDelta(4, method).Add(UndoDeliverDelta(4, method))
		assert.True(t, sum.IsZero(), "teslim + geri alma sıfırlanmalı (%s)", method)
	}
}

func TestCountersMayGoNegative(t *testing.T) {
	// Fazla satış engellenmez: serbest stok eksiye düşebilir.
	c := Counters{Free: 1}.Add(ReserveDelta(5, models.SupplyFromStock))
	assert.Equal(t, Counters{Free: -4, Reserved: 5}, c)
}

func TestAccumulation(t *testing.T) {
	// Aynı varyanta birden fazla satır: farklar toplanır, üst üste yazılmaz.
	d := ReserveDelta(1, models.SupplyFromStock).Add(ReserveDelta(2, models.SupplyFromStock))
	assert.Equal(t, Counters{Free: -3, Reserved: 3}, d)
}

func TestFromRecordNil(t *testing.T) {
	assert.True(t, FromRecord(nil).IsZero())
}

func TestRecordRoundTrip(t *testing.T) {
	vs := &models.VariantStock{}
	ApplyToRecord(vs, Counters{Free: 5, Reserved: 1, Incoming: 2, IncomingReserved: 3})
	assert.Equal(t, Counters{Free: 5, Reserved: 1, Incoming: 2, IncomingReserved: 3}, FromRecord(vs))
}
