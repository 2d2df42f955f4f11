package stock

import (
	"fmt"
	"strconv"
)

// VariantKey: "{productId}_{colorId}_{dimensionId}" bileşik anahtarı.
// Ebat yoksa son parça literal "null" olur; bu format dışarıdaki
// ekranlar tarafından da çözümlendiği için birebir korunmalıdır.
func VariantKey(productID, colorID uint, dimensionID *uint) string {
	dim := "null"
	if dimensionID != nil {
		dim = strconv.FormatUint(uint64(*dimensionID), 10)
	}
	return fmt.Sprintf("%d_%d_%s", productID, colorID, dim)
}
