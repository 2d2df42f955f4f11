package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrSaleNotFound: düzenleme/iptal/silme için referans verilen satış yok.
	ErrSaleNotFound = errors.New("satış kaydı bulunamadı")

	// ErrTransactionConflict: atomik işlem yeniden deneme bütçesi içinde
	// commit edilemedi. Hiçbir kısmi yazma kalıcı olmaz.
	ErrTransactionConflict = errors.New("işlem eşzamanlılık çakışması nedeniyle tamamlanamadı")

	// ErrForbidden: iptal/silme yalnızca yetkili role açıktır.
	ErrForbidden = errors.New("bu işlem için yetki yok")
)

// ValidationError: işlem açılmadan önce yakalanan istek hataları.
// Bu hata döndüğünde hiçbir şey yazılmamıştır.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
