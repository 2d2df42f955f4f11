package sales

import (
	"net/http/httptest"
	"testing"

	"magaza-backend/internal/auth"
	"magaza-backend/internal/models"
	"magaza-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staffApp: store_staff rolüyle kimliklenmiş bir istek bağlamı kurar.
// Yetki kapısı kullanıcı sorgusundan önce çalıştığı için veritabanı gerekmez.
func staffApp(svc *Service, storeID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		sid := storeID
		c.Locals(auth.CtxUserIDKey, uint(7))
		c.Locals(auth.CtxUserRoleKey, models.RoleStoreStaff)
		c.Locals(auth.CtxStoreIDKey, &sid)
		return c.Next()
	})
	app.Post("/api/sales/:id/cancel", CancelSaleHandler(svc))
	app.Delete("/api/sales/:id", DeleteSaleHandler(svc))
	return app
}

func TestCancelHandlerRejectsStaff(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0050", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))

	app := staffApp(svc, 1)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/sales/1/cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Yetkisiz çağrı hiçbir iz bırakmaz: rezerv yerinde, satır durumu aynı.
	assert.Equal(t, stock.Counters{Free: 3, Reserved: 2}, counters(t, ms, 1, 10, 20, nil))
	got, err := svc.Get(1, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleItemOrdered, got.Items[0].Status)
}

func TestDeleteHandlerRejectsStaff(t *testing.T) {
	ms := newMemStore()
	seedStock(ms, 1, 10, 20, nil, stock.Counters{Free: 5})
	svc := NewService(ms)

	sale := newSale(1, "2024-0051", stoktanItem(10, 20, 2, 100))
	require.NoError(t, svc.Create(sale))

	app := staffApp(svc, 1)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/sales/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	_, err = svc.Get(1, sale.ID)
	assert.NoError(t, err, "satış belgesi silinmemiş olmalı")
	assert.Equal(t, stock.Counters{Free: 3, Reserved: 2}, counters(t, ms, 1, 10, 20, nil))
}
