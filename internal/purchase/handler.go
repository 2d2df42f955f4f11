package purchase

import (
	"magaza-backend/internal/auth"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PurchaseItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	CategoryID  *uint   `json:"category_id"`
	ColorID     uint    `json:"color_id"`
	DimensionID *uint   `json:"dimension_id"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Explanation string  `json:"explanation"`
}

type PurchaseResponse struct {
	ID        uint                   `json:"id"`
	StoreID   uint                   `json:"store_id"`
	ReceiptNo string                 `json:"receipt_no"`
	Type      string                 `json:"type"`
	Note      string                 `json:"note"`
	CreatedAt string                 `json:"created_at"`
	Items     []PurchaseItemResponse `json:"items"`
}

type UpdatePurchaseItemStatusRequest struct {
	Status string `json:"status"` // "Beklemede" / "Sipariş Verildi" / "Teslim Alındı"
}

func purchaseToResponse(p models.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			CategoryID:  it.CategoryID,
			ColorID:     it.ColorID,
			DimensionID: it.DimensionID,
			Quantity:    it.Quantity,
			Amount:      it.Amount,
			Status:      string(it.Status),
			Explanation: it.Explanation,
		})
	}
	return PurchaseResponse{
		ID:        p.ID,
		StoreID:   p.StoreID,
		ReceiptNo: p.ReceiptNo,
		Type:      string(p.Type),
		Note:      p.Note,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:     items,
	}
}

// GET /api/purchases — şubenin sipariş kayıtları (en yeni önce).
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var purchases []models.Purchase
		if err := database.DB.
			Preload("Items").
			Where("store_id = ?", storeID).
			Order("created_at DESC").
			Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]PurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			res = append(res, purchaseToResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/purchases/:id
func GetPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var p models.Purchase
		if err := database.DB.
			Preload("Items").
			Where("store_id = ?", storeID).
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		return c.JSON(purchaseToResponse(p))
	}
}

// PUT /api/purchases/:id/items/:itemId/status
// Satır durumu yalnızca takip amaçlıdır; stok sayaçlarına dokunmaz.
// Gelen sevkiyatın stoğa işlenmesi ayrı bir mal kabul akışının konusudur.
func UpdatePurchaseItemStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var body UpdatePurchaseItemStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		status := models.PurchaseItemStatus(body.Status)
		switch status {
		case models.PurchaseItemWaiting, models.PurchaseItemOrdered, models.PurchaseItemReceived:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status 'Beklemede', 'Sipariş Verildi' veya 'Teslim Alındı' olmalı")
		}

		var p models.Purchase
		if err := database.DB.
			Where("store_id = ?", storeID).
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		var item models.PurchaseItem
		if err := database.DB.
			Where("purchase_id = ?", p.ID).
			First(&item, "id = ?", c.Params("itemId")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş satırı bulunamadı")
		}

		item.Status = status
		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş satırı güncellenemedi")
		}

		return c.JSON(fiber.Map{"message": "Sipariş satırı güncellendi", "status": string(item.Status)})
	}
}
