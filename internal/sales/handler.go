package sales

import (
	"errors"
	"fmt"
	"strings"

	"magaza-backend/internal/audit"
	"magaza-backend/internal/auth"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SaleItemRequest struct {
	ProductID    uint    `json:"product_id"`
	ColorID      uint    `json:"color_id"`
	DimensionID  *uint   `json:"dimension_id"`
	CushionID    *uint   `json:"cushion_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	SupplyMethod string  `json:"supply_method"` // "Stoktan" / "Merkezden"
	Note         string  `json:"note"`
}

type CreateSaleRequest struct {
	StoreID      *uint             `json:"store_id"` // super_admin için zorunlu
	ReceiptNo    string            `json:"receipt_no"`
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	ShippingCost float64           `json:"shipping_cost"`
	Items        []SaleItemRequest `json:"items"`
}

type UpdateSaleRequest struct {
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	ShippingCost float64           `json:"shipping_cost"`
	Items        []SaleItemRequest `json:"items"` // istenen nihai satır listesi
}

type UpdateDeliveryRequest struct {
	Delivery string `json:"delivery"` // "Bekliyor" / "Teslim Edildi" / "İptal"
}

type SaleItemResponse struct {
	ItemIndex    int     `json:"item_index"`
	ProductID    uint    `json:"product_id"`
	ColorID      uint    `json:"color_id"`
	DimensionID  *uint   `json:"dimension_id"`
	CushionID    *uint   `json:"cushion_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	LineTotal    float64 `json:"line_total"`
	SupplyMethod string  `json:"supply_method"`
	Delivery     string  `json:"delivery"`
	Status       string  `json:"status"`
	Note         string  `json:"note"`
}

type SaleResponse struct {
	ID           uint               `json:"id"`
	StoreID      uint               `json:"store_id"`
	ReceiptNo    string             `json:"receipt_no"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	ShippingCost float64            `json:"shipping_cost"`
	GrandTotal   float64            `json:"grand_total"`
	CreatedAt    string             `json:"created_at"`
	Items        []SaleItemResponse `json:"items"`
}

func itemFromRequest(r SaleItemRequest) models.SaleItem {
	return models.SaleItem{
		ProductID:    r.ProductID,
		ColorID:      r.ColorID,
		DimensionID:  r.DimensionID,
		CushionID:    r.CushionID,
		Quantity:     r.Quantity,
		UnitPrice:    r.UnitPrice,
		Discount:     r.Discount,
		SupplyMethod: models.SupplyMethod(r.SupplyMethod),
		Note:         strings.TrimSpace(r.Note),
	}
}

func saleToResponse(sale *models.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, SaleItemResponse{
			ItemIndex:    it.ItemIndex,
			ProductID:    it.ProductID,
			ColorID:      it.ColorID,
			DimensionID:  it.DimensionID,
			CushionID:    it.CushionID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
			LineTotal:    it.LineTotal(),
			SupplyMethod: string(it.SupplyMethod),
			Delivery:     string(it.Delivery),
			Status:       string(it.Status),
			Note:         it.Note,
		})
	}
	return SaleResponse{
		ID:           sale.ID,
		StoreID:      sale.StoreID,
		ReceiptNo:    sale.ReceiptNo,
		CustomerName: sale.CustomerName,
		Phone:        sale.Phone,
		Address:      sale.Address,
		ShippingCost: sale.ShippingCost,
		GrandTotal:   sale.GrandTotal,
		CreatedAt:    sale.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:        items,
	}
}

// mapServiceError: servis hatalarını HTTP durum kodlarına çevirir.
func mapServiceError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	case errors.Is(err, ErrSaleNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	case errors.Is(err, ErrTransactionConflict):
		return fiber.NewError(fiber.StatusConflict, "İşlem çakışması; lütfen tekrar deneyin")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
	}
}

// POST /api/sales
func CreateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		sale := &models.Sale{
			StoreID:      storeID,
			ReceiptNo:    strings.TrimSpace(body.ReceiptNo),
			CustomerName: strings.TrimSpace(body.CustomerName),
			Phone:        strings.TrimSpace(body.Phone),
			Address:      strings.TrimSpace(body.Address),
			ShippingCost: body.ShippingCost,
		}
		for _, r := range body.Items {
			sale.Items = append(sale.Items, itemFromRequest(r))
		}

		if err := svc.Create(sale); err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &storeID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satış oluşturuldu (Fiş: %s, Müşteri: %s)", sale.ReceiptNo, sale.CustomerName),
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(saleToResponse(sale))
	}
}

// GET /api/sales
func ListSalesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		list, err := svc.List(storeID)
		if err != nil {
			return mapServiceError(err)
		}

		res := make([]SaleResponse, 0, len(list))
		for i := range list {
			res = append(res, saleToResponse(&list[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/sales/:id
func GetSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ID geçersiz")
		}

		sale, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(saleToResponse(sale))
	}
}

// PUT /api/sales/:id
// Fiş numarası değiştirilemez; istek nihai satır listesini gönderir,
// kayıtlı listeyle fark alınır ve yalnızca değişen satırlar işlenir.
func UpdateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ID geçersiz")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}

		desired := make([]models.SaleItem, 0, len(body.Items))
		for _, r := range body.Items {
			desired = append(desired, itemFromRequest(r))
		}
		added, removed := DiffItems(before.Items, desired)

		header := SaleHeader{
			CustomerName: body.CustomerName,
			Phone:        strings.TrimSpace(body.Phone),
			Address:      strings.TrimSpace(body.Address),
			ShippingCost: body.ShippingCost,
		}

		warning, err := svc.Update(storeID, uint(saleID), header, added, removed)
		if err != nil {
			return mapServiceError(err)
		}

		after, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &storeID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    after.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Satış düzenlendi (Fiş: %s, eklenen: %d, çıkarılan: %d)", after.ReceiptNo, len(added), len(removed)),
			Before:      before,
			After:       after,
		})

		return c.JSON(fiber.Map{
			"sale":    saleToResponse(after),
			"warning": warning,
		})
	}
}

// PUT /api/sales/:id/items/:index/delivery
func UpdateDeliveryStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ID geçersiz")
		}
		itemIndex, err := c.ParamsInt("index")
		if err != nil || itemIndex < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satır numarası geçersiz")
		}

		var body UpdateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := svc.UpdateDeliveryStatus(storeID, uint(saleID), itemIndex, models.DeliveryStatus(body.Delivery)); err != nil {
			return mapServiceError(err)
		}

		sale, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &storeID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Teslimat durumu güncellendi (Fiş: %s, satır: %d, durum: %s)", sale.ReceiptNo, itemIndex, body.Delivery),
			After:       sale,
		})

		return c.JSON(saleToResponse(sale))
	}
}

// POST /api/sales/:id/cancel (store_admin veya super_admin)
func CancelSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ID geçersiz")
		}

		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}
		// Yetkisiz çağrılar için başka hiçbir iş yapılmaz.
		if !canCancel(role) {
			return mapServiceError(ErrForbidden)
		}
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}

		if err := svc.Cancel(role, storeID, uint(saleID)); err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &storeID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    before.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("Satış iptal edildi (Fiş: %s)", before.ReceiptNo),
			Before:      before,
		})

		return c.JSON(fiber.Map{"message": "Satış iptal edildi"})
	}
}

// DELETE /api/sales/:id (store_admin veya super_admin)
func DeleteSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ID geçersiz")
		}

		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}
		if !canCancel(role) {
			return mapServiceError(ErrForbidden)
		}
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		before, err := svc.Get(storeID, uint(saleID))
		if err != nil {
			return mapServiceError(err)
		}

		if err := svc.Delete(role, storeID, uint(saleID)); err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &storeID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    before.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Satış silindi (Fiş: %s)", before.ReceiptNo),
			Before:      before,
		})

		return c.JSON(fiber.Map{"message": "Satış silindi"})
	}
}
