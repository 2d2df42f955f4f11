package sales

import (
	"fmt"

	"magaza-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/sales/export — şubenin satışlarını satır bazında Excel'e döker.
func ExportSalesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		list, err := svc.List(storeID)
		if err != nil {
			return mapServiceError(err)
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Satışlar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Fiş No", "Müşteri", "Telefon", "Tarih", "Ürün ID", "Renk ID", "Adet", "Birim Fiyat", "İndirim", "Satır Toplamı", "Tedarik", "Teslimat", "Durum", "Not"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		row := 2
		for _, sale := range list {
			for _, it := range sale.Items {
				values := []any{
					sale.ReceiptNo,
					sale.CustomerName,
					sale.Phone,
					sale.CreatedAt.Format("2006-01-02 15:04"),
					it.ProductID,
					it.ColorID,
					it.Quantity,
					it.UnitPrice,
					it.Discount,
					it.LineTotal(),
					string(it.SupplyMethod),
					string(it.Delivery),
					string(it.Status),
					it.Note,
				}
				for i, v := range values {
					cell, _ := excelize.CoordinatesToCellName(i+1, row)
					f.SetCellValue(sheet, cell, v)
				}
				row++
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="satislar_sube_%d.xlsx"`, storeID))
		return c.Send(buf.Bytes())
	}
}
