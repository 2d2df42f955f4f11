package stock

import (
	"magaza-backend/internal/auth"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type VariantStockResponse struct {
	ID                    uint   `json:"id"`
	VariantKey            string `json:"variant_key"`
	ProductID             uint   `json:"product_id"`
	ColorID               uint   `json:"color_id"`
	DimensionID           *uint  `json:"dimension_id"`
	FreeStock             int    `json:"free_stock"`
	ReservedStock         int    `json:"reserved_stock"`
	IncomingStock         int    `json:"incoming_stock"`
	IncomingReservedStock int    `json:"incoming_reserved_stock"`
	Oversold              bool   `json:"oversold"` // serbest stok negatife düşmüş
}

// GET /api/stocks?product_id=3 — şubenin varyant stok kayıtları.
func ListVariantStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("store_id = ?", storeID)
		if pid := c.QueryInt("product_id"); pid > 0 {
			dbq = dbq.Where("product_id = ?", pid)
		}

		var stocks []models.VariantStock
		if err := dbq.Order("variant_key asc").Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları listelenemedi")
		}

		res := make([]VariantStockResponse, 0, len(stocks))
		for _, vs := range stocks {
			res = append(res, VariantStockResponse{
				ID:                    vs.ID,
				VariantKey:            vs.VariantKey,
				ProductID:             vs.ProductID,
				ColorID:               vs.ColorID,
				DimensionID:           vs.DimensionID,
				FreeStock:             vs.FreeStock,
				ReservedStock:         vs.ReservedStock,
				IncomingStock:         vs.IncomingStock,
				IncomingReservedStock: vs.IncomingReservedStock,
				Oversold:              vs.FreeStock < 0,
			})
		}
		return c.JSON(res)
	}
}
