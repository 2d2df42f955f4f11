package catalog

import (
	"strings"

	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	StockCode           string `json:"stock_code"`
	CategoryID          *uint  `json:"category_id"`
	DefaultSupplyMethod string `json:"default_supply_method"`
}

type CreateProductRequest struct {
	Name                string `json:"name"`
	StockCode           string `json:"stock_code"` // Opsiyonel
	CategoryID          *uint  `json:"category_id"`
	DefaultSupplyMethod string `json:"default_supply_method"` // Opsiyonel, varsayılan "Stoktan"
}

type UpdateProductRequest struct {
	Name                *string `json:"name"`
	StockCode           *string `json:"stock_code"`
	CategoryID          *uint   `json:"category_id"`
	DefaultSupplyMethod *string `json:"default_supply_method"`
}

func productToResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		StockCode:           p.StockCode,
		CategoryID:          p.CategoryID,
		DefaultSupplyMethod: string(p.DefaultSupplyMethod),
	}
}

func parseSupplyMethod(s string) (models.SupplyMethod, bool) {
	switch models.SupplyMethod(s) {
	case models.SupplyFromStock, models.SupplyFromCenter:
		return models.SupplyMethod(s), true
	}
	return "", false
}

// GET /api/products (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productToResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products (sadece super_admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.StockCode = strings.TrimSpace(body.StockCode)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		method := models.SupplyFromStock
		if body.DefaultSupplyMethod != "" {
			m, ok := parseSupplyMethod(body.DefaultSupplyMethod)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "default_supply_method 'Stoktan' veya 'Merkezden' olmalı")
			}
			method = m
		}

		// Stok kodu unique kontrolü (boş değilse)
		if body.StockCode != "" {
			var existingProduct models.Product
			if err := database.DB.Where("stock_code = ?", body.StockCode).First(&existingProduct).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu stok kodu zaten kullanılıyor")
			}
		}

		p := models.Product{
			Name:                body.Name,
			StockCode:           body.StockCode,
			CategoryID:          body.CategoryID,
			DefaultSupplyMethod: method,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productToResponse(p))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			p.Name = name
		}
		if body.StockCode != nil {
			p.StockCode = strings.TrimSpace(*body.StockCode)
		}
		if body.CategoryID != nil {
			p.CategoryID = body.CategoryID
		}
		if body.DefaultSupplyMethod != nil {
			// Varsayılanın değişmesi kayıtlı satış satırlarını etkilemez;
			// geri almalar her zaman satırın kendi tedarik şeklini kullanır.
			m, ok := parseSupplyMethod(*body.DefaultSupplyMethod)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "default_supply_method 'Stoktan' veya 'Merkezden' olmalı")
			}
			p.DefaultSupplyMethod = m
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(productToResponse(p))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
