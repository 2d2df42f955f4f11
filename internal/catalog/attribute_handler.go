package catalog

import (
	"strings"

	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Renk / ebat / minder / kategori tanımları: tek alanlı basit kayıtlar.

type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateAttributeRequest struct {
	Name string `json:"name"`
}

func ListColorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var colors []models.Color
		if err := database.DB.Order("name asc").Find(&colors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Renkler listelenemedi")
		}
		res := make([]AttributeResponse, 0, len(colors))
		for _, v := range colors {
			res = append(res, AttributeResponse{ID: v.ID, Name: v.Name})
		}
		return c.JSON(res)
	}
}

func CreateColorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := parseAttributeName(c)
		if err != nil {
			return err
		}
		v := models.Color{Name: name}
		if err := database.DB.Create(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Renk oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(AttributeResponse{ID: v.ID, Name: v.Name})
	}
}

func DeleteColorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Delete(&models.Color{}, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Renk silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ListDimensionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var dims []models.Dimension
		if err := database.DB.Order("name asc").Find(&dims).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ebatlar listelenemedi")
		}
		res := make([]AttributeResponse, 0, len(dims))
		for _, v := range dims {
			res = append(res, AttributeResponse{ID: v.ID, Name: v.Name})
		}
		return c.JSON(res)
	}
}

func CreateDimensionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := parseAttributeName(c)
		if err != nil {
			return err
		}
		v := models.Dimension{Name: name}
		if err := database.DB.Create(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ebat oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(AttributeResponse{ID: v.ID, Name: v.Name})
	}
}

func DeleteDimensionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Delete(&models.Dimension{}, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ebat silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ListCushionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cushions []models.Cushion
		if err := database.DB.Order("name asc").Find(&cushions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Minderler listelenemedi")
		}
		res := make([]AttributeResponse, 0, len(cushions))
		for _, v := range cushions {
			res = append(res, AttributeResponse{ID: v.ID, Name: v.Name})
		}
		return c.JSON(res)
	}
}

func CreateCushionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := parseAttributeName(c)
		if err != nil {
			return err
		}
		v := models.Cushion{Name: name}
		if err := database.DB.Create(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Minder oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(AttributeResponse{ID: v.ID, Name: v.Name})
	}
}

func DeleteCushionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Delete(&models.Cushion{}, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Minder silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.ProductCategory
		if err := database.DB.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		res := make([]AttributeResponse, 0, len(cats))
		for _, v := range cats {
			res = append(res, AttributeResponse{ID: v.ID, Name: v.Name})
		}
		return c.JSON(res)
	}
}

func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := parseAttributeName(c)
		if err != nil {
			return err
		}
		v := models.ProductCategory{Name: name}
		if err := database.DB.Create(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(AttributeResponse{ID: v.ID, Name: v.Name})
	}
}

func parseAttributeName(c *fiber.Ctx) (string, error) {
	var body CreateAttributeRequest
	if err := c.BodyParser(&body); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
	}
	return name, nil
}
