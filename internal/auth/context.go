package auth

import (
	"fmt"

	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentRole: middleware'in locals'a koyduğu rolü döner.
func CurrentRole(c *fiber.Ctx) (models.UserRole, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return "", fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	return role, nil
}

// CurrentUser: kullanıcı ID'si ve adı (denetim kayıtları için).
func CurrentUser(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}
	return userID, user.Name, nil
}

func storeIDFromLocals(c *fiber.Ctx) *uint {
	sVal := c.Locals(CtxStoreIDKey)
	if sPtr, ok := sVal.(*uint); ok && sPtr != nil {
		return sPtr
	}
	return nil
}

// ResolveStoreIDFromBody: şubeye bağlı roller kendi şubesini kullanır;
// super_admin body'de store_id göndermek zorundadır.
func ResolveStoreIDFromBody(c *fiber.Ctx, bodyStoreID *uint) (uint, error) {
	role, err := CurrentRole(c)
	if err != nil {
		return 0, err
	}

	if role != models.RoleSuperAdmin {
		sPtr := storeIDFromLocals(c)
		if sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Şube bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	if bodyStoreID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	return *bodyStoreID, nil
}

// ResolveStoreIDFromQuery: listeleme uçları için query'den şube çözer.
func ResolveStoreIDFromQuery(c *fiber.Ctx) (uint, error) {
	role, err := CurrentRole(c)
	if err != nil {
		return 0, err
	}

	if role != models.RoleSuperAdmin {
		sPtr := storeIDFromLocals(c)
		if sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Şube bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	sidStr := c.Query("store_id")
	if sidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id geçersiz")
	}
	return sid, nil
}
