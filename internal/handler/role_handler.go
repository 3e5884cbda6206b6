package handler

import (
	"go-wigstore-api/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
}

func NewRoleHandler(roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo, privilegeRepo: privilegeRepo}
}

// GetRoles returns all available roles
// GET /api/v1/admin/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(roles)
}

// GetPrivileges lists every privilege code.
// GET /api/v1/admin/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privilegeRepo.FindAll(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(privileges)
}
