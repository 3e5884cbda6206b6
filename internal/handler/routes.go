package handler

import (
	"go-wigstore-api/internal/middleware"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Products  *ProductHandler
	Orders    *OrderHandler
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	Auth      *AuthHandler
	Roles     *RoleHandler
}

// Register mounts the storefront and admin routes on api (/api/v1).
// Every mutating product route and every /admin route goes through
// RequireAuth plus a privilege check, whichever prefix it is reached by.
func (h *Handlers) Register(api fiber.Router, authService service.AuthService) {
	requireAuth := middleware.RequireAuth(authService)
	can := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	api.Get("/categories", h.Products.GetCategories)
	api.Get("/products", h.Products.GetProducts)
	api.Get("/products/filters", h.Products.GetFacets)
	api.Get("/products/:idOrSlug", h.Products.GetProduct)
	api.Post("/checkout", h.Orders.Checkout)
	api.Get("/orders/:id/confirmation", h.Orders.GetConfirmation)

	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// Product mutations on the storefront prefix
	api.Post("/products", requireAuth, can(model.PrivProductCreate), h.Products.CreateProduct)
	api.Put("/products/:id?", requireAuth, can(model.PrivProductUpdate), h.Products.UpdateProduct)
	api.Delete("/products/:id?", requireAuth, can(model.PrivProductDelete), h.Products.DeleteProduct)

	// ============ ADMIN ROUTES ============
	admin := api.Group("/admin", requireAuth)

	admin.Get("/products", middleware.RequireAnyPrivilege(model.PrivProductCreate, model.PrivProductUpdate, model.PrivProductDelete), h.Products.GetAdminProducts)
	admin.Post("/products", can(model.PrivProductCreate), h.Products.CreateProduct)
	admin.Put("/products/:id?", can(model.PrivProductUpdate), h.Products.UpdateProduct)
	admin.Delete("/products/:id?", can(model.PrivProductDelete), h.Products.DeleteProduct)

	admin.Get("/orders", can(model.PrivOrderView), h.Orders.GetOrders)
	admin.Get("/orders/:id", can(model.PrivOrderView), h.Orders.GetOrder)
	admin.Post("/orders/:id/cancel", can(model.PrivOrderManage), h.Orders.CancelOrder)
	admin.Put("/orders/:id/status", can(model.PrivOrderManage), h.Orders.UpdateStatus)

	admin.Post("/inventory/adjustments", can(model.PrivInventoryAdjust), h.Inventory.CreateAdjustment)
	admin.Get("/inventory/movements", middleware.RequireAnyPrivilege(model.PrivInventoryAdjust, model.PrivDashboardView), h.Inventory.GetMovements)

	admin.Get("/dashboard/stats", can(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	admin.Get("/dashboard/stock-movement", can(model.PrivDashboardView), h.Dashboard.GetStockMovement)

	admin.Get("/roles", h.Roles.GetRoles)
	admin.Get("/privileges", h.Roles.GetPrivileges)
}
