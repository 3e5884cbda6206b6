package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/catalog"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/service"
	"go-wigstore-api/internal/testutil"
	"go-wigstore-api/internal/ws"
	"go-wigstore-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app   *fiber.App
	users service.UserService
	token string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	users := service.NewUserService(userRepo, roleRepo)
	seeder := &service.Seeder{Categories: categoryRepo, Privileges: privilegeRepo, Roles: roleRepo, Users: users}
	require.NoError(t, seeder.Run(ctx, "admin@example.com", "admin123"))

	idx, err := catalog.LoadCategoryIndex(ctx, categoryRepo)
	require.NoError(t, err)
	store := cache.NewMemoryStore()
	authService := service.NewAuthService(userRepo, jwt.NewManager("handler-test", time.Hour))

	h := &Handlers{
		Products: NewProductHandler(service.NewCatalogService(productRepo, idx, store, time.Minute, ws.Discard)),
		Orders: NewOrderHandler(service.NewOrderService(db, productRepo, orderRepo, movementRepo,
			service.DefaultPricing(), service.PaymentDirectory{StoreAddress: "12 Market Street"}, store, ws.Discard)),
		Inventory: NewInventoryHandler(service.NewInventoryService(db, productRepo, movementRepo, store, ws.Discard)),
		Dashboard: NewDashboardHandler(service.NewDashboardService(productRepo, orderRepo, movementRepo, 5)),
		Auth:      NewAuthHandler(authService),
		Roles:     NewRoleHandler(roleRepo, privilegeRepo),
	}

	app := fiber.New()
	h.Register(app.Group("/api/v1"), authService)

	ta := &testApp{app: app, users: users}
	ta.token = ta.login(t, "admin@example.com", "admin123")
	return ta
}

func (ta *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	resp := ta.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": password}, &out)
	require.Equal(t, fiber.StatusOK, resp)
	return out.Token
}

// do sends body as JSON and decodes the response into out when non-nil.
func (ta *testApp) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func productBody(name, sku string, stock int) fiber.Map {
	return fiber.Map{
		"name":        name,
		"description": "Glueless lace front",
		"price":       "100",
		"sku":         sku,
		"category_id": model.CategoryLaceFront,
		"hair_type":   "HUMAN_HAIR",
		"quality":     "PREMIUM",
		"stock":       stock,
		"color":       "Natural Black",
		"inches":      []string{"18", "22"},
	}
}

func TestProductMutationsRequireAuthOnBothPrefixes(t *testing.T) {
	ta := newTestApp(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/admin/products"} {
		status := ta.do(t, "POST", path, "", productBody("Body Wave", "BW-"+path[len(path)-3:], 3), nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
	assert.Equal(t, fiber.StatusUnauthorized, ta.do(t, "DELETE", "/api/v1/products?id=00000000-0000-0000-0000-000000000001", "", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, ta.do(t, "GET", "/api/v1/admin/orders", "bogus", nil, nil))
}

func TestStaffLacksCatalogPrivileges(t *testing.T) {
	ta := newTestApp(t)
	_, _, err := ta.users.EnsureUser(context.Background(), "staff@example.com", "staff-pass", "Staff", model.RoleStaff)
	require.NoError(t, err)
	staff := ta.login(t, "staff@example.com", "staff-pass")

	assert.Equal(t, fiber.StatusForbidden, ta.do(t, "POST", "/api/v1/admin/products", staff, productBody("Bob", "BOB-1", 1), nil))
	assert.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/orders", staff, nil, nil))
}

func TestProductLifecycle(t *testing.T) {
	ta := newTestApp(t)

	var created model.ProductResponse
	status := ta.do(t, "POST", "/api/v1/products", ta.token, productBody("Body Wave 22", "BW-22", 4), &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "body-wave-22", created.Slug)
	require.NotNil(t, created.Category)
	assert.Equal(t, model.CategoryLaceFront, created.Category.ID)

	assert.Equal(t, fiber.StatusConflict, ta.do(t, "POST", "/api/v1/products", ta.token, productBody("Other", "BW-22", 1), nil))

	var got model.ProductResponse
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/products/body-wave-22", "", nil, &got))
	assert.Equal(t, created.ID, got.ID)

	var updated model.ProductResponse
	status = ta.do(t, "PUT", "/api/v1/products?id="+created.ID.String(), ta.token, fiber.Map{"featured": true}, &updated)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, updated.Featured)

	var list struct {
		Products   []model.ProductResponse `json:"products"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/products?featured=true&color=natural", "", nil, &list))
	assert.Equal(t, 1, list.Pagination.Total)

	var deleted map[string]any
	require.Equal(t, fiber.StatusOK, ta.do(t, "DELETE", "/api/v1/admin/products/"+created.ID.String(), ta.token, nil, &deleted))
	assert.Equal(t, true, deleted["success"])

	assert.Equal(t, fiber.StatusNotFound, ta.do(t, "GET", "/api/v1/products/"+created.ID.String(), "", nil, nil))
	assert.Equal(t, fiber.StatusNotFound, ta.do(t, "DELETE", "/api/v1/products/"+created.ID.String(), ta.token, nil, nil))
	assert.Equal(t, fiber.StatusBadRequest, ta.do(t, "PUT", "/api/v1/products", ta.token, fiber.Map{}, nil))
}

func TestCreateProductValidation(t *testing.T) {
	ta := newTestApp(t)

	body := productBody("No SKU", "", 1)
	delete(body, "sku")
	assert.Equal(t, fiber.StatusBadRequest, ta.do(t, "POST", "/api/v1/products", ta.token, body, nil))

	body = productBody("Bad Category", "BC-1", 1)
	body["category_id"] = "does-not-exist"
	assert.Equal(t, fiber.StatusBadRequest, ta.do(t, "POST", "/api/v1/products", ta.token, body, nil))
}

func TestListingRejectsUnknownParameter(t *testing.T) {
	ta := newTestApp(t)

	var out map[string]string
	status := ta.do(t, "GET", "/api/v1/products?colour=red", "", nil, &out)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out["error"], "colour")
}

func TestPublicListingHidesInactive(t *testing.T) {
	ta := newTestApp(t)

	body := productBody("Hidden", "HID-1", 1)
	body["is_active"] = false
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/products", ta.token, body, nil))
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/products", ta.token, productBody("Shown", "SHW-1", 1), nil))

	var public, admin struct {
		Products []model.ProductResponse `json:"products"`
	}
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/products?is_active=false", "", nil, &public))
	require.Len(t, public.Products, 1)
	assert.Equal(t, "Shown", public.Products[0].Name)

	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/products", ta.token, nil, &admin))
	assert.Len(t, admin.Products, 2)
}

func TestCheckoutCancelAndDashboard(t *testing.T) {
	ta := newTestApp(t)

	var product model.ProductResponse
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/products", ta.token, productBody("Deep Wave", "DW-1", 3), &product))

	checkout := fiber.Map{
		"items":           []fiber.Map{{"productId": product.ID, "quantity": 2, "price": "1"}},
		"customerInfo":    fiber.Map{"name": "Grace", "email": "grace@example.com", "phone": "670000001"},
		"paymentMethod":   "MTN_MOBILE_MONEY",
		"shippingAddress": fiber.Map{"line1": "1 Main Road", "city": "Douala"},
	}
	var result struct {
		OrderID     string `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
		Total       string `json:"total"`
	}
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/checkout", "", checkout, &result))
	assert.Equal(t, "216", result.Total)

	checkout["items"] = []fiber.Map{{"productId": product.ID, "quantity": 5}}
	assert.Equal(t, fiber.StatusConflict, ta.do(t, "POST", "/api/v1/checkout", "", checkout, nil))

	checkout["items"] = []fiber.Map{}
	assert.Equal(t, fiber.StatusBadRequest, ta.do(t, "POST", "/api/v1/checkout", "", checkout, nil))

	var confirmation map[string]any
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/orders/"+result.OrderID+"/confirmation", "", nil, &confirmation))
	assert.NotEmpty(t, confirmation["instructions"])
	assert.NotContains(t, confirmation, "email")
	assert.Equal(t, fiber.StatusNotFound, ta.do(t, "GET", "/api/v1/orders/"+result.OrderNumber+"/confirmation", "", nil, nil))

	require.Equal(t, fiber.StatusOK, ta.do(t, "PUT", "/api/v1/admin/orders/"+result.OrderID+"/status", ta.token, fiber.Map{"status": "PROCESSING"}, nil))
	require.Equal(t, fiber.StatusOK, ta.do(t, "POST", "/api/v1/admin/orders/"+result.OrderID+"/cancel", ta.token, nil, nil))
	assert.Equal(t, fiber.StatusConflict, ta.do(t, "POST", "/api/v1/admin/orders/"+result.OrderID+"/cancel", ta.token, nil, nil))

	var order model.Order
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/orders/"+result.OrderNumber, ta.token, nil, &order))
	assert.Equal(t, model.OrderCancelled, order.Status)

	var stats map[string]any
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/dashboard/stats", ta.token, nil, &stats))
	assert.EqualValues(t, 1, stats["total_orders"])
	assert.EqualValues(t, 1, stats["total_products"])
}

func TestInventoryAdjustmentEndpoint(t *testing.T) {
	ta := newTestApp(t)

	var product model.ProductResponse
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/products", ta.token, productBody("Frontal", "FR-1", 1), &product))

	adjust := fiber.Map{"product_id": product.ID, "type": "OUT", "quantity": 2}
	assert.Equal(t, fiber.StatusConflict, ta.do(t, "POST", "/api/v1/admin/inventory/adjustments", ta.token, adjust, nil))

	adjust["type"] = "IN"
	var out struct {
		Data service.AdjustmentResult `json:"data"`
	}
	require.Equal(t, fiber.StatusCreated, ta.do(t, "POST", "/api/v1/admin/inventory/adjustments", ta.token, adjust, &out))
	assert.Equal(t, 3, out.Data.NewStock)

	var movements []model.StockMovement
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/inventory/movements?product_id="+product.ID.String(), ta.token, nil, &movements))
	assert.Len(t, movements, 1)

	assert.Equal(t, fiber.StatusBadRequest, ta.do(t, "GET", "/api/v1/admin/inventory/movements?product_id=nope", ta.token, nil, nil))
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t)

	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/auth/me", ta.token, nil, nil))
	require.Equal(t, fiber.StatusOK, ta.do(t, "POST", "/api/v1/auth/logout", ta.token, nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, ta.do(t, "GET", "/api/v1/auth/me", ta.token, nil, nil))

	assert.Equal(t, fiber.StatusUnauthorized, ta.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "admin@example.com", "password": "nope"}, nil))
}

func TestReferenceListings(t *testing.T) {
	ta := newTestApp(t)

	var categories []model.Category
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/categories", "", nil, &categories))
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	assert.Contains(t, ids, model.CategoryLaceFront)

	var roles []model.Role
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/roles", ta.token, nil, &roles))
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	assert.ElementsMatch(t, []string{model.RoleStoreAdmin, model.RoleStaff}, codes)

	var privileges []model.Privilege
	require.Equal(t, fiber.StatusOK, ta.do(t, "GET", "/api/v1/admin/privileges", ta.token, nil, &privileges))
	assert.NotEmpty(t, privileges)

	assert.Equal(t, fiber.StatusUnauthorized, ta.do(t, "GET", "/api/v1/admin/roles", "", nil, nil))
}
