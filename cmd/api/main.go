package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/catalog"
	"go-wigstore-api/internal/config"
	"go-wigstore-api/internal/handler"
	"go-wigstore-api/internal/middleware"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/service"
	"go-wigstore-api/internal/ws"
	"go-wigstore-api/pkg/database"
	"go-wigstore-api/pkg/jwt"
	"go-wigstore-api/pkg/logger"
	"go-wigstore-api/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// 1. Load Env
	cfg := config.Load()
	log := logger.Setup(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Resources opened
// here are released before it returns.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.L

	// 2. Setup Database
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("database connect: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("database migrate: %w", err)
	}

	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	// 3. Seed categories, privileges, roles and the admin user
	userService := service.NewUserService(userRepo, roleRepo)
	seeder := &service.Seeder{
		Categories: categoryRepo,
		Privileges: privilegeRepo,
		Roles:      roleRepo,
		Users:      userService,
	}
	if err := seeder.Run(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	categories, err := catalog.LoadCategoryIndex(ctx, categoryRepo)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	// 4. Facet cache: redis when configured, else in-process
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, "wigstore:")
		if err != nil {
			log.Warn("redis unavailable, using memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rs.Close()
			store = rs
		}
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 6. Dependency Injection (Wiring Layers)
	pricing := service.Pricing{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
	payments := service.PaymentDirectory{
		StoreAddress:       cfg.StoreAddress,
		MTNMerchantNumber:  cfg.MTNMerchantNumber,
		OrangeMerchantCode: cfg.OrangeMerchantCode,
	}

	catalogService := service.NewCatalogService(productRepo, categories, store, cfg.FacetCacheTTL, wsHub)
	orderService := service.NewOrderService(db, productRepo, orderRepo, movementRepo, pricing, payments, store, wsHub)
	inventoryService := service.NewInventoryService(db, productRepo, movementRepo, store, wsHub)
	dashboardService := service.NewDashboardService(productRepo, orderRepo, movementRepo, cfg.LowStockThreshold)
	authService := service.NewAuthService(userRepo, jwt.NewManager(cfg.JWTSecret, 24*time.Hour))

	handlers := &handler.Handlers{
		Products:  handler.NewProductHandler(catalogService),
		Orders:    handler.NewOrderHandler(orderService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Auth:      handler.NewAuthHandler(authService),
		Roles:     handler.NewRoleHandler(roleRepo, privilegeRepo),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "cache": store.Driver(), "ws_clients": wsHub.Count()})
	})
	app.Get("/metrics", metrics.Handler())

	// 8. Routes
	handlers.Register(app.Group("/api/v1"), authService)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Attach(c)
		defer wsHub.Detach(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
