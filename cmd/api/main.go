package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-facility-api/internal/handler"
	"go-facility-api/internal/middleware"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/service"
	"go-facility-api/internal/ws"
	"go-facility-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati in production, use a separate migration tool)
	db.AutoMigrate(
		&model.Site{}, &model.Zone{},
		&model.Supplier{}, &model.Material{},
		&model.Item{}, &model.Movement{}, &model.PricePoint{},
		&model.Maintenance{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, headquarters site, and admin user
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	siteRepo := repository.NewSiteRepo(db)
	zoneRepo := repository.NewZoneRepo(db)
	itemRepo := repository.NewItemRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	maintenanceRepo := repository.NewMaintenanceRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(itemRepo, movementRepo, priceRepo, materialRepo, db, wsHub)
	priceService := service.NewPriceService(itemRepo, priceRepo)
	valuationService := service.NewValuationService(itemRepo, movementRepo, priceService)
	itemService := service.NewItemService(itemRepo, movementRepo, db)
	siteService := service.NewSiteService(siteRepo, zoneRepo)
	supplierService := service.NewSupplierService(supplierRepo, movementRepo, priceRepo, materialRepo)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, zoneRepo, ledgerService)
	reportService := service.NewReportService(movementRepo)
	dashboardService := service.NewDashboardService(itemRepo, movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, roleRepo, siteRepo)

	ledgerHandler := handler.NewLedgerHandler(ledgerService, valuationService)
	priceHandler := handler.NewPriceHandler(priceService)
	itemHandler := handler.NewItemHandler(itemService, supplierService)
	siteHandler := handler.NewSiteHandler(siteService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Facility Inventory API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetStockMovement)

	// Sites & Zones
	protected.Get("/sites", middleware.RequirePrivilege("site:view"), siteHandler.GetSites)
	protected.Get("/sites/:id", middleware.RequirePrivilege("site:view"), siteHandler.GetSite)
	protected.Post("/sites", middleware.RequirePrivilege("site:create"), siteHandler.CreateSite)
	protected.Put("/sites/:id", middleware.RequirePrivilege("site:update"), siteHandler.UpdateSite)
	protected.Delete("/sites/:id", middleware.RequirePrivilege("site:delete"), siteHandler.DeleteSite)
	protected.Get("/zones", middleware.RequirePrivilege("site:view"), siteHandler.GetZones)
	protected.Post("/zones", middleware.RequirePrivilege("site:update"), siteHandler.CreateZone)
	protected.Delete("/zones/:id", middleware.RequirePrivilege("site:update"), siteHandler.DeleteZone)

	// Items
	protected.Get("/items", middleware.RequirePrivilege("item:view"), itemHandler.GetItems)
	protected.Get("/items/:id", middleware.RequirePrivilege("item:view"), itemHandler.GetItem)
	protected.Post("/items", middleware.RequirePrivilege("item:create"), itemHandler.CreateItem)
	protected.Put("/items/:id", middleware.RequirePrivilege("item:update"), itemHandler.UpdateItem)
	protected.Delete("/items/:id", middleware.RequirePrivilege("item:delete"), itemHandler.DeleteItem)

	// Item pricing & valuation
	protected.Get("/items/:id/price", middleware.RequirePrivilege("price:view"), priceHandler.GetCurrentPrice)
	protected.Get("/items/:id/price-at", middleware.RequirePrivilege("price:view"), priceHandler.GetPriceAt)
	protected.Get("/items/:id/price-variation", middleware.RequirePrivilege("price:view"), priceHandler.GetPriceVariation)
	protected.Get("/items/:id/price-history", middleware.RequirePrivilege("price:view"), priceHandler.GetPriceHistory)
	protected.Get("/items/:id/valuation", middleware.RequirePrivilege("price:view"), ledgerHandler.ValuateItem)
	protected.Post("/prices", middleware.RequirePrivilege("price:create"), priceHandler.RecordPricePoint)

	// Movements (the stock ledger)
	protected.Get("/movements", middleware.RequirePrivilege("movement:view"), ledgerHandler.GetMovements)
	protected.Get("/movements/:id", middleware.RequirePrivilege("movement:view"), ledgerHandler.GetMovement)
	protected.Post("/movements/entry", middleware.RequirePrivilege("movement:create"), ledgerHandler.RecordEntry)
	protected.Post("/movements/exit", middleware.RequirePrivilege("movement:create"), ledgerHandler.RecordExit)
	protected.Delete("/movements/:id", middleware.RequirePrivilege("movement:delete"), ledgerHandler.DeleteMovement)

	// Suppliers & Materials
	protected.Get("/suppliers", middleware.RequirePrivilege("supplier:view"), supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", middleware.RequirePrivilege("supplier:view"), supplierHandler.GetSupplier)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:create"), supplierHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("supplier:update"), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege("supplier:delete"), supplierHandler.DeleteSupplier)
	protected.Get("/materials", middleware.RequirePrivilege("item:view"), itemHandler.GetMaterials)
	protected.Post("/materials", middleware.RequirePrivilege("item:create"), itemHandler.CreateMaterial)

	// Maintenance
	protected.Get("/maintenances", middleware.RequirePrivilege("maintenance:view"), maintenanceHandler.GetMaintenances)
	protected.Get("/maintenances/:id", middleware.RequirePrivilege("maintenance:view"), maintenanceHandler.GetMaintenance)
	protected.Post("/maintenances", middleware.RequirePrivilege("maintenance:create"), maintenanceHandler.CreateMaintenance)
	protected.Patch("/maintenances/:id/status", middleware.RequirePrivilege("maintenance:update"), maintenanceHandler.UpdateStatus)
	protected.Post("/maintenances/:id/consume", middleware.RequirePrivilege("movement:create"), maintenanceHandler.ConsumeParts)

	// Reports
	protected.Get("/reports/movements", middleware.RequirePrivilege("report:view"), reportHandler.GetMovementReport)
	protected.Get("/reports/movements/export", middleware.RequirePrivilege("report:view"), reportHandler.ExportMovementReport)

	// User Management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)

	// Roles & Privileges
	protected.Get("/roles", userHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates default privileges, roles, the headquarters site,
// and the admin user if they don't exist.
func seedDefaults(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	siteRepo := repository.NewSiteRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user and site management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:update", "user:delete", "user:update_privilege",
				"site:create", "site:update", "site:delete":
				continue
			}
			adminPrivileges = append(adminPrivileges, p)
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("ADMIN role assigned limited privileges")
	}

	// SITE_MANAGER gets day-to-day operational privileges only
	managerRole, err := roleRepo.FindByCode(model.RoleSiteManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerCodes := map[string]bool{
			"item:view": true, "item:create": true, "item:update": true,
			"movement:view": true, "movement:create": true,
			"price:view": true, "price:create": true,
			"supplier:view":    true,
			"maintenance:view": true, "maintenance:create": true, "maintenance:update": true,
			"report:view": true, "dashboard:view": true,
			"site:view": true,
		}
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if managerCodes[p.Code] {
				managerPrivileges = append(managerPrivileges, p)
			}
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
		log.Println("SITE_MANAGER role assigned operational privileges")
	}

	// 4. Ensure the headquarters site exists
	hq, err := siteRepo.FindHeadquarters()
	if err != nil {
		hq = &model.Site{
			Code:           "HQ",
			Name:           "Headquarters",
			IsHeadquarters: true,
		}
		hq.CreatedBy = "system"
		if err := siteRepo.Create(hq); err != nil {
			log.Printf("Warning: Failed to create headquarters site: %v", err)
		} else {
			log.Println("Headquarters site created")
		}
	}

	// 5. Create default admin user with MASTER_ADMIN role, scoped to HQ
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		if hq != nil {
			admin.CurrentSiteID = &hq.ID
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
