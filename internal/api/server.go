package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/procline/error_service/config"
	"github.com/procline/error_service/infra/queue"
	"github.com/procline/error_service/internal/api/rest/handlers"
	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/helper"
	"github.com/procline/error_service/internal/interfaces"
	"github.com/procline/error_service/internal/repository"
	"github.com/procline/error_service/internal/services"
	"github.com/procline/error_service/pkg/cloudinary"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20250714

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	authHelper := helper.SetupAuth(cfg.AccessSecret)
	clock := interfaces.RealClock{}

	if err := seedAdmin(db, authHelper, clock, cfg.AdminPassword); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	if err := db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error; err != nil {
		log.Printf("migration unlock error: %v", err)
	}

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	policy := services.NewAccessPolicy()

	// ---------- Repositories ----------
	errorRepo := repository.NewErrorRepository(db)
	userRepo := repository.NewUserRepository(db)
	processRepo := repository.NewProcessRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// ---------- Services ----------
	errorSvc := services.NewErrorService(
		db,
		errorRepo,
		userRepo,
		auditRepo,
		notifRepo,
		up,
		kafkaProducer,
		clock,
		policy,
		cfg.UploadFolder,
	)
	userSvc := services.NewUserService(userRepo, authHelper, clock, policy)
	processSvc := services.NewProcessService(processRepo, clock, policy)
	auditSvc := services.NewAuditService(auditRepo, policy)
	notifSvc := services.NewNotificationService(notifRepo, clock)
	dashboardSvc := services.NewDashboardService(errorRepo, policy)

	// ---------- Handlers ----------
	userHandler := handlers.NewUserHandler(userSvc)
	errorHandler := handlers.NewErrorHandler(errorSvc)
	processHandler := handlers.NewProcessHandler(processSvc)
	auditHandler := handlers.NewAuditHandler(auditSvc)
	notifHandler := handlers.NewNotificationHandler(notifSvc)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc)

	api := app.Group("/api")
	userHandler.SetupAuthRoutes(api)

	api.Use(middleware.AuthMiddleware(authHelper))
	userHandler.SetupRoutes(api)
	errorHandler.SetupRoutes(api)
	processHandler.SetupRoutes(api)
	notifHandler.SetupRoutes(api)
	dashboardHandler.SetupRoutes(api)

	// route-level gate on top of the service-side policy checks
	api.Use("/audit-logs", middleware.RequireOperation(policy, services.OpReadAuditLogs))
	auditHandler.SetupRoutes(api)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedAdmin creates the bootstrap administrator account when the user
// table has no admin yet. Runs under the same advisory lock as Migrate.
func seedAdmin(db *gorm.DB, auth helper.Auth, clock interfaces.Clock, password string) error {
	var count int64
	err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		password = "admin123"
		log.Println("ADMIN_PASSWORD not set - seeding admin with the default password, change it")
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := clock.Now()
	admin := &domain.User{
		Username:     "admin",
		Email:        "admin@localhost",
		PasswordHash: hashed,
		Role:         domain.RoleAdmin,
		FullName:     "System Administrator",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Println("seeded admin user")
	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.ProductionProcess{},
		&domain.ProcessStep{},
		&domain.ProcessError{},
		&domain.ErrorComment{},
		&domain.ErrorAttachment{},
		&domain.ErrorCodeCounter{},
		&domain.AuditLog{},
		&domain.Notification{},
	)
}
