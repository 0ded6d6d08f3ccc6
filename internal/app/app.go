package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"freework_backend/internal/auth"
	"freework_backend/internal/config"
	"freework_backend/internal/email"
	"freework_backend/internal/handlers"
	"freework_backend/internal/logger"
	"freework_backend/internal/middleware"
	"freework_backend/internal/models"
	"freework_backend/internal/repositories"
	"freework_backend/internal/routes"
	"freework_backend/internal/services"
	"freework_backend/internal/validator"
	"freework_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	// .env перекрывается реальными переменными окружения
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(&models.Account{}); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без админа не стартуем: иначе гейт ручной проверки недостижим
		logger.Fatal("Failed to seed first admin account", "error", err)
	}

	workers.NewCleanupWorker(gormDB).Start(context.Background())

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer, cfg)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	emailProvider := newEmailProvider(cfg)

	accountRepo := repositories.NewAccountRepository()

	registrationService := services.NewRegistrationService(accountRepo, emailProvider, cfg)
	accountService := services.NewAccountService(accountRepo)

	return &services.ServiceContainer{
		RegistrationService: registrationService,
		AccountService:      accountService,
		EmailService:        emailProvider,
	}
}

// newEmailProvider выбирает SMTP или mock в зависимости от конфига.
// Без настроенного SMTP коды подтверждения уходят только в лог.
func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
		logger.Warn("SMTP is not configured, using mock email provider")
		return &MockEmailProvider{}
	}

	renderer := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if _, err := os.Stat(cfg.Email.TemplatesDir); err == nil {
			if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
				logger.Warn("Failed to load email templates, using built-ins", "error", err)
			}
		}
	}

	return email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)
}

func initializeHandlers(container *services.ServiceContainer, cfg *config.Config) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:  handlers.NewAuthHandler(baseHandler, container.RegistrationService, container.AccountService, cfg.JWT.Secret),
		AdminHandler: handlers.NewAdminHandler(baseHandler, container.AccountService, cfg.JWT.Secret),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	// Неизвестные поля в JSON-телах отклоняются: профиль пополняется
	// только полями из явного allow-list в DTO
	gin.EnableJsonDecoderDisallowUnknownFields()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin создает первого админа, если его еще нет.
// Админский аккаунт сразу подтвержден: через публичный signup он не проходит.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminAccount models.Account
	result := tx.Where("email = ?", adminEmail).First(&adminAccount)

	if result.Error == nil {
		logger.Info("Admin account already exists. Skipping creation.", "email", adminEmail)
		tx.Rollback()
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin account: %w", result.Error)
	}

	logger.Warn("No admin account found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.Account{
		Email:            adminEmail,
		PasswordHash:     hashedPassword,
		Role:             models.RoleAdmin,
		EmailVerified:    true,
		ProfileCompleted: true,
		AdminVerified:    true,
		Name:             "Platform Administration",
	}

	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin account in database: %w", err)
	}

	logger.Info("Successfully created first admin account", "email", adminEmail)

	return tx.Commit().Error
}
