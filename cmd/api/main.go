package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/config"
	"github.com/transify-app/transify-api/internal/database"
	"github.com/transify-app/transify-api/internal/handler"
	"github.com/transify-app/transify-api/internal/middleware"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/repository"
	"github.com/transify-app/transify-api/internal/router"
	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/token"
	"github.com/transify-app/transify-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Organization{}, &models.AdminUser{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	mail, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	validate := validator.New(validator.WithRequiredStructEnabled())

	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	otpRepo := repository.NewOtpRepository(redisClient)

	auditService := service.NewAuditService(auditRepo, natsConn, logger)
	orgService := service.NewOrganizationService(orgRepo, logger)
	directoryService := service.NewAdminDirectoryService(adminRepo, orgRepo, validate, auditService, mail, cfg.AppBaseURL, cfg.InviteTTL, logger)
	authService := service.NewAuthService(adminRepo, otpRepo, orgRepo, validate, auditService, mail, issuer, cfg.OtpTTL, logger)
	seedService := service.NewSeedService(orgRepo, adminRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		OrganizationHandler: handler.NewOrganizationHandler(orgService, logger),
		AdminHandler:        handler.NewAdminHandler(directoryService, logger),
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		AuditHandler:        handler.NewAuditHandler(auditService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		SessionHandler:      handler.NewSessionHandler(directoryService, orgService, logger),
		JWTMiddleware:       middleware.JWTProtected(issuer),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
