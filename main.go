package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"logiclabs/config"
	"logiclabs/database"
	authRoutes "logiclabs/routers/authRoutes"
	categoryRoutes "logiclabs/routers/categoryRoutes"
	courseRoutes "logiclabs/routers/courseRoutes"
	paymentRoutes "logiclabs/routers/paymentRoutes"
	progressRoutes "logiclabs/routers/progressRoutes"
	reviewRoutes "logiclabs/routers/reviewRoutes"
	"logiclabs/services/checkout"
	"logiclabs/services/mail"
	"logiclabs/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	cfg := config.AppConfig
	db := database.Database.Db

	var mailer mail.Mailer
	if cfg.SendgridApiKey != "" {
		mailer = mail.NewSendGridMailer(cfg.SendgridApiKey, cfg.EmailSenderName, cfg.EmailSender)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set. Emails will only be logged.")
		mailer = mail.NewConsoleMailer()
	}
	notifications := mail.NewNotifications(mail.NewDispatcher(mailer, cfg.MailTimeout))

	var gateway checkout.Gateway
	switch cfg.PaymentGateway {
	case "sandbox":
		log.Warn().Msg("Using sandbox payment gateway. No real orders will be created.")
		gateway = checkout.NewSandboxGateway()
	default:
		gateway = checkout.NewRazorpayGateway(cfg.RazorpayApiURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret,
			cfg.RazorpayMerchantID, cfg.GatewayTimeout)
	}

	checkoutService := checkout.NewService(db, gateway, cfg.RazorpayKeySecret, notifications)

	reconciler, err := utils.InitializeEnrollmentReconciler(db, cfg.ReconcileCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start enrollment reconciler")
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: false,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, notifications)
	courseRoutes.SetupCourseRoutes(app)
	categoryRoutes.SetupCategoryRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app, checkoutService, notifications)
	reviewRoutes.SetupReviewRoutes(app)
	progressRoutes.SetupProgressRoutes(app)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server is running")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	<-reconciler.Stop().Done()
	notifications.Wait()
	log.Info().Msg("Shutdown complete")
}
