package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/controller"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	"github.com/swarnika/swarnika-backend/internal/db"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/internal/router"
	"github.com/swarnika/swarnika-backend/internal/scheduler"
	"github.com/swarnika/swarnika-backend/internal/storage"
	"github.com/swarnika/swarnika-backend/internal/websocket"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/mailer"
	"github.com/swarnika/swarnika-backend/pkg/payment/razorpay"
	"github.com/swarnika/swarnika-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:  logLevel,
		Format: logFormat,
	})

	logger.Info("Starting SWARNIKA Backend Server", logger.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(db.Get()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis powers token blacklisting and cart activity tracking; the
	// server degrades gracefully without it.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without it", logger.Fields{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.Get())
	productRepo := repository.NewProductRepository(db.Get())
	optionRepo := repository.NewProductOptionRepository(db.Get())
	categoryRepo := repository.NewCategoryRepository(db.Get())
	bannerRepo := repository.NewBannerRepository(db.Get())
	blogRepo := repository.NewBlogRepository(db.Get())
	discountRepo := repository.NewDiscountRepository(db.Get())
	cartRepo := repository.NewCartRepository(db.Get())
	orderRepo := repository.NewOrderRepository(db.Get())
	metalRateRepo := repository.NewMetalRateRepository(db.Get())
	goldmineRepo := repository.NewGoldmineRepository(db.Get())
	notificationRepo := repository.NewNotificationRepository(db.Get())
	trackingRepo := repository.NewTrackingConfigRepository(db.Get())

	// Shared infrastructure
	mail := mailer.New(cfg.SMTP, cfg.Store)

	hub := websocket.NewHub()
	go hub.Run()

	var razorpayClient *razorpay.Client
	if client, err := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.Payment.Razorpay.KeyID,
		KeySecret: cfg.Payment.Razorpay.KeySecret,
		BaseURL:   cfg.Payment.Razorpay.BaseURL,
	}); err != nil {
		logger.Warn("Razorpay not configured, online payments disabled", logger.Fields{
			"error": err.Error(),
		})
	} else {
		razorpayClient = client
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	productService := service.NewProductService(productRepo, optionRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	bannerService := service.NewBannerService(bannerRepo)
	blogService := service.NewBlogService(blogRepo)
	discountService := service.NewDiscountService(discountRepo)
	cartService := service.NewCartService(cartRepo, productRepo, mail, cfg.Checkout)
	metalRateService := service.NewMetalRateService(
		metalRateRepo,
		service.NewGoldAPIClient(cfg.RateAPI.BaseURL, cfg.RateAPI.APIKey),
	)
	goldmineService := service.NewGoldmineService(db.Get(), goldmineRepo, notificationRepo, hub)
	notificationService := service.NewNotificationService(notificationRepo, trackingRepo)

	validator := service.NewCheckoutValidator(productRepo, orderRepo, discountRepo, cfg.Checkout)
	orderService := service.NewOrderService(
		db.Get(),
		validator,
		orderRepo,
		cartRepo,
		discountRepo,
		notificationRepo,
		trackingRepo,
		mail,
		hub,
	)
	paymentService := service.NewPaymentService(razorpayClient, orderService)
	invoiceService := service.NewInvoiceService(orderService, cfg.Store)
	reportService := service.NewReportService(orderRepo)

	// Controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	bannerController := controller.NewBannerController(bannerService)
	blogController := controller.NewBlogController(blogService)
	discountController := controller.NewDiscountController(discountService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, invoiceService, reportService)
	paymentController := controller.NewPaymentController(paymentService)
	metalRateController := controller.NewMetalRateController(metalRateService)
	goldmineController := controller.NewGoldmineController(goldmineService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	uploadController := controller.NewUploadController(storage.NewS3Storage(cfg.S3))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		productController,
		categoryController,
		bannerController,
		blogController,
		discountController,
		cartController,
		orderController,
		paymentController,
		metalRateController,
		goldmineController,
		notificationController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	jobs := scheduler.New(metalRateService, cartService, goldmineService)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer jobs.Stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", logger.Fields{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
