package router

import (
	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/controller"
	"github.com/swarnika/swarnika-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	productController      *controller.ProductController
	categoryController     *controller.CategoryController
	bannerController       *controller.BannerController
	blogController         *controller.BlogController
	discountController     *controller.DiscountController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	paymentController      *controller.PaymentController
	metalRateController    *controller.MetalRateController
	goldmineController     *controller.GoldmineController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	bannerController *controller.BannerController,
	blogController *controller.BlogController,
	discountController *controller.DiscountController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	metalRateController *controller.MetalRateController,
	goldmineController *controller.GoldmineController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		productController:      productController,
		categoryController:     categoryController,
		bannerController:       bannerController,
		blogController:         blogController,
		discountController:     discountController,
		cartController:         cartController,
		orderController:        orderController,
		paymentController:      paymentController,
		metalRateController:    metalRateController,
		goldmineController:     goldmineController,
		notificationController: notificationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SWARNIKA API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products", r.authMiddleware.OptionalAuthenticate())
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:idOrSlug", r.productController.GetProduct)
		}

		categories := v1.Group("/categories", r.authMiddleware.OptionalAuthenticate())
		{
			categories.GET("", r.categoryController.GetCategories)
			categories.GET("/:slug", r.categoryController.GetCategory)
		}

		v1.GET("/banners", r.bannerController.GetLiveBanners)

		blogs := v1.Group("/blogs", r.authMiddleware.OptionalAuthenticate())
		{
			blogs.GET("", r.blogController.GetBlogs)
			blogs.GET("/:slug", r.blogController.GetBlog)
		}

		v1.POST("/discounts/quote", r.discountController.QuoteDiscount)

		metalRates := v1.Group("/metal-rates")
		{
			metalRates.GET("", r.metalRateController.GetRates)
			metalRates.GET("/:metal/history", r.metalRateController.GetHistory)
		}

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		v1.GET("/pincode/:code", r.orderController.LookupPincode)

		orders := v1.Group("/orders")
		{
			// Guests may place orders; signed-in customers get the order
			// attached to their account.
			orders.POST("", r.authMiddleware.OptionalAuthenticate(), r.orderController.CreateOrder)

			orders.GET("/mine", r.authMiddleware.Authenticate(), r.orderController.GetMyOrders)
			orders.GET("/:id", r.authMiddleware.Authenticate(), r.orderController.GetOrderByID)
			orders.GET("/:id/invoice", r.authMiddleware.Authenticate(), r.orderController.GetInvoice)
		}

		payments := v1.Group("/payments", r.authMiddleware.OptionalAuthenticate())
		{
			payments.POST("/order", r.paymentController.CreateGatewayOrder)
			payments.POST("/verify", r.paymentController.VerifyPayment)
		}

		goldmine := v1.Group("/goldmine")
		{
			goldmine.GET("/plans", r.authMiddleware.OptionalAuthenticate(), r.goldmineController.GetPlans)

			subs := goldmine.Group("/subscriptions", r.authMiddleware.Authenticate())
			{
				subs.POST("", r.goldmineController.Subscribe)
				subs.GET("", r.goldmineController.GetMySubscriptions)
				subs.DELETE("/:id", r.goldmineController.CancelSubscription)
				subs.POST("/:id/installments", r.goldmineController.RecordInstallment)
			}
		}

		notifications := v1.Group("/notifications", r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/stream", r.notificationController.Stream)
			notifications.PUT("/read-all", r.notificationController.MarkAllRead)
			notifications.PUT("/:id/read", r.notificationController.MarkRead)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", r.orderController.ListOrders)
				adminOrders.GET("/export", r.orderController.ExportOrders)
				adminOrders.PUT("/:id", r.orderController.UpdateOrder)
				// Manual override for out-of-band settlements; customer
				// payments go through the signature-verified
				// POST /payments/verify.
				adminOrders.PUT("/:id/payment", r.orderController.ConfirmPayment)
				adminOrders.DELETE("/:id", r.orderController.DeleteOrder)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", r.productController.CreateProduct)
				adminProducts.PUT("/:id", r.productController.UpdateProduct)
				adminProducts.DELETE("/:id", r.productController.DeleteProduct)
				adminProducts.POST("/:id/options", r.productController.AddOption)
				adminProducts.PUT("/:id/options/:optionId", r.productController.UpdateOption)
				adminProducts.DELETE("/:id/options/:optionId", r.productController.DeleteOption)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", r.categoryController.CreateCategory)
				adminCategories.PUT("/:id", r.categoryController.UpdateCategory)
				adminCategories.DELETE("/:id", r.categoryController.DeleteCategory)
			}

			adminBanners := admin.Group("/banners")
			{
				adminBanners.GET("", r.bannerController.ListBanners)
				adminBanners.POST("", r.bannerController.CreateBanner)
				adminBanners.PUT("/:id", r.bannerController.UpdateBanner)
				adminBanners.DELETE("/:id", r.bannerController.DeleteBanner)
			}

			adminBlogs := admin.Group("/blogs")
			{
				adminBlogs.POST("", r.blogController.CreateBlog)
				adminBlogs.PUT("/:id", r.blogController.UpdateBlog)
				adminBlogs.DELETE("/:id", r.blogController.DeleteBlog)
			}

			adminDiscounts := admin.Group("/discounts")
			{
				adminDiscounts.GET("", r.discountController.ListDiscounts)
				adminDiscounts.POST("", r.discountController.CreateDiscount)
				adminDiscounts.PUT("/:id", r.discountController.UpdateDiscount)
				adminDiscounts.DELETE("/:id", r.discountController.DeleteDiscount)
			}

			adminRates := admin.Group("/metal-rates")
			{
				adminRates.POST("", r.metalRateController.RecordRate)
				adminRates.POST("/refresh", r.metalRateController.RefreshRates)
			}

			adminGoldmine := admin.Group("/goldmine")
			{
				adminGoldmine.GET("/subscriptions", r.goldmineController.ListSubscriptions)
				adminGoldmine.POST("/plans", r.goldmineController.CreatePlan)
				adminGoldmine.PUT("/plans/:id", r.goldmineController.UpdatePlan)
				adminGoldmine.DELETE("/plans/:id", r.goldmineController.DeletePlan)
			}

			adminTracking := admin.Group("/tracking-configs")
			{
				adminTracking.GET("", r.notificationController.GetTrackingConfigs)
				adminTracking.PUT("", r.notificationController.SaveTrackingConfig)
				adminTracking.DELETE("/:id", r.notificationController.DeleteTrackingConfig)
			}

			admin.POST("/uploads/presign", r.uploadController.PresignUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
