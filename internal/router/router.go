package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	productController    *controller.ProductController
	cartController       *controller.CartController
	checkoutController   *controller.CheckoutController
	orderController      *controller.OrderController
	subscriberController *controller.SubscriberController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	subscriberController *controller.SubscriberController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		productController:    productController,
		cartController:       cartController,
		checkoutController:   checkoutController,
		orderController:      orderController,
		subscriberController: subscriberController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	auth := r.authMiddleware.Authenticate()

	users := api.Group("/users")
	{
		users.POST("/register", r.authController.Register)
		users.POST("/login", r.authController.Login)
		users.POST("/refresh-token", r.authController.RefreshToken)
		users.POST("/logout", r.authController.Logout)
		users.GET("/profile", auth, r.authController.GetProfile)
	}

	products := api.Group("/products")
	{
		products.GET("", r.productController.ListProducts)
		products.GET("/best-selling", r.productController.BestSelling)
		products.GET("/new-arrivals", r.productController.NewArrivals)
		products.GET("/similar/:id", r.productController.Similar)
		products.GET("/:id", r.productController.GetProduct)
	}

	api.POST("/subscribers/subscribe", r.subscriberController.Subscribe)

	cart := api.Group("/cart")
	cart.Use(r.authMiddleware.OptionalAuthenticate())
	{
		cart.GET("", r.cartController.GetCart)
		cart.POST("", r.cartController.AddItem)
		cart.PUT("", r.cartController.UpdateItem)
		cart.DELETE("", r.cartController.RemoveItem)
		cart.POST("/merge", auth, r.cartController.Merge)
	}

	checkout := api.Group("/checkout")
	checkout.Use(auth)
	{
		checkout.POST("", r.checkoutController.CreateCheckout)
		checkout.GET("/user/checkouts", r.checkoutController.ListMine)
		checkout.GET("/user/summary", r.checkoutController.Summary)
		checkout.GET("/:id", r.checkoutController.GetCheckout)
		checkout.PUT("/:id/pay", r.checkoutController.Pay)
		checkout.PUT("/:id/mark-paid", r.checkoutController.MarkPaid)
		checkout.PUT("/:id/mark-paid-simple", r.checkoutController.MarkPaidSimple)
		checkout.POST("/:id/convert-to-order", r.checkoutController.ConvertToOrder)
	}

	orders := api.Group("/orders")
	orders.Use(auth)
	{
		orders.GET("/myorders", r.orderController.MyOrders)
		orders.GET("/:id", r.orderController.GetOrder)
	}

	admin := api.Group("/admin")
	admin.Use(auth)
	{
		adminProducts := admin.Group("/products")
		adminProducts.Use(r.authMiddleware.Authorize(authz.ActionManageProducts))
		{
			adminProducts.GET("", r.productController.AdminListProducts)
			adminProducts.GET("/:id", r.productController.GetProduct)
			adminProducts.POST("", r.productController.CreateProduct)
			adminProducts.PUT("/:id", r.productController.UpdateProduct)
			adminProducts.DELETE("/:id", r.productController.DeleteProduct)
		}

		adminUsers := admin.Group("/users")
		adminUsers.Use(r.authMiddleware.Authorize(authz.ActionManageUsers))
		{
			adminUsers.GET("", r.authController.ListUsers)
			adminUsers.POST("", r.authController.CreateUser)
			adminUsers.PUT("/:id", r.authController.UpdateUser)
			adminUsers.DELETE("/:id", r.authController.DeleteUser)
		}

		adminOrders := admin.Group("/orders")
		adminOrders.Use(r.authMiddleware.Authorize(authz.ActionManageOrders))
		{
			adminOrders.GET("", r.orderController.AdminListOrders)
			adminOrders.GET("/export", r.orderController.AdminExport)
			adminOrders.PUT("/:id", r.orderController.AdminUpdateStatus)
			adminOrders.DELETE("/:id", r.orderController.AdminDeleteOrder)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
