package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	foodCtrl := controllers.NewFoodController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	auth.Use(middlewares.StrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	// Menu browsing does not require login
	api.GET("/foods", foodCtrl.GetAllFoods)
	api.GET("/foods/categories/list", foodCtrl.GetCategories)
	api.GET("/foods/:id", foodCtrl.GetFoodByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := api.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/auth/me", userCtrl.GetProfile)

		authed.POST("/orders", orderCtrl.CreateOrder)
		authed.GET("/orders/my-orders", orderCtrl.GetMyOrders)
		authed.GET("/orders/:id", orderCtrl.GetOrderByID)
		authed.PUT("/orders/:id/cancel", orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.POST("/foods", adminCtrl.CreateFood)
		admin.GET("/foods", adminCtrl.GetAllFoods)
		admin.PUT("/foods/:id", adminCtrl.UpdateFood)
		admin.DELETE("/foods/:id", adminCtrl.DeleteFood)
		admin.PUT("/foods/:id/stock", adminCtrl.UpdateFoodStock)
		admin.POST("/foods/reset-stock", adminCtrl.ResetDailyStock)

		admin.GET("/orders", adminCtrl.GetAllOrders)
		admin.PUT("/orders/:id/status", adminCtrl.UpdateOrderStatus)

		admin.GET("/users", adminCtrl.GetAllUsers)
		admin.PUT("/users/:id/role", adminCtrl.UpdateUserRole)
		admin.PUT("/users/:id/toggle-status", adminCtrl.ToggleUserStatus)

		admin.GET("/dashboard", adminCtrl.GetDashboardStats)
	}

	// WebSocket stream for the admin dashboard; token travels in the query
	// string, so it gets its own auth middleware.
	ws := api.Group("/admin/events")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", controllers.EventsHandler)
	}

	return r
}
