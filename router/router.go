package router

import (
	"github.com/dineplan/tablebook/controllers"
	"github.com/dineplan/tablebook/middlewares"
	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	actors := services.NewActorService(db)
	availability := services.NewAvailabilityService(db)
	reservations := services.NewReservationService(db, availability)

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db, actors)
	tableCtrl := controllers.NewTableController(db, actors, availability)
	reservationCtrl := controllers.NewReservationController(db, actors, reservations)
	staffCtrl := controllers.NewStaffController(db, actors)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Public restaurant directory with the display-only occupancy view.
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	r.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetTables)
	r.GET("/restaurants/:restaurant_id/occupancy", tableCtrl.GetOccupancy)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.Use(middlewares.NewRateLimiter(60, 60).RateLimit())

	auth.GET("/profile", userCtrl.GetProfile)

	// Reservations: creation is customer-facing, manual bookings and
	// transitions are staff-facing; tenant scoping happens in the
	// services.
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.GET("/reservations", reservationCtrl.ListReservations)
	auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	auth.PATCH("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)
	auth.POST("/reservations/manual",
		middlewares.RequireRoles(models.RoleSuperAdmin, models.RoleRestaurantAdmin, models.RoleReceptionAdmin),
		reservationCtrl.CreateManualBooking)

	// Restaurant and table management (owner / super admin).
	management := auth.Group("/")
	management.Use(middlewares.RequireRoles(models.RoleSuperAdmin, models.RoleRestaurantAdmin))
	{
		management.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		management.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
		management.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeactivateRestaurant)

		management.POST("/restaurants/:restaurant_id/tables", tableCtrl.CreateTable)
		management.PATCH("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.UpdateTable)
		management.DELETE("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.DeleteTable)

		management.GET("/restaurants/:restaurant_id/staff", staffCtrl.GetStaff)
		management.POST("/restaurants/:restaurant_id/staff", staffCtrl.AssignStaff)
		management.DELETE("/restaurants/:restaurant_id/staff/:user_id", staffCtrl.RemoveStaff)
	}

	// Platform administration.
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleSuperAdmin))
	{
		admin.PATCH("/users/:user_id/role", userCtrl.PromoteUser)
	}

	return r
}
