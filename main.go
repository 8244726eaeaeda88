package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/config"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/database"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/handlers"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/middleware"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureParcelIndexes(db); err != nil {
		log.Printf("parcel index warning: %v", err)
	}

	mailer := notify.NewEmailService(config.AppEnv.SendgridAPIKey, config.AppEnv.EmailSender)
	if mailer == nil {
		log.Println("email notifications disabled: no SENDGRID_API_KEY")
	}

	authRequired := middleware.TokenAuth(config.AppEnv.JWTSecret)
	adminOnly := middleware.RequireRole(db, models.RoleAdmin)
	customerOnly := middleware.RequireRole(db, models.RoleCustomer)
	agentOnly := middleware.RequireRole(db, models.RoleDeliveryAgent)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(
			db,
			config.AppEnv.JWTSecret,
			config.AppEnv.AccessTokenTTL,
			config.AppEnv.RefreshTokenTTL,
		))
		auth.POST("/refresh", handlers.Refresh(
			db,
			config.AppEnv.JWTSecret,
			config.AppEnv.AccessTokenTTL,
			config.AppEnv.RefreshTokenTTL,
		))
		auth.POST("/logout", handlers.Logout(db))
	}

	r.GET("/get-user", authRequired, handlers.GetUser(db))
	r.PUT("/update-user/:email", authRequired, handlers.UpdateUser(db))

	users := r.Group("/users", authRequired)
	{
		users.PATCH("/:id/avatar", handlers.UploadAvatar(db))
		users.PATCH("/:id/banner", handlers.UploadBanner(db))
		users.GET("/:id/avatar", handlers.GetAvatar(db))
		users.GET("/:id/banner", handlers.GetBanner(db))
	}

	parcels := r.Group("/parcels", authRequired)
	{
		parcels.POST("", customerOnly, handlers.CreateParcel(db))
		parcels.GET("/myBooking", customerOnly, handlers.GetMyBookings(db))
		parcels.GET("/:id", handlers.GetParcelByID(db))
		parcels.GET("/:id/tracking", handlers.TrackParcel(db))
		parcels.PUT("/:id/assign", adminOnly, handlers.AssignAgent(db, mailer))
		parcels.PUT("/:id/status", agentOnly, handlers.UpdateParcelStatus(db, mailer))
		parcels.PUT("/:id/location", agentOnly, handlers.UpdateParcelLocation(db))
	}

	admin := r.Group("/admin", authRequired, adminOnly)
	{
		admin.GET("/users", handlers.ListUsers(db))
		admin.GET("/parcels", handlers.ListParcels(db))
		admin.GET("/dashboard-metrics", handlers.DashboardMetrics(db))
		admin.PATCH("/users/:id", handlers.UpdateUserByAdmin(db))
	}

	agent := r.Group("/agent", authRequired, agentOnly)
	{
		agent.GET("/parcels", handlers.AssignedParcels(db))
		agent.GET("/export-csv", handlers.ExportCSV(db))
		agent.GET("/export-pdf", handlers.ExportPDF(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
