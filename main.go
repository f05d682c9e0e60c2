package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/khalildhmine/neatify-server/config"
	"github.com/khalildhmine/neatify-server/database"
	"github.com/khalildhmine/neatify-server/middlewares"
	"github.com/khalildhmine/neatify-server/router"
	"github.com/khalildhmine/neatify-server/services"
	"github.com/khalildhmine/neatify-server/utils"
)

func init() {
	// .env is optional; production sets variables directly.
	_ = godotenv.Load()
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		utils.ErrorLogger.Printf("Failed to seed admin account: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Reconcile pending Khalti payments in the background.
	paymentMonitor := services.NewPaymentMonitor(db, services.GetKhaltiService())
	paymentMonitor.Start()
	defer paymentMonitor.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
