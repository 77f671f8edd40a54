package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"skydeal/config"
	"skydeal/handlers"
	"skydeal/logging"
	"skydeal/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	config.Load()
	logging.Initialize()
	logger := logging.GetLogger()
	defer logger.Sync()

	cfg := config.AppConfig

	ai := services.NewAIClient(cfg)
	amadeus := services.NewAmadeusClient(cfg)

	resolver := services.NewResolver(ai, cfg.DefaultAirportCode)
	selector := services.NewSelector(resolver, ai, services.DestinationChoice{
		Code: cfg.DefaultDestinationCode,
		Name: cfg.DefaultDestinationName,
	})
	planner := services.NewPlanner(
		resolver,
		selector,
		services.NewDatePlanner(ai),
		amadeus,
		services.NewHotelEstimator(ai, cfg.DefaultHotelName),
		services.NewContentSynthesizer(ai),
	)

	if os.Getenv("GIN_MODE") == "release" || config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Trusted proxies (deployment sits behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — permissive by default, restricted to configured frontend
	// origins when FRONTEND_URL is set. The middleware also answers the
	// OPTIONS preflight with an empty body.
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.FrontendURL != "" {
		for _, u := range strings.Split(cfg.FrontendURL, ",") {
			if u = strings.TrimSpace(u); u != "" {
				corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, u)
			}
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	h := handlers.New(planner, cfg.RequestDeadline())

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)
		api.POST("/search", h.Search)
	}

	logger.Info("SkyDeal backend starting", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
