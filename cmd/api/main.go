package main

import (
	"fmt"
	"log"
	"os"

	"capsim/internal/api/handlers"
	"capsim/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	systemDir := handlers.ResolveSystemDir()
	if info, err := os.Stat(systemDir); err == nil && info.IsDir() {
		log.Printf("System preset directory: %s", systemDir)
	} else {
		log.Printf("System preset directory not found at: %s (error: %v)", systemDir, err)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(systemDir)
	systemsHandler := handlers.NewSystemsHandler(systemDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulation)
		api.POST("/simulate/compare", simulateHandler.CompareSimulations)

		api.GET("/systems", systemsHandler.ListSystems)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
