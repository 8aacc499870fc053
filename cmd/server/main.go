package main

import (
	"log"
	"net/http"
	"os"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Load()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Emprego MZ scraper API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/stats", func(c *gin.Context) {
		//re-open on every request so stats reflect the latest scrape run
		s := store.Open(cfg.JobsDBFile, cfg.CategoriesFile, cfg.LocationsFile)
		stats := s.Stats()
		c.JSON(http.StatusOK, gin.H{
			"jobs":          stats.Jobs,
			"categories":    stats.Categories,
			"locations":     stats.Locations,
			"last_modified": stats.LastModified,
		})
	})

	r.GET("/jobs/recent", func(c *gin.Context) {
		s := store.Open(cfg.JobsDBFile, cfg.CategoriesFile, cfg.LocationsFile)
		jobs := s.Jobs()
		if len(jobs) > 20 {
			jobs = jobs[len(jobs)-20:]
		}
		c.JSON(http.StatusOK, gin.H{"jobs": jobs})
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
