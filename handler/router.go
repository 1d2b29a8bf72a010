package handler

import (
	"net/http"
	"time"

	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/middleware"
	"github.com/AnTengye/lawassistant/service"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP API is built on
type Dependencies struct {
	Config   *config.Config
	Analyzer *service.Analyzer
	Keywords KeywordStore
	History  HistorySource
	Reports  service.ReportStore
}

// NewRouter wires middleware and routes. Keyword mutation and the
// auth endpoints are only guarded when auth is enabled.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, time.Minute))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	analysisHandler := NewAnalysisHandler(deps.Analyzer, deps.History, &cfg.Server)
	keywordHandler := NewKeywordHandler(deps.Keywords)
	reportHandler := NewReportHandler(deps.Reports)

	api := router.Group("/api", middleware.NoCache())
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "LawAssistant API"})
		})
		api.POST("/analyze", analysisHandler.Analyze)
		api.GET("/history", analysisHandler.History)
		api.GET("/history/:id", analysisHandler.HistoryEntry)
		api.GET("/keywords", keywordHandler.List)
		api.GET("/report/:id/:kind", reportHandler.Download)
	}

	keywords := api.Group("/keywords")
	if cfg.Auth.Enabled {
		authHandler := NewAuthHandler(cfg)
		requireAuth := middleware.AuthMiddleware(&cfg.Auth)

		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", requireAuth, authHandler.Me)
		keywords.Use(requireAuth)
	}
	{
		keywords.POST("", keywordHandler.Create)
		keywords.DELETE("/:id", keywordHandler.Delete)
	}

	return router
}
