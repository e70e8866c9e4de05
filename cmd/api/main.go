package main

import (
	stdlog "log"
	"net/http"
	"os"
	"runtime"

	"github.com/cleberrangel/jira-insights-api/internal/client"
	"github.com/cleberrangel/jira-insights-api/internal/config"
	"github.com/cleberrangel/jira-insights-api/internal/handler"
	"github.com/cleberrangel/jira-insights-api/internal/logger"
	"github.com/cleberrangel/jira-insights-api/internal/metrics"
	"github.com/cleberrangel/jira-insights-api/internal/middleware"
	"github.com/cleberrangel/jira-insights-api/internal/service"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.3"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado e métricas
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	metrics.Init()

	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("jira_server", cfg.JiraServer).
		Str("jira_project", cfg.JiraProject).
		Str("log_level", cfg.LogLevel).
		Msg("Jira Insights API iniciando")

	// Inicializa dependências
	jiraClient := client.NewClient(cfg.JiraServer, cfg.JiraEmail, cfg.JiraAPIToken, cfg.JiraTimeout)
	insightsService := service.NewInsightsService(jiraClient, cfg.JiraProject)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	// Inicializa router
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	// Health check (público)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": Version,
			"uptime":  metrics.Get().GetUptime().String(),
		})
	})

	// Métricas da aplicação (público)
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Get().Snapshot())
	})

	// Debug memory endpoint (público)
	r.GET("/debug/memory", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"alloc_mb":      m.Alloc / 1024 / 1024,
			"sys_mb":        m.Sys / 1024 / 1024,
			"heap_alloc_mb": m.HeapAlloc / 1024 / 1024,
			"heap_inuse_mb": m.HeapInuse / 1024 / 1024,
			"goroutines":    runtime.NumGoroutine(),
			"gc_runs":       m.NumGC,
		})
	})

	// Rotas do gateway. Com TOKEN_API configurado, exigem Bearer token.
	jira := r.Group("/jira")
	if cfg.TokenAPI != "" {
		jira.Use(middleware.BearerAuth(middleware.AuthConfig{
			TokenAPI: cfg.TokenAPI,
		}))
	}
	{
		jira.GET("/work/estimates", insightsHandler.WorkEstimates)
		jira.GET("/work/logs", insightsHandler.WorkLogs)

		jira.GET("/insights/sprint/:sprintID", insightsHandler.SprintInsight)
		jira.GET("/insights/sprint/:sprintID/export", insightsHandler.SprintExport)
		jira.GET("/insights/delivery", insightsHandler.DeliveryMetrics)

		jira.GET("/issues/work-estimates", insightsHandler.ProjectEstimates)
		jira.GET("/issues/filter", insightsHandler.FilterIssues)
		jira.GET("/issues/assigned/:assignee/:projectKey", insightsHandler.AssignedIssues)
		jira.GET("/issues/:issueKey", insightsHandler.IssueDetails)
	}

	// Inicia servidor
	log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		os.Exit(1)
	}
}
