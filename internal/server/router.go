package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Skufu/GoRisk/internal/metrics"
	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/Skufu/GoRisk/internal/sink"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Evaluator interface {
	Evaluate(ctx context.Context, rt risk.RiskType, raw risk.RawInputs) (risk.PredictionResult, error)
}

// ModelStatus reports per-risk-type model load state for readiness.
type ModelStatus interface {
	Status() map[string]string
	Healthy() bool
}

type Deps struct {
	Evaluator  Evaluator
	Recorder   *sink.Recorder
	DB         HealthChecker
	Models     ModelStatus
	StaticRoot string
	Now        func() time.Time
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handler{deps: deps}

	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if deps.StaticRoot != "" {
		index := filepath.Join(deps.StaticRoot, "index.html")
		if fileExists(index) {
			router.StaticFile("/", index)
			router.Static("/static", deps.StaticRoot)
		}
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", h.ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/risk-types", h.riskTypes)
		api.POST("/predict", h.predict)
	}

	return router
}

func (h *handler) ready(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok", "db": "disabled"}

	if h.deps.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body["db"] = "ok"
		if err := h.deps.DB.Ping(ctx); err != nil {
			body["db"] = fmt.Sprintf("unhealthy: %v", err)
			status = http.StatusServiceUnavailable
		}
	}

	if h.deps.Models != nil {
		body["models"] = h.deps.Models.Status()
		if !h.deps.Models.Healthy() {
			status = http.StatusServiceUnavailable
		}
	}

	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// DetectStaticRoot looks for the form's index.html under web/ in the working
// directory or up to two parents.
func DetectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "web"
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		web := filepath.Join(dir, "web")
		if fileExists(filepath.Join(web, "index.html")) {
			return web
		}
	}

	return filepath.Join(startDir, "web")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
