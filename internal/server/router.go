package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopifyfeed/internal/config"
	"shopifyfeed/internal/observability"
	"shopifyfeed/internal/repository"
	"shopifyfeed/internal/upload"
)

// RunStore registra execuções finalizadas. RunRepository implementa.
type RunStore interface {
	Save(ctx context.Context, run repository.Run) error
	Recent(ctx context.Context, limit int) ([]repository.Run, error)
}

type Handler struct {
	cfg   *config.Config
	store upload.Store
	runs  RunStore // nil quando DATABASE_URL não está definido
	log   *logrus.Entry
	now   func() time.Time
}

func NewHandler(cfg *config.Config, store upload.Store, runs RunStore, logger *logrus.Logger) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
		runs:  runs,
		log:   logger.WithField("component", "server"),
		now:   time.Now,
	}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Disposition", "X-Feed-Rows", "X-Feed-Warnings"},
		MaxAge:          12 * time.Hour,
	}))
	r.MaxMultipartMemory = h.cfg.MaxUploadMB << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/uploads", h.CreateUpload)
		api.GET("/uploads/:id/preview", h.PreviewUpload)
		api.POST("/uploads/:id/export", h.ExportUpload)
		api.GET("/runs", h.ListRuns)
	}
	return r
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}
