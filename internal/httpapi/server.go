// Package httpapi: read-only HTTP-статус бота: проверка здоровья и лидерборды в JSON.
// Поднимается только при заданном HTTP_ADDR.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/ledger"
)

// Pinger: хранилище, которое умеет проверять соединение.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Leaderboards: источник таблиц лидеров.
type Leaderboards interface {
	Leaderboard(ctx context.Context, metric ledger.Metric, limit int) ([]ledger.Standing, error)
}

// Handler обслуживает эндпоинты.
type Handler struct {
	store  Pinger
	boards Leaderboards
}

// NewRouter собирает gin-роутер.
func NewRouter(store Pinger, boards Leaderboards, release bool) *gin.Engine {
	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	h := &Handler{store: store, boards: boards}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", h.Health)
	api := router.Group("/api")
	api.GET("/leaderboard/:metric", h.Leaderboard)
	return router
}

// Health: 200, если хранилище отвечает.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.WithError(err).Warn("healthz: хранилище недоступно")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Leaderboard: /api/leaderboard/fish|balance?limit=N.
func (h *Handler) Leaderboard(c *gin.Context) {
	metric := ledger.Metric(c.Param("metric"))
	if metric != ledger.MetricFish && metric != ledger.MetricBalance {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown metric"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	standings, err := h.boards.Leaderboard(c.Request.Context(), metric, limit)
	if err != nil {
		log.WithError(err).Error("http: ошибка лидерборда")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if standings == nil {
		standings = []ledger.Standing{}
	}
	c.JSON(http.StatusOK, gin.H{"metric": metric, "standings": standings})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("http")
	}
}

// Server: http.Server с роутером.
type Server struct {
	srv *http.Server
}

// NewServer создаёт сервер на addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start слушает в фоне. Ошибка после старта только логируется.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.srv.Addr).Info("HTTP-статус запущен")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP-сервер остановился с ошибкой")
		}
	}()
}

// Shutdown останавливает сервер.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
