package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type ListingHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type ReservationHTTP interface {
	Create(c *gin.Context)
	Mine(c *gin.Context)
	ForOwner(c *gin.Context)
	ForUnit(c *gin.Context)
	SetStatus(c *gin.Context)
	Cancel(c *gin.Context)
}

type AvailabilityHTTP interface {
	Quote(c *gin.Context)
	Check(c *gin.Context)
}

type Handlers struct {
	Listing      ListingHTTP
	Reservation  ReservationHTTP
	Availability AvailabilityHTTP
}

func NewServer(cfg config.Config, logger *slog.Logger, health obs.Health, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if logger != nil {
		logger.Info("gin initialized", "mode", mode, "backend", health.Backend)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obs.RequestTracing(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Actor-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/units", h.Listing.List)
		api.POST("/units", h.Listing.Create)
		api.GET("/units/:id", h.Listing.Get)
		api.PATCH("/units/:id", h.Listing.Update)
		api.DELETE("/units/:id", h.Listing.Delete)
	}
	if h.Availability != nil {
		api.GET("/units/:id/quote", h.Availability.Quote)
		api.GET("/units/:id/availability", h.Availability.Check)
	}
	if h.Reservation != nil {
		api.GET("/units/:id/reservations", h.Reservation.ForUnit)
		api.POST("/reservations", h.Reservation.Create)
		api.GET("/me/reservations", h.Reservation.Mine)
		api.GET("/host/reservations", h.Reservation.ForOwner)
		api.POST("/reservations/:id/status", h.Reservation.SetStatus)
		api.POST("/reservations/:id/cancel", h.Reservation.Cancel)
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func configureGinMode(env string) string {
	switch env {
	case "dev", "local", "test":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	return gin.Mode()
}
