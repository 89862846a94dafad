package handlers

import (
	"weatherapp/internal/logger"
	"weatherapp/internal/service"
	"weatherapp/internal/view"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	router.SetHTMLTemplate(view.Templates())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// Server-rendered screen: search field + result panel
	router.GET("/", h.screen)
	router.POST("/search", h.search)

	h.registerAPIRoutes(router)

	// State push over WebSocket (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerWeatherRoutes(api)
		h.registerLookupRoutes(api)
	}
}

func (h *Handler) registerWeatherRoutes(api *gin.RouterGroup) {
	w := api.Group("/weather")
	{
		// Body example: {"city":"London"}
		w.POST("/fetch", h.fetchWeather)
		w.GET("/state", h.getState)
		w.GET("/panel", h.getPanel)
	}
}

func (h *Handler) registerLookupRoutes(api *gin.RouterGroup) {
	lookups := api.Group("/lookups")
	{
		lookups.GET("", h.getLookups)
	}
}
