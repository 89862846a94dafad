package handlers

import (
	"errors"
	"net/http"

	"weatherapp/internal/service"
	"weatherapp/internal/view"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusLoading = "loading"

	errFetchWeather    = "failed to submit lookup"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for submitting a city query.
type fetchRequest struct {
	City string `json:"city" binding:"required"`
}

// FetchRequest is an exported model for Swagger docs of the fetch payload.
type FetchRequest struct {
	// City name as typed by the user
	City string `json:"city" example:"London"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Submit city lookup
// @Description  Switches the state to loading and fetches current weather in the background
// @Tags         weather
// @Accept       json
// @Produce      json
// @Param        body  body   FetchRequest  true  "City payload"
// @Success      202   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/weather/fetch [post]
func (h *Handler) fetchWeather(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.submit(c, req.City); err != nil {
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": statusLoading,
		"state":  h.services.Monitoring.Current(),
	})
}

// submit forwards a city query to the controller and writes the JSON error
// response itself when it fails.
func (h *Handler) submit(c *gin.Context, city string) error {
	err := h.services.Weather.Fetch(c.Request.Context(), city)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrBlankCity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrControllerClosed):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errFetchWeather, "weather_fetch_rejected", err, "city", city)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errFetchWeather, "weather_fetch_failed", err, "city", city)
	}
	return err
}

// @Summary      Get current result state
// @Description  kind is one of idle, loading, error, success
// @Tags         weather
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/weather/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Current())
}

// @Summary      Get rendered panel
// @Description  View model of the screen for the current state
// @Tags         weather
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/weather/panel [get]
func (h *Handler) getPanel(c *gin.Context) {
	c.JSON(http.StatusOK, view.Render(h.services.Monitoring.Current()))
}
