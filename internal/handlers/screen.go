package handlers

import (
	"net/http"

	"weatherapp/internal/view"

	"github.com/gin-gonic/gin"
)

// screen renders the HTML page for the current state.
func (h *Handler) screen(c *gin.Context) {
	c.HTML(http.StatusOK, view.ScreenTemplate, view.Render(h.services.Monitoring.Current()))
}

// search handles the HTML form submit and sends the browser back to the screen.
func (h *Handler) search(c *gin.Context) {
	if err := h.services.Weather.Fetch(c.Request.Context(), c.PostForm("city")); err != nil {
		if h.log != nil {
			h.log.Infow("screen_search_rejected", "err", err)
		}
		panel := view.Render(h.services.Monitoring.Current())
		panel.ErrorText = err.Error()
		panel.Spinner = false
		c.HTML(http.StatusBadRequest, view.ScreenTemplate, panel)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
