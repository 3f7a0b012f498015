package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/infrastructure/logger"
)

// DashboardHandler serves the dashboard view and the shared dataset
type DashboardHandler struct {
	dashboardService *services.DashboardService
	state            *state.Store
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, st *state.Store, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		state:            st,
		logger:           logger,
	}
}

// GetDashboard godoc
// @Summary Current dashboard
// @Description Clock, greeting, today's schedule, next class, test countdown and calendar
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardView
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboardService.View(h.dashboardService.Now()))
}

// StreamDashboard godoc
// @Summary Dashboard event stream
// @Description Server-sent events carrying a fresh view on every tick and every change
// @Tags dashboard
// @Produce text/event-stream
// @Success 200 {object} services.DashboardView
// @Router /dashboard/stream [get]
func (h *DashboardHandler) StreamDashboard(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	err := h.dashboardService.Watch(c.Request().Context(), func(view *services.DashboardView) error {
		data, err := json.Marshal(view)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "event: dashboard\ndata: %s\n\n", data); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warnw("Dashboard stream ended", "error", err)
	}
	return nil
}

// GetDataset godoc
// @Summary Current dataset
// @Tags dataset
// @Produce json
// @Success 200 {object} entities.Dataset
// @Router /dataset [get]
func (h *DashboardHandler) GetDataset(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Dataset())
}

// RefreshDataset godoc
// @Summary Re-fetch the shared dataset
// @Description Replaces unpublished edits. Falls back to the built-in dataset when the source is unavailable; the reason is reported
// @Tags admin
// @Produce json
// @Success 200 {object} FetchResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/dataset/refresh [post]
func (h *DashboardHandler) RefreshDataset(c echo.Context) error {
	result := h.dashboardService.Refresh(c.Request().Context())
	return c.JSON(http.StatusOK, FetchResponse{FetchResult: result, Reason: result.ReasonText()})
}
