package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// AdminHandler handles dataset editing and publishing
type AdminHandler struct {
	adminService *services.AdminService
	logger       *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// ReplaceDataset godoc
// @Summary Replace the whole dataset
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.DatasetRequest true "Dataset"
// @Success 200 {object} entities.Dataset
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/dataset [put]
func (h *AdminHandler) ReplaceDataset(c echo.Context) error {
	var req ports.DatasetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ds, err := h.adminService.ReplaceDataset(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ds)
}

// SetTimings godoc
// @Summary Replace the period timings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.TimingsRequest true "Timings"
// @Success 200 {object} entities.Dataset
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/timings [put]
func (h *AdminHandler) SetTimings(c echo.Context) error {
	var req ports.TimingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ds, err := h.adminService.SetTimings(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ds)
}

// SetDaySchedule godoc
// @Summary Set one class's subjects for one weekday
// @Tags admin
// @Accept json
// @Produce json
// @Param class path string true "Class ID"
// @Param day path string true "Weekday key (Sun..Sat)"
// @Param request body ports.DayScheduleRequest true "Period number to subject"
// @Success 200 {object} entities.Dataset
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/schedule/{class}/{day} [put]
func (h *AdminHandler) SetDaySchedule(c echo.Context) error {
	var req ports.DayScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ds, err := h.adminService.SetDaySchedule(c.Param("class"), c.Param("day"), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ds)
}

// AddTest godoc
// @Summary Add an upcoming test
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.AddTestRequest true "Test"
// @Success 201 {object} entities.Dataset
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/tests [post]
func (h *AdminHandler) AddTest(c echo.Context) error {
	var req ports.AddTestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ds, err := h.adminService.AddTest(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ds)
}

// RemoveTest godoc
// @Summary Remove tests by name
// @Tags admin
// @Produce json
// @Param name path string true "Test name"
// @Success 200 {object} entities.Dataset
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/tests/{name} [delete]
func (h *AdminHandler) RemoveTest(c echo.Context) error {
	ds, err := h.adminService.RemoveTest(c.Param("name"))
	if err != nil {
		if errors.Is(err, entities.ErrTestNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Test not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ds)
}

// Publish godoc
// @Summary Publish the dataset
// @Description Overwrites the remote data.json, guarded by its current revision
// @Tags admin
// @Produce json
// @Success 200 {object} ports.PublishResult
// @Failure 409 {object} ports.PublishResult
// @Failure 412 {object} ports.PublishResult
// @Failure 502 {object} ports.PublishResult
// @Security BearerAuth
// @Router /admin/publish [post]
func (h *AdminHandler) Publish(c echo.Context) error {
	result, err := h.adminService.Publish(c.Request().Context())
	if err == nil {
		return c.JSON(http.StatusOK, result)
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, entities.ErrCredentialsMissing):
		status = http.StatusPreconditionFailed
	default:
		if re, ok := ports.AsRemoteError(err); ok && re.IsConflict() {
			status = http.StatusConflict
		}
	}
	return c.JSON(status, result)
}
