package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// PomodoroHandler handles timer requests
type PomodoroHandler struct {
	pomodoroService *services.PomodoroService
	logger          *logger.Logger
}

// NewPomodoroHandler creates a new pomodoro handler
func NewPomodoroHandler(pomodoroService *services.PomodoroService, logger *logger.Logger) *PomodoroHandler {
	return &PomodoroHandler{
		pomodoroService: pomodoroService,
		logger:          logger,
	}
}

// GetPomodoro godoc
// @Summary Timer state
// @Tags pomodoro
// @Produce json
// @Success 200 {object} services.PomodoroView
// @Router /pomodoro [get]
func (h *PomodoroHandler) GetPomodoro(c echo.Context) error {
	return c.JSON(http.StatusOK, pomodoroView(h.pomodoroService.State()))
}

// TogglePomodoro godoc
// @Summary Start or stop the timer
// @Tags pomodoro
// @Produce json
// @Success 200 {object} services.PomodoroView
// @Router /pomodoro/toggle [post]
func (h *PomodoroHandler) TogglePomodoro(c echo.Context) error {
	return c.JSON(http.StatusOK, pomodoroView(h.pomodoroService.Toggle()))
}

// ResetPomodoro godoc
// @Summary Stop the timer and rewind to a full work phase
// @Tags pomodoro
// @Produce json
// @Success 200 {object} services.PomodoroView
// @Router /pomodoro/reset [post]
func (h *PomodoroHandler) ResetPomodoro(c echo.Context) error {
	return c.JSON(http.StatusOK, pomodoroView(h.pomodoroService.Reset()))
}

// ConfigurePomodoro godoc
// @Summary Set work and break lengths
// @Tags pomodoro
// @Accept json
// @Produce json
// @Param request body ports.PomodoroConfigRequest true "Minutes"
// @Success 200 {object} services.PomodoroView
// @Failure 400 {object} ErrorResponse
// @Router /pomodoro/config [put]
func (h *PomodoroHandler) ConfigurePomodoro(c echo.Context) error {
	var req ports.PomodoroConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state, err := h.pomodoroService.Configure(req.WorkMinutes, req.BreakMinutes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, pomodoroView(state))
}

func pomodoroView(s entities.PomodoroState) services.PomodoroView {
	return services.PomodoroView{PomodoroState: s, Display: s.Display()}
}
