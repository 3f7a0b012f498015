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

// AuthHandler handles admin login
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Admin login
// @Description Exchange the admin password for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Password"
// @Success 200 {object} ports.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(req)
	if err != nil {
		h.logger.LogSecurityEvent("admin_login_failed", c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	}

	return c.JSON(http.StatusOK, response)
}

// SettingsHandler handles the per-installation user settings
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings godoc
// @Summary Get user settings
// @Tags settings
// @Produce json
// @Success 200 {object} entities.UserSettings
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.UserSettings())
}

// SaveSettings godoc
// @Summary Save user settings
// @Description Replace the selected class and calendar id
// @Tags settings
// @Accept json
// @Produce json
// @Param request body entities.UserSettings true "Settings"
// @Success 200 {object} entities.UserSettings
// @Failure 400 {object} ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) SaveSettings(c echo.Context) error {
	var req entities.UserSettings
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	settings, err := h.settingsService.SaveUserSettings(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Save settings failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, settings)
}

// ListClasses godoc
// @Summary List selectable classes
// @Tags settings
// @Produce json
// @Success 200 {array} string
// @Router /settings/classes [get]
func (h *SettingsHandler) ListClasses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.ClassOptions())
}

// GetCredentials godoc
// @Summary Get repository credentials
// @Description The token is masked
// @Tags admin
// @Produce json
// @Success 200 {object} entities.RepoCredentials
// @Security BearerAuth
// @Router /admin/credentials [get]
func (h *SettingsHandler) GetCredentials(c echo.Context) error {
	creds := h.settingsService.Credentials(c.Request().Context())
	return c.JSON(http.StatusOK, creds.Redacted())
}

// SaveCredentials godoc
// @Summary Save repository credentials
// @Tags admin
// @Accept json
// @Produce json
// @Param request body entities.RepoCredentials true "Owner, repository and token"
// @Success 200 {object} entities.RepoCredentials
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/credentials [put]
func (h *SettingsHandler) SaveCredentials(c echo.Context) error {
	var req entities.RepoCredentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	creds, err := h.settingsService.SaveCredentials(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Save credentials failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, creds.Redacted())
}

// ClearCredentials godoc
// @Summary Forget repository credentials
// @Tags admin
// @Success 204
// @Security BearerAuth
// @Router /admin/credentials [delete]
func (h *SettingsHandler) ClearCredentials(c echo.Context) error {
	if err := h.settingsService.ClearCredentials(c.Request().Context()); err != nil {
		h.logger.Errorw("Clear credentials failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear credentials")
	}
	return c.NoContent(http.StatusNoContent)
}

// TodoHandler handles the to-do list
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new to-do handler
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// ListTodos godoc
// @Summary List to-do items
// @Tags todos
// @Produce json
// @Success 200 {object} TodoListResponse
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	items, err := h.todoService.List(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List todos failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve todos")
	}

	return c.JSON(http.StatusOK, TodoListResponse{
		Items:    items,
		Progress: entities.ComputeTodoProgress(items),
	})
}

// AddTodo godoc
// @Summary Add a to-do item
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.AddTodoRequest true "Item text"
// @Success 201 {object} entities.TodoItem
// @Failure 400 {object} ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) AddTodo(c echo.Context) error {
	var req ports.AddTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.todoService.Add(c.Request().Context(), req.Text)
	if err != nil {
		if errors.Is(err, entities.ErrEmptyTodo) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Errorw("Add todo failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add todo")
	}

	return c.JSON(http.StatusCreated, item)
}

// ToggleTodo godoc
// @Summary Toggle a to-do item
// @Tags todos
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} entities.TodoItem
// @Failure 404 {object} ErrorResponse
// @Router /todos/{id}/toggle [patch]
func (h *TodoHandler) ToggleTodo(c echo.Context) error {
	item, err := h.todoService.Toggle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.todoError("Toggle todo failed", err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteTodo godoc
// @Summary Delete a to-do item
// @Tags todos
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	if err := h.todoService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.todoError("Delete todo failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearDone godoc
// @Summary Remove finished to-do items
// @Tags todos
// @Produce json
// @Success 200 {object} ClearDoneResponse
// @Router /todos/done [delete]
func (h *TodoHandler) ClearDone(c echo.Context) error {
	removed, err := h.todoService.ClearDone(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Clear done todos failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear todos")
	}
	return c.JSON(http.StatusOK, ClearDoneResponse{Removed: removed})
}

func (h *TodoHandler) todoError(msg string, err error) error {
	if errors.Is(err, entities.ErrTodoNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	}
	h.logger.Errorw(msg, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// Request/Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type TodoListResponse struct {
	Items    []entities.TodoItem   `json:"items"`
	Progress entities.TodoProgress `json:"progress"`
}

type ClearDoneResponse struct {
	Removed int `json:"removed"`
}

type FetchResponse struct {
	*ports.FetchResult
	Reason string `json:"reason,omitempty"`
}
