package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/massage-portal/client-portal/internal/api/metrics"
	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

// UserHandler exposes account administration to admins.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/v1/users.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on email, first or last name"
// @Param        role    query     string  false  "Filter by role"  Enums(admin, therapist, client)
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  listUsersResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.List(c.Request().Context(), id, ports.ListUsersInput{
		Search: q.Search,
		Role:   domain.Role(q.Role),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsersResponse(result))
}

// Create handles POST /api/v1/users.
//
// @Summary      Create a staff or client account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), id, ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
		RemoteIP:  c.RealIP(),
	})
	if err != nil {
		return err
	}
	metrics.AuthRegistrationsTotal.WithLabelValues("admin").Inc()

	return c.JSON(http.StatusCreated, userEnvelope{Message: "User created successfully", User: toUserResponse(user)})
}

// SetStatus handles PATCH /api/v1/users/:id/status.
//
// @Summary      Activate or deactivate an account
// @Description  Deactivated accounts are rejected on their next request.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.SetActive(c.Request().Context(), id, c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	msg := "User deactivated successfully"
	if user.Active {
		msg = "User activated successfully"
	}
	return c.JSON(http.StatusOK, userEnvelope{Message: msg, User: toUserResponse(user)})
}

// Activity handles GET /api/v1/users/:id/activity.
//
// @Summary      Recent authentication activity for an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "User ID"
// @Param        limit  query     int     false  "Max events (default 50, max 200)"
// @Success      200    {object}  activityResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/v1/users/{id}/activity [get]
func (h *UserHandler) Activity(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q activityQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	events, err := h.service.Activity(c.Request().Context(), id, c.Param("id"), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActivityResponse(events))
}
