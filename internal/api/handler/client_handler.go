package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/massage-portal/client-portal/internal/core/ports"
)

// ClientHandler handles HTTP requests for client profiles. Ownership is
// enforced by the service; the handler only resolves the caller.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /api/v1/clients.
//
// @Summary      List client profiles
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on email, first or last name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  listClientsResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q listClientsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.List(c.Request().Context(), id, ports.ListClientsInput{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	recordClientOp("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientsResponse(result))
}

// Get handles GET /api/v1/clients/:id.
//
// @Summary      Get a client profile
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client profile ID"
// @Success      200  {object}  clientEnvelope
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	recordClientOp("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientEnvelope{Client: toClientResponse(detail.Profile, detail.User)})
}

// Create handles POST /api/v1/clients.
//
// @Summary      Create a client profile
// @Description  Non-admins may only create their own profile; admins may create unlinked profiles.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client profile"
// @Success      201   {object}  clientEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		recordClientOp("create", err)
		return err
	}
	in, err := toCreateClientInput(req)
	if err != nil {
		recordClientOp("create", err)
		return err
	}

	profile, err := h.service.Create(c.Request().Context(), id, in)
	recordClientOp("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, clientEnvelope{
		Message: "Client created successfully",
		Client:  toClientResponse(profile, nil),
	})
}

// Update handles PUT /api/v1/clients/:id. Absent fields keep their value.
//
// @Summary      Update a client profile
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client profile ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  clientEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		recordClientOp("update", err)
		return err
	}
	patch, err := toClientPatch(req)
	if err != nil {
		recordClientOp("update", err)
		return err
	}

	profile, err := h.service.Update(c.Request().Context(), id, c.Param("id"), patch)
	recordClientOp("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientEnvelope{
		Message: "Client updated successfully",
		Client:  toClientResponse(profile, nil),
	})
}

// Delete handles DELETE /api/v1/clients/:id.
//
// @Summary      Delete a client profile
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client profile ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), id, c.Param("id"))
	recordClientOp("delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}
