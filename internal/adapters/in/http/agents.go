package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RegisterAgent handles POST /agents. Agents register themselves; admins may register anyone.
func (s *Server) RegisterAgent(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body NewAgent
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	agentID := actor.ID()
	if body.ID != "" {
		if agentID, err = kernel.UUIDFromString(body.ID); err != nil {
			return s.fail(c, errs.NewValueIsInvalidErrorWithCause("id", err))
		}
	}
	self := actor.Is(kernel.RoleAgent) && actor.ID().IsEqual(agentID)
	if !self && !actor.Is(kernel.RoleAdmin) {
		return s.fail(c, errs.NewUnauthorizedError(actor.ID().String(), "agent "+agentID.String()))
	}

	cmd, err := commands.NewRegisterAgentCommand(agentID, body.Name)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.RegisterAgent.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, NewAgent{ID: agentID.String(), Name: cmd.Name()})
}

// GetAgent handles GET /agents/:id.
func (s *Server) GetAgent(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	agentID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetAgentQuery(agentID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.GetAgent.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, agentOf(result))
}

// RegisterProduct handles PUT /products/:id; the calling seller becomes the owner.
func (s *Server) RegisterProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	productID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body NewProduct
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRegisterProductCommand(productID, actor, body.Name)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.RegisterProduct.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
