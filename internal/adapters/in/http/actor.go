package http

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

var errMissingIdentity = errors.New("missing caller identity")

// actorFrom reads the authenticated caller set by the gateway.
func actorFrom(c echo.Context) (kernel.Actor, error) {
	rawID := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
	rawRole := strings.TrimSpace(c.Request().Header.Get(HeaderActorRole))
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, errMissingIdentity
	}

	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderActorID, err)
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
