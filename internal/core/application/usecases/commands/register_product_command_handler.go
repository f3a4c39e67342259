package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// RegisterProductCommandHandler is a single write, so it needs no unit of work.
type RegisterProductCommandHandler struct {
	registry ports.ProductRegistry
}

func NewRegisterProductCommandHandler(registry ports.ProductRegistry) RegisterProductCommandHandler {
	return RegisterProductCommandHandler{registry: registry}
}

func (h RegisterProductCommandHandler) Handle(ctx context.Context, cmd RegisterProductCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.registry.Register(ctx, cmd.ProductID(), cmd.SellerID(), cmd.Name())
}
