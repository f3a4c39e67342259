package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterProductCommandIsNotConstructed = errors.New(
	"RegisterProductCommand must be created via NewRegisterProductCommand constructor",
)

// RegisterProductCommand lets a seller list a product under its own identity.
type RegisterProductCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	sellerID  kernel.UUID
	name      string

	guard guard.ConstructorGuard
}

func NewRegisterProductCommand(productID kernel.UUID, seller kernel.Actor, name string) (RegisterProductCommand, error) {
	if err := errors.Join(productID.Validate(), seller.Validate()); err != nil {
		return RegisterProductCommand{}, err
	}
	if !seller.Is(kernel.RoleSeller) {
		return RegisterProductCommand{}, errs.NewUnauthorizedError(seller.ID().String(), "product "+productID.String())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return RegisterProductCommand{}, errs.NewValueIsRequiredError("name")
	}

	return RegisterProductCommand{
		productID: productID,
		sellerID:  seller.ID(),
		name:      name,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterProductCommand) Validate() error {
	return c.guard.Validate(ErrRegisterProductCommandIsNotConstructed)
}

func (c RegisterProductCommand) ProductID() kernel.UUID { return c.productID }
func (c RegisterProductCommand) SellerID() kernel.UUID  { return c.sellerID }
func (c RegisterProductCommand) Name() string           { return c.name }
