package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyOTPCommandIsNotConstructed = errors.New(
	"VerifyOTPCommand must be created via NewVerifyOTPCommand constructor",
)

// VerifyOTPCommand submits the code the customer read out at the door.
type VerifyOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	code    string

	guard guard.ConstructorGuard
}

func NewVerifyOTPCommand(orderID kernel.UUID, actor kernel.Actor, code string) (VerifyOTPCommand, error) {
	code = strings.TrimSpace(code)
	var codeErr error
	if code == "" {
		codeErr = errs.NewValueIsRequiredError("otp")
	}
	if err := errors.Join(orderID.Validate(), actor.Validate(), codeErr); err != nil {
		return VerifyOTPCommand{}, err
	}

	return VerifyOTPCommand{orderID: orderID, actor: actor, code: code, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyOTPCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOTPCommandIsNotConstructed)
}

func (c VerifyOTPCommand) OrderID() kernel.UUID { return c.orderID }
func (c VerifyOTPCommand) Actor() kernel.Actor  { return c.actor }
func (c VerifyOTPCommand) Code() string         { return c.code }
