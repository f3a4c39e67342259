package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceDeliveryCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryCommand must be created via NewAdvanceDeliveryCommand constructor",
)

// AdvanceDeliveryCommand moves an out-for-delivery order to its next delivery stage.
//
// Example:
//
//	cmd, err := NewAdvanceDeliveryCommand(orderID, driver, "DELIVERED", "", "PHOTO", "s3://proofs/42.jpg")
type AdvanceDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	driver  kernel.Actor
	stage   order.DeliveryStage
	station string
	proof   order.Proof

	guard guard.ConstructorGuard
}

func NewAdvanceDeliveryCommand(
	orderID kernel.UUID,
	driver kernel.Actor,
	stage, station, proofKind, proofReference string,
) (AdvanceDeliveryCommand, error) {
	cmd := AdvanceDeliveryCommand{
		station: strings.TrimSpace(station),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), driver.Validate(), cmd.setStage(stage)); err != nil {
		return AdvanceDeliveryCommand{}, err
	}

	switch cmd.stage {
	case order.StageReachedStation:
		if cmd.station == "" {
			return AdvanceDeliveryCommand{}, errs.NewValueIsRequiredError("station")
		}
	case order.StageDelivered:
		kind := order.ProofKind(strings.ToUpper(strings.TrimSpace(proofKind)))
		if kind == "" {
			kind = order.ProofOTP
		}
		proof, err := order.NewProof(kind, proofReference)
		if err != nil {
			return AdvanceDeliveryCommand{}, err
		}
		cmd.proof = proof
	}

	cmd.orderID = orderID
	cmd.driver = driver
	return cmd, nil
}

func (c AdvanceDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryCommandIsNotConstructed)
}

func (c AdvanceDeliveryCommand) OrderID() kernel.UUID       { return c.orderID }
func (c AdvanceDeliveryCommand) Driver() kernel.Actor       { return c.driver }
func (c AdvanceDeliveryCommand) Stage() order.DeliveryStage { return c.stage }
func (c AdvanceDeliveryCommand) Station() string            { return c.station }
func (c AdvanceDeliveryCommand) Proof() order.Proof         { return c.proof }

func (c *AdvanceDeliveryCommand) setStage(stage string) error {
	parsed, err := order.ParseDeliveryStage(strings.ToUpper(strings.TrimSpace(stage)))
	if err != nil {
		return err
	}
	switch parsed {
	case order.StagePickedUp, order.StageReachedStation, order.StageDelivered:
		c.stage = parsed
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not PICKED_UP, REACHED_STATION or DELIVERED", stage))
	}
}
