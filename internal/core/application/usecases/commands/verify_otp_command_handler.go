package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// VerifyOTPCommandHandler consumes the stored code.
//
// An expired code is cleared and the clearing is committed before errs.ExpiredError is
// returned, so a later attempt sees no code at all.
type VerifyOTPCommandHandler struct {
	uowFactory OrderUoWFactory
	issuer     services.OTPIssuer
}

func NewVerifyOTPCommandHandler(uowFactory OrderUoWFactory, issuer services.OTPIssuer) VerifyOTPCommandHandler {
	return VerifyOTPCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
	}
}

func (h VerifyOTPCommandHandler) Handle(ctx context.Context, cmd VerifyOTPCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	verifyErr := o.VerifyOTP(cmd.Code(), h.issuer, cmd.Actor(), time.Now().UTC())
	if verifyErr != nil && !errors.Is(verifyErr, errs.ErrExpired) {
		return verifyErr
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return verifyErr
}
