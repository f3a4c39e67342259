package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/services"
)

// GenerateOTPResponse carries the only copy of the plaintext code that ever leaves the service.
type GenerateOTPResponse struct {
	Code             string
	ExpiresInSeconds int
}

// GenerateOTPCommandHandler stores a new hashed code on the order, replacing any earlier one.
type GenerateOTPCommandHandler struct {
	uowFactory OrderUoWFactory
	issuer     services.OTPIssuer
}

func NewGenerateOTPCommandHandler(uowFactory OrderUoWFactory, issuer services.OTPIssuer) GenerateOTPCommandHandler {
	return GenerateOTPCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
	}
}

func (h GenerateOTPCommandHandler) Handle(ctx context.Context, cmd GenerateOTPCommand) (GenerateOTPResponse, error) {
	if err := cmd.Validate(); err != nil {
		return GenerateOTPResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return GenerateOTPResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return GenerateOTPResponse{}, err
	}

	now := time.Now().UTC()
	code, challenge, err := h.issuer.Issue(now)
	if err != nil {
		return GenerateOTPResponse{}, err
	}
	if err = o.SetOTP(challenge, cmd.Actor(), now); err != nil {
		return GenerateOTPResponse{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return GenerateOTPResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return GenerateOTPResponse{}, err
	}

	return GenerateOTPResponse{
		Code:             code,
		ExpiresInSeconds: int(h.issuer.TTL() / time.Second),
	}, nil
}
