package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockClaimOrder struct{ mock.Mock }

func (m *MockClaimOrder) Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (commands.ClaimOrderResponse, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ClaimOrderResponse), args.Error(1)
}

type MockVerifyOTP struct{ mock.Mock }

func (m *MockVerifyOTP) Handle(ctx context.Context, cmd commands.VerifyOTPCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGenerateOTP struct{ mock.Mock }

func (m *MockGenerateOTP) Handle(ctx context.Context, cmd commands.GenerateOTPCommand) (commands.GenerateOTPResponse, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.GenerateOTPResponse), args.Error(1)
}

type MockCreateOrder struct{ mock.Mock }

func (m *MockCreateOrder) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (string, error) {
	args := m.Called(ctx, cmd)
	return args.String(0), args.Error(1)
}

type MockAdvanceDelivery struct{ mock.Mock }

func (m *MockAdvanceDelivery) Handle(
	ctx context.Context,
	cmd commands.AdvanceDeliveryCommand,
) (commands.AdvanceDeliveryResponse, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AdvanceDeliveryResponse), args.Error(1)
}

type MockRegisterAgent struct{ mock.Mock }

func (m *MockRegisterAgent) Handle(ctx context.Context, cmd commands.RegisterAgentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockListAvailableOrders struct{ mock.Mock }

func (m *MockListAvailableOrders) Handle(
	ctx context.Context,
	query queries.ListAvailableOrdersQuery,
) ([]queries.AvailableOrder, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).([]queries.AvailableOrder)
	return list, args.Error(1)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}
