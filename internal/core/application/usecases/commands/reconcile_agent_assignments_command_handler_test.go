package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcileAgentAssignmentsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("reapplies missing agent side of a claim", func(t *testing.T) {
		f := newFixture(t)
		o := f.readyOrder(t)
		require.NoError(t, o.Claim(f.driver, placedAt))
		// the agent row never saw the claim
		a := f.agent(t)

		orderRepo := new(MockOrderRepository)
		agentRepo := new(MockAgentRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			uow.On("AgentRepository").Return(agentRepo).Once(),
			agentRepo.On("GetAllWithActiveOrder", ctx).Return([]*agent.Agent{}, nil).Once(),
			orderRepo.On("GetAllOutForDelivery", ctx).Return([]*order.Order{o}, nil).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			agentRepo.On("GetForUpdate", ctx, f.driver.ID()).Return(a, nil).Once(),
			agentRepo.On("Update", ctx, a).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewReconcileAgentAssignmentsCommandHandler(factory, services.NewOrderDispatcher(0)).
			Handle(ctx, commands.NewReconcileAgentAssignmentsCommand())

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileResult{Assigned: 1}, result)
		require.NotNil(t, a.ActiveOrderID())
		assert.True(t, a.ActiveOrderID().IsEqual(o.ID()))
		assert.False(t, a.IsAvailable())
		uow.AssertExpectations(t)
		agentRepo.AssertExpectations(t)
	})

	t.Run("releases agent whose order was aborted", func(t *testing.T) {
		f := newFixture(t)
		o, a := f.claimedOrder(t)
		require.NoError(t, o.ChangeStatus(order.Cancelled, f.admin, "", placedAt))

		orderRepo := new(MockOrderRepository)
		agentRepo := new(MockAgentRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			uow.On("AgentRepository").Return(agentRepo).Once(),
			agentRepo.On("GetAllWithActiveOrder", ctx).Return([]*agent.Agent{a}, nil).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			agentRepo.On("Update", ctx, a).Return(nil).Once(),
			orderRepo.On("GetAllOutForDelivery", ctx).Return([]*order.Order{}, nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewReconcileAgentAssignmentsCommandHandler(factory, services.NewOrderDispatcher(0)).
			Handle(ctx, commands.NewReconcileAgentAssignmentsCommand())

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileResult{Released: 1}, result)
		assert.True(t, a.IsAvailable())
		uow.AssertExpectations(t)
	})

	t.Run("order delivered after listing leaves its driver alone", func(t *testing.T) {
		f := newFixture(t)
		listed, _ := f.pickedUpOrder(t)
		current := f.copyOf(t, listed)
		proof, err := order.NewProof(order.ProofSignature, "sig-1")
		require.NoError(t, err)
		require.NoError(t, current.Deliver(f.driver, proof, placedAt))
		// the delivery already released the driver
		a := f.agent(t)

		orderRepo := new(MockOrderRepository)
		agentRepo := new(MockAgentRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("AgentRepository").Return(agentRepo).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		agentRepo.On("GetAllWithActiveOrder", ctx).Return([]*agent.Agent{}, nil).Once()
		orderRepo.On("GetAllOutForDelivery", ctx).Return([]*order.Order{listed}, nil).Once()
		orderRepo.On("GetForUpdate", ctx, listed.ID()).Return(current, nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewReconcileAgentAssignmentsCommandHandler(factory, services.NewOrderDispatcher(0)).
			Handle(ctx, commands.NewReconcileAgentAssignmentsCommand())

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileResult{}, result)
		assert.Nil(t, a.ActiveOrderID())
		assert.True(t, a.IsAvailable())
		agentRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
		agentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("consistent state writes nothing", func(t *testing.T) {
		f := newFixture(t)
		o, a := f.claimedOrder(t)

		orderRepo := new(MockOrderRepository)
		agentRepo := new(MockAgentRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("AgentRepository").Return(agentRepo).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		agentRepo.On("GetAllWithActiveOrder", ctx).Return([]*agent.Agent{a}, nil).Once()
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		orderRepo.On("GetAllOutForDelivery", ctx).Return([]*order.Order{o}, nil).Once()
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		agentRepo.On("GetForUpdate", ctx, f.driver.ID()).Return(a, nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewReconcileAgentAssignmentsCommandHandler(factory, services.NewOrderDispatcher(0)).
			Handle(ctx, commands.NewReconcileAgentAssignmentsCommand())

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileResult{}, result)
		agentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
