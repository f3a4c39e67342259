package queries_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/agentrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestNewGetAgentQuery(t *testing.T) {
	agentActor := mustActor(t, kernel.RoleAgent)

	t.Run("agent_reads_own_profile", func(t *testing.T) {
		_, err := queries.NewGetAgentQuery(agentActor.ID(), agentActor)

		require.NoError(t, err)
	})

	t.Run("admin_reads_any_profile", func(t *testing.T) {
		_, err := queries.NewGetAgentQuery(agentActor.ID(), mustActor(t, kernel.RoleAdmin))

		require.NoError(t, err)
	})

	t.Run("other_agent_is_rejected", func(t *testing.T) {
		_, err := queries.NewGetAgentQuery(agentActor.ID(), mustActor(t, kernel.RoleAgent))

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("customer_with_same_id_is_rejected", func(t *testing.T) {
		customer, err := kernel.NewActor(agentActor.ID(), kernel.RoleCustomer)
		require.NoError(t, err)

		_, err = queries.NewGetAgentQuery(agentActor.ID(), customer)

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

type GetAgentQueryHandlerTestSuite struct {
	suite.Suite
	database *pgtest.Database
	repo     *agentrepo.GormAgentRepository
	handler  queries.GetAgentQueryHandler
	admin    kernel.Actor
}

func TestGetAgentQueryHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(GetAgentQueryHandlerTestSuite))
}

func (suite *GetAgentQueryHandlerTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.repo = agentrepo.NewGormAgentRepository(database.DB)
	suite.handler = queries.NewGetAgentQueryHandler(database.DB)
	suite.admin = mustActor(suite.T(), kernel.RoleAdmin)
}

func (suite *GetAgentQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *GetAgentQueryHandlerTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *GetAgentQueryHandlerTestSuite) TestHandle_BusyAgentWithEarnings() {
	ctx := context.Background()
	a, err := agent.NewAgent(kernel.NewUUID(), "Dana")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, a))

	delivered, active := kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(a.TakeOrder(delivered, placedAt))
	_, err = a.CreditDelivery(delivered, 250, 1150, placedAt)
	suite.Require().NoError(err)
	a.ReleaseOrder(delivered)
	a.RecordFailedDelivery()
	suite.Require().NoError(a.TakeOrder(active, placedAt))
	suite.Require().NoError(suite.repo.Update(ctx, a))

	query, err := queries.NewGetAgentQuery(a.ID(), suite.admin)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(a.ID(), result.ID)
	suite.Equal("Dana", result.Name)
	suite.False(result.Available)
	suite.Require().NotNil(result.ActiveOrderID)
	suite.Equal(active, *result.ActiveOrderID)
	suite.Equal(int64(250), result.TodayEarnings)
	suite.Equal(int64(250), result.TotalEarnings)
	suite.Equal(int64(1150), result.CashCollected)
	suite.Equal(2, result.TotalDeliveries)
	suite.Equal(1, result.SuccessfulDeliveries)
	suite.InDelta(50.0, result.CompletionRate, 0.001)
	suite.Equal(2, result.Assignments)
}

func (suite *GetAgentQueryHandlerTestSuite) TestHandle_UnknownAgent_ReturnsNotFound() {
	query, err := queries.NewGetAgentQuery(kernel.NewUUID(), suite.admin)
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetAgentQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetAgentQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetAgentQueryIsNotConstructed)
}
