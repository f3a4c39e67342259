package cmd

import (
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *productrepo.GormProductCatalog

	dispatcher services.OrderDispatcher
	ledger     services.EarningsLedger
	otpIssuer  services.OTPIssuer

	metrics *metrics.Metrics
	logger  logger.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
	log logger.Logger,
) (*CompositionRoot, error) {
	ledger, err := services.NewEarningsLedger(config.DeliveryFee)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, log, config.ListPageSize),
		catalog:    productrepo.NewGormProductCatalog(gormDB),
		dispatcher: services.NewOrderDispatcher(config.EstimatedDelivery),
		ledger:     ledger,
		otpIssuer:  services.NewOTPIssuer(config.OTPTTL, config.BcryptCost),
		metrics:    m,
		logger:     log,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) agentUoWFactory() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uowFactoryFunc(), c.ledger)
}

func (c *CompositionRoot) CreateSetItemStatusCommandHandler() commands.SetItemStatusCommandHandler {
	return commands.NewSetItemStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.uowFactoryFunc(), c.dispatcher)
}

func (c *CompositionRoot) CreateDeclineOrderCommandHandler() commands.DeclineOrderCommandHandler {
	return commands.NewDeclineOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceDeliveryCommandHandler() commands.AdvanceDeliveryCommandHandler {
	return commands.NewAdvanceDeliveryCommandHandler(c.uowFactoryFunc(), c.ledger)
}

func (c *CompositionRoot) CreateReportDeliveryIssueCommandHandler() commands.ReportDeliveryIssueCommandHandler {
	return commands.NewReportDeliveryIssueCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGenerateOTPCommandHandler() commands.GenerateOTPCommandHandler {
	return commands.NewGenerateOTPCommandHandler(c.orderUoWFactory(), c.otpIssuer)
}

func (c *CompositionRoot) CreateVerifyOTPCommandHandler() commands.VerifyOTPCommandHandler {
	return commands.NewVerifyOTPCommandHandler(c.orderUoWFactory(), c.otpIssuer)
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	return commands.NewRegisterAgentCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateRegisterProductCommandHandler() commands.RegisterProductCommandHandler {
	return commands.NewRegisterProductCommandHandler(c.catalog)
}

func (c *CompositionRoot) CreateResetDailyEarningsCommandHandler() commands.ResetDailyEarningsCommandHandler {
	return commands.NewResetDailyEarningsCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateReconcileAgentAssignmentsCommandHandler() commands.ReconcileAgentAssignmentsCommandHandler {
	return commands.NewReconcileAgentAssignmentsCommandHandler(c.uowFactoryFunc(), c.dispatcher)
}

func (c *CompositionRoot) CreateListAvailableOrdersQueryHandler() queries.ListAvailableOrdersQueryHandler {
	return queries.NewListAvailableOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil, c.config.ListPageSize))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil, c.config.ListPageSize))
}

func (c *CompositionRoot) CreateGetAgentQueryHandler() queries.GetAgentQueryHandler {
	return queries.NewGetAgentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:   c.CreateChangeOrderStatusCommandHandler(),
		SetItemStatus:       c.CreateSetItemStatusCommandHandler(),
		ClaimOrder:          c.CreateClaimOrderCommandHandler(),
		DeclineOrder:        c.CreateDeclineOrderCommandHandler(),
		AdvanceDelivery:     c.CreateAdvanceDeliveryCommandHandler(),
		ReportDeliveryIssue: c.CreateReportDeliveryIssueCommandHandler(),
		GenerateOTP:         c.CreateGenerateOTPCommandHandler(),
		VerifyOTP:           c.CreateVerifyOTPCommandHandler(),
		RegisterAgent:       c.CreateRegisterAgentCommandHandler(),
		RegisterProduct:     c.CreateRegisterProductCommandHandler(),
		ListAvailableOrders: c.CreateListAvailableOrdersQueryHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		GetAgent:            c.CreateGetAgentQueryHandler(),
	}, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateResetDailyEarningsCommandHandler(),
		c.CreateReconcileAgentAssignmentsCommandHandler(),
		jobs.Schedules{
			EarningsReset:       c.config.EarningsResetSchedule,
			AgentReconciliation: c.config.AgentReconciliationSchedule,
		},
		c.metrics,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
