// Package http exposes the fulfillment use cases over a JSON API built on echo.
//
// The caller identity comes from the X-Actor-ID and X-Actor-Role headers, which the auth
// gateway in front of the service sets after authenticating the request.
package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Use case contracts the server depends on. The command and query handlers satisfy them.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (string, error)
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (order.Status, error)
	}
	SetItemStatusHandler interface {
		Handle(ctx context.Context, cmd commands.SetItemStatusCommand) (commands.SetItemStatusResponse, error)
	}
	ClaimOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (commands.ClaimOrderResponse, error)
	}
	DeclineOrderHandler interface {
		Handle(ctx context.Context, cmd commands.DeclineOrderCommand) error
	}
	AdvanceDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceDeliveryCommand) (commands.AdvanceDeliveryResponse, error)
	}
	ReportDeliveryIssueHandler interface {
		Handle(ctx context.Context, cmd commands.ReportDeliveryIssueCommand) error
	}
	GenerateOTPHandler interface {
		Handle(ctx context.Context, cmd commands.GenerateOTPCommand) (commands.GenerateOTPResponse, error)
	}
	VerifyOTPHandler interface {
		Handle(ctx context.Context, cmd commands.VerifyOTPCommand) error
	}
	RegisterAgentHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterAgentCommand) error
	}
	RegisterProductHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterProductCommand) error
	}
	ListAvailableOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListAvailableOrdersQuery) ([]queries.AvailableOrder, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	GetAgentHandler interface {
		Handle(ctx context.Context, query queries.GetAgentQuery) (queries.GetAgentQueryResponse, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder         CreateOrderHandler
	ChangeOrderStatus   ChangeOrderStatusHandler
	SetItemStatus       SetItemStatusHandler
	ClaimOrder          ClaimOrderHandler
	DeclineOrder        DeclineOrderHandler
	AdvanceDelivery     AdvanceDeliveryHandler
	ReportDeliveryIssue ReportDeliveryIssueHandler
	GenerateOTP         GenerateOTPHandler
	VerifyOTP           VerifyOTPHandler
	RegisterAgent       RegisterAgentHandler
	RegisterProduct     RegisterProductHandler
	ListAvailableOrders ListAvailableOrdersHandler
	GetOrder            GetOrderHandler
	GetAgent            GetAgentHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h       Handlers
	metrics *metrics.Metrics
	log     logger.Logger
}

func NewServer(handlers Handlers, m *metrics.Metrics, log logger.Logger) *Server {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{h: handlers, metrics: m, log: log.With(logger.String("component", "http"))}
}

// Register mounts the API, /health and /metrics on e. gatherer serves /metrics.
func (s *Server) Register(e *echo.Echo, gatherer prometheus.Gatherer) {
	e.HTTPErrorHandler = s.handleEchoError
	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	orders := e.Group("/orders")
	orders.POST("", s.CreateOrder)
	orders.GET("/available", s.ListAvailableOrders)
	orders.GET("/:id", s.GetOrder)
	orders.PATCH("/:id/status", s.ChangeOrderStatus)
	orders.PATCH("/:id/items/:itemId/status", s.SetItemStatus)
	orders.POST("/:id/claim", s.ClaimOrder)
	orders.POST("/:id/decline", s.DeclineOrder)
	orders.PATCH("/:id/delivery-status", s.AdvanceDelivery)
	orders.POST("/:id/issues", s.ReportDeliveryIssue)
	orders.POST("/:id/otp", s.GenerateOTP)
	orders.POST("/:id/otp/verify", s.VerifyOTP)

	e.POST("/agents", s.RegisterAgent)
	e.GET("/agents/:id", s.GetAgent)

	e.PUT("/products/:id", s.RegisterProduct)
}
