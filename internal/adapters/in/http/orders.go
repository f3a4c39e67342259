package http

import (
	"errors"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body NewOrder
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		productID, parseErr := kernel.UUIDFromString(item.ProductID)
		if parseErr != nil {
			return s.fail(c, errs.NewValueIsInvalidErrorWithCause("productId", parseErr))
		}
		lines = append(lines, commands.OrderLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
		})
	}

	deliveryType, typeErr := order.ParseDeliveryType(strings.ToUpper(strings.TrimSpace(body.DeliveryType)))
	method, methodErr := order.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(body.PaymentMethod)))
	if err = errors.Join(typeErr, methodErr); err != nil {
		return s.fail(c, err)
	}
	info, err := order.NewDeliveryInfo(deliveryType, body.ContactName, body.ContactPhone, body.Address, body.Station)
	if err != nil {
		return s.fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, actor, lines, info,
		commands.Charges{Tax: body.Tax, Delivery: body.DeliveryFee, Discount: body.Discount},
		method, body.PaymentStatus)
	if err != nil {
		return s.fail(c, err)
	}

	number, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedOrder{ID: orderID.String(), Number: number})
}

// ChangeOrderStatus handles PATCH /orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body StatusChange
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actor, body.Status, body.Note)
	if err != nil {
		return s.fail(c, err)
	}
	status, err := s.h.ChangeOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, StatusChanged{Status: status.String()})
}

// SetItemStatus handles PATCH /orders/:id/items/:itemId/status.
func (s *Server) SetItemStatus(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return s.fail(c, err)
	}
	var body StatusChange
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewSetItemStatusCommand(orderID, itemID, actor, body.Status, body.Note)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.SetItemStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ItemStatusChanged{
		Status:      result.Status.String(),
		Fulfillment: result.Fulfillment.String(),
	})
}

// ListAvailableOrders handles GET /orders/available?limit=N.
func (s *Server) ListAvailableOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var limit int
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = cast.ToIntE(raw); err != nil {
			return s.fail(c, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
	}

	query, err := queries.NewListAvailableOrdersQuery(actor, limit)
	if err != nil {
		return s.fail(c, err)
	}
	list, err := s.h.ListAvailableOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, availableOrdersOf(list))
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, orderDetailsOf(view))
}

// ClaimOrder handles POST /orders/:id/claim. A 409 means another agent was faster.
func (s *Server) ClaimOrder(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewClaimOrderCommand(orderID, actor)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.ClaimOrder.Handle(c.Request().Context(), cmd)
	switch {
	case err == nil:
		s.metrics.ClaimsTotal.WithLabelValues(metrics.ClaimWon).Inc()
	case errors.Is(err, errs.ErrConflict):
		s.metrics.ClaimsTotal.WithLabelValues(metrics.ClaimConflict).Inc()
		return s.fail(c, err)
	default:
		s.metrics.ClaimsTotal.WithLabelValues(metrics.ClaimRejected).Inc()
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, Claimed{
		Order:                 summaryOf(result.Order),
		EstimatedDeliveryTime: result.EstimatedDeliveryTime,
	})
}

// DeclineOrder handles POST /orders/:id/decline.
func (s *Server) DeclineOrder(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body Reason
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewDeclineOrderCommand(orderID, actor, body.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.DeclineOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdvanceDelivery handles PATCH /orders/:id/delivery-status.
func (s *Server) AdvanceDelivery(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body DeliveryStatusChange
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}
	var proof ProofInput
	if body.Proof != nil {
		proof = *body.Proof
	}

	cmd, err := commands.NewAdvanceDeliveryCommand(orderID, actor, body.Status, body.Station, proof.Kind, proof.Reference)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.AdvanceDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	if result.Status == order.Delivered && result.Credited {
		s.metrics.DeliveriesTotal.WithLabelValues(string(cmd.Proof().Kind())).Inc()
	}

	return c.JSON(http.StatusOK, DeliveryStatus{
		Status:     result.Status.String(),
		Stage:      result.Stage.String(),
		Timestamps: result.Timestamps,
		Credited:   result.Credited,
	})
}

// ReportDeliveryIssue handles POST /orders/:id/issues.
func (s *Server) ReportDeliveryIssue(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body Reason
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewReportDeliveryIssueCommand(orderID, actor, body.Note)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.ReportDeliveryIssue.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateOTP handles POST /orders/:id/otp. The plaintext code is returned exactly once.
func (s *Server) GenerateOTP(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewGenerateOTPCommand(orderID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.GenerateOTP.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.metrics.OTPTotal.WithLabelValues(metrics.OTPGenerated).Inc()

	return c.JSON(http.StatusOK, OTPIssued{OTP: result.Code, ExpiresInSeconds: result.ExpiresInSeconds})
}

// VerifyOTP handles POST /orders/:id/otp/verify.
func (s *Server) VerifyOTP(c echo.Context) error {
	actor, orderID, err := s.actorAndOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body OTPInput
	if err = c.Bind(&body); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewVerifyOTPCommand(orderID, actor, body.OTP)
	if err != nil {
		return s.fail(c, err)
	}
	err = s.h.VerifyOTP.Handle(c.Request().Context(), cmd)
	switch {
	case err == nil:
		s.metrics.OTPTotal.WithLabelValues(metrics.OTPVerified).Inc()
	case errors.Is(err, errs.ErrExpired):
		s.metrics.OTPTotal.WithLabelValues(metrics.OTPExpired).Inc()
		return s.fail(c, err)
	case errors.Is(err, errs.ErrMismatch):
		s.metrics.OTPTotal.WithLabelValues(metrics.OTPMismatch).Inc()
		return s.fail(c, err)
	default:
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) actorAndOrder(c echo.Context) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	return actor, orderID, nil
}
