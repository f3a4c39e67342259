package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReportDeliveryIssueCommandIsNotConstructed = errors.New(
	"ReportDeliveryIssueCommand must be created via NewReportDeliveryIssueCommand constructor",
)

// ReportDeliveryIssueCommand annotates the order with a problem met on the road.
type ReportDeliveryIssueCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	driver  kernel.Actor
	note    string

	guard guard.ConstructorGuard
}

func NewReportDeliveryIssueCommand(orderID kernel.UUID, driver kernel.Actor, note string) (ReportDeliveryIssueCommand, error) {
	note = strings.TrimSpace(note)
	var noteErr error
	if note == "" {
		noteErr = errs.NewValueIsRequiredError("note")
	}
	if err := errors.Join(orderID.Validate(), driver.Validate(), noteErr); err != nil {
		return ReportDeliveryIssueCommand{}, err
	}

	return ReportDeliveryIssueCommand{
		orderID: orderID,
		driver:  driver,
		note:    note,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ReportDeliveryIssueCommand) Validate() error {
	return c.guard.Validate(ErrReportDeliveryIssueCommandIsNotConstructed)
}

func (c ReportDeliveryIssueCommand) OrderID() kernel.UUID { return c.orderID }
func (c ReportDeliveryIssueCommand) Driver() kernel.Actor { return c.driver }
func (c ReportDeliveryIssueCommand) Note() string         { return c.note }
