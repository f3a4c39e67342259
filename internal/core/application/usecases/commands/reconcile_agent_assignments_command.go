package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReconcileAgentAssignmentsCommandIsNotConstructed = errors.New(
	"ReconcileAgentAssignmentsCommand must be created via NewReconcileAgentAssignmentsCommand constructor",
)

// ReconcileAgentAssignmentsCommand brings agent records in line with the orders they drive.
type ReconcileAgentAssignmentsCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcileAgentAssignmentsCommand() ReconcileAgentAssignmentsCommand {
	return ReconcileAgentAssignmentsCommand{guard: guard.NewConstructorGuard()}
}

func (c ReconcileAgentAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileAgentAssignmentsCommandIsNotConstructed)
}
