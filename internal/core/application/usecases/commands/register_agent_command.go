package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand creates the delivery profile of an agent account.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID
	name    string

	guard guard.ConstructorGuard
}

func NewRegisterAgentCommand(agentID kernel.UUID, name string) (RegisterAgentCommand, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(agentID.Validate(), nameErr); err != nil {
		return RegisterAgentCommand{}, err
	}

	return RegisterAgentCommand{agentID: agentID, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

func (c RegisterAgentCommand) AgentID() kernel.UUID { return c.agentID }
func (c RegisterAgentCommand) Name() string         { return c.name }
