package market

import (
	"github.com/shillmarket/broker/src/utils/model"
)

// Capability tells whether the acting agent holds the given role.
// Role issuance is an orthogonal concern, the state machine only asks
// the predicate and never looks at role literals itself.
type Capability func(role model.Role) error

// AgentCapability builds the predicate for an authenticated agent
func AgentCapability(agent *model.Agent) Capability {
	return func(role model.Role) error {
		if agent == nil || agent.Role != role {
			return ErrForbidden
		}
		return nil
	}
}
