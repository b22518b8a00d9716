package market

import (
	"fmt"
	"testing"

	"github.com/shillmarket/broker/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMarketTestSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

type MarketTestSuite struct {
	suite.Suite
}

func (s *MarketTestSuite) TestStateConflictMessage() {
	err := NewStateConflictError("offer", "accept", string(model.OfferStatusAccepted))
	require.Equal(s.T(), "cannot accept offer in status: ACCEPTED", err.Error())
}

func (s *MarketTestSuite) TestIsStateConflict() {
	conflict := NewStateConflictError("order", "finalize", string(model.OrderStatusPaid))
	require.True(s.T(), IsStateConflict(conflict))

	// Survives wrapping
	require.True(s.T(), IsStateConflict(fmt.Errorf("verification: %w", conflict)))

	require.False(s.T(), IsStateConflict(ErrNotFound))
	require.False(s.T(), IsStateConflict(nil))
}

func (s *MarketTestSuite) TestAgentCapability() {
	requester := &model.Agent{ID: "agent-1", Role: model.RoleRequester}

	can := AgentCapability(requester)
	require.Nil(s.T(), can(model.RoleRequester))
	require.ErrorIs(s.T(), can(model.RoleFulfiller), ErrForbidden)

	require.ErrorIs(s.T(), AgentCapability(nil)(model.RoleRequester), ErrForbidden)
}

func (s *MarketTestSuite) TestTerminalStatuses() {
	for status, terminal := range map[model.OrderStatus]bool{
		model.OrderStatusAccepted:     false,
		model.OrderStatusEscrowFunded: false,
		model.OrderStatusPosted:       false,
		model.OrderStatusProcessing:   false,
		model.OrderStatusPaid:         true,
		model.OrderStatusFailed:       true,
	} {
		order := &model.Order{Status: status}
		require.Equal(s.T(), terminal, order.IsTerminal(), string(status))
	}
}
