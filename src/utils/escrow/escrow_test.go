package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestEscrowTestSuite(t *testing.T) {
	suite.Run(t, new(EscrowTestSuite))
}

type EscrowTestSuite struct {
	suite.Suite
}

func (s *EscrowTestSuite) TestDeriveHandleDeterministic() {
	a := DeriveHandle(1)
	b := DeriveHandle(1)
	require.Equal(s.T(), a, b)

	// Hex encoded sha256
	require.Len(s.T(), a, 64)
}

func (s *EscrowTestSuite) TestDeriveHandleDistinct() {
	seen := make(map[string]bool)
	for seq := int64(1); seq <= 1000; seq++ {
		handle := DeriveHandle(seq)
		require.False(s.T(), seen[handle])
		seen[handle] = true
	}
}

func (s *EscrowTestSuite) TestSplit() {
	payout, fee := Split(500_000, 300)
	require.Equal(s.T(), int64(15_000), fee)
	require.Equal(s.T(), int64(485_000), payout)
}

func (s *EscrowTestSuite) TestFeeRoundsDown() {
	// 999 * 25 / 10000 = 2.4975
	require.Equal(s.T(), int64(2), Fee(999, 25))
	require.Equal(s.T(), int64(997), 999-Fee(999, 25))
}

func (s *EscrowTestSuite) TestFeeEdges() {
	require.Equal(s.T(), int64(0), Fee(0, 300))
	require.Equal(s.T(), int64(0), Fee(100, 0))

	// 100% fee leaves no payout
	payout, fee := Split(1234, 10_000)
	require.Equal(s.T(), int64(1234), fee)
	require.Equal(s.T(), int64(0), payout)
}
