package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/shillmarket/broker/src/utils/proofsource"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestAgentsTestSuite(t *testing.T) {
	suite.Run(t, new(AgentsTestSuite))
}

type AgentsTestSuite struct {
	suite.Suite
}

type fakeDirectory struct {
	author *proofsource.Author
	err    error
	calls  int
}

func (self *fakeDirectory) GetAuthor(ctx context.Context, handle string) (*proofsource.Author, error) {
	self.calls++
	return self.author, self.err
}

func (s *AgentsTestSuite) TestProvidedAuthorIdSkipsLookup() {
	directory := &fakeDirectory{}

	out, err := resolveAuthorId(context.Background(), directory, "alice", "author-1")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "author-1", out)
	require.Zero(s.T(), directory.calls)
}

func (s *AgentsTestSuite) TestHandleResolvedThroughDirectory() {
	directory := &fakeDirectory{author: &proofsource.Author{Id: "author-7", Handle: "alice"}}

	out, err := resolveAuthorId(context.Background(), directory, "alice", "")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "author-7", out)
	require.Equal(s.T(), 1, directory.calls)
}

func (s *AgentsTestSuite) TestLookupErrorPropagates() {
	directory := &fakeDirectory{err: errors.New("rate limited")}

	_, err := resolveAuthorId(context.Background(), directory, "alice", "")
	require.NotNil(s.T(), err)
}
