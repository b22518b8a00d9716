package verify

import (
	"testing"

	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/proofsource"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPolicyTestSuite(t *testing.T) {
	suite.Run(t, new(PolicyTestSuite))
}

type PolicyTestSuite struct {
	suite.Suite
	campaign  *model.Campaign
	fulfiller *model.Agent
}

func (s *PolicyTestSuite) SetupTest() {
	s.campaign = &model.Campaign{
		ID:             "campaign-1",
		RequiredLinks:  []string{"https://example.com/product", "https://example.com/promo"},
		DisclosureText: "#ad",
	}
	s.fulfiller = &model.Agent{
		ID:               "agent-1",
		Role:             model.RoleFulfiller,
		VerifiedAuthorId: "author-1",
	}
}

func (s *PolicyTestSuite) post() *proofsource.Post {
	return &proofsource.Post{
		Id:       "post-1",
		AuthorId: "author-1",
		Text:     "Check this out https://example.com/product and https://example.com/promo #ad",
	}
}

func (s *PolicyTestSuite) TestPass() {
	result := Evaluate(s.campaign, s.fulfiller, s.post())

	require.True(s.T(), result.Passed)
	require.Empty(s.T(), result.Reason)
	require.True(s.T(), result.Checks.PostExists)
	require.True(s.T(), result.Checks.AuthorMatch)
	require.True(s.T(), result.Checks.LinksPresent)
	require.True(s.T(), result.Checks.DisclosurePresent)
}

func (s *PolicyTestSuite) TestPostNotFound() {
	result := Evaluate(s.campaign, s.fulfiller, nil)

	require.False(s.T(), result.Passed)
	require.Equal(s.T(), ReasonPostNotFound, result.Reason)
	require.False(s.T(), result.Checks.PostExists)
}

func (s *PolicyTestSuite) TestAuthorMismatch() {
	post := s.post()
	post.AuthorId = "somebody-else"

	result := Evaluate(s.campaign, s.fulfiller, post)

	require.False(s.T(), result.Passed)
	require.Equal(s.T(), ReasonAuthorMismatch, result.Reason)
	require.False(s.T(), result.Checks.AuthorMatch)

	// Evaluation stopped at the failing check
	require.False(s.T(), result.Checks.LinksPresent)
	require.False(s.T(), result.Checks.DisclosurePresent)
}

func (s *PolicyTestSuite) TestUnverifiedAuthorNeverMatches() {
	s.fulfiller.VerifiedAuthorId = ""

	result := Evaluate(s.campaign, s.fulfiller, s.post())

	require.False(s.T(), result.Passed)
	require.Equal(s.T(), ReasonAuthorMismatch, result.Reason)
}

func (s *PolicyTestSuite) TestMissingLink() {
	post := s.post()
	post.Text = "Check this out https://example.com/product #ad"

	result := Evaluate(s.campaign, s.fulfiller, post)

	require.False(s.T(), result.Passed)
	require.Equal(s.T(), ReasonMissingLinks, result.Reason)
	require.False(s.T(), result.Checks.LinksPresent)
	require.True(s.T(), result.Checks.AuthorMatch)
	require.False(s.T(), result.Checks.DisclosurePresent)
}

func (s *PolicyTestSuite) TestMissingDisclosure() {
	post := s.post()
	post.Text = "Check this out https://example.com/product and https://example.com/promo"

	result := Evaluate(s.campaign, s.fulfiller, post)

	require.False(s.T(), result.Passed)
	require.Equal(s.T(), ReasonMissingDisclosure, result.Reason)
	require.False(s.T(), result.Checks.DisclosurePresent)
	require.True(s.T(), result.Checks.LinksPresent)
}

func (s *PolicyTestSuite) TestEmptyDisclosureNotRequired() {
	s.campaign.DisclosureText = ""
	post := s.post()
	post.Text = "https://example.com/product https://example.com/promo"

	result := Evaluate(s.campaign, s.fulfiller, post)

	require.True(s.T(), result.Passed)
	require.True(s.T(), result.Checks.DisclosurePresent)
}

func (s *PolicyTestSuite) TestNoRequiredLinks() {
	s.campaign.RequiredLinks = nil

	result := Evaluate(s.campaign, s.fulfiller, s.post())

	require.True(s.T(), result.Passed)
	require.True(s.T(), result.Checks.LinksPresent)
}

func (s *PolicyTestSuite) TestFirstFailingCheckWins() {
	post := s.post()
	post.AuthorId = "somebody-else"
	post.Text = "nothing relevant"

	result := Evaluate(s.campaign, s.fulfiller, post)

	require.Equal(s.T(), ReasonAuthorMismatch, result.Reason)
	require.False(s.T(), result.Checks.AuthorMatch)
	require.False(s.T(), result.Checks.LinksPresent)
	require.False(s.T(), result.Checks.DisclosurePresent)
}
