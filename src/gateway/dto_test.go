package gateway

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shillmarket/broker/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestDtoTestSuite(t *testing.T) {
	suite.Run(t, new(DtoTestSuite))
}

type DtoTestSuite struct {
	suite.Suite
}

func (s *DtoTestSuite) TestOrderAmountsAreStrings() {
	// Larger than 2^53, would corrupt as a JSON number
	order := &model.Order{
		ID:         "order-1",
		SequenceNo: 9007199254740993,
		Amount:     9007199254740995,
		FeeBps:     300,
		Status:     model.OrderStatusAccepted,
	}

	out := NewOrderResponse(order)
	require.Equal(s.T(), "9007199254740993", out.SequenceNo)
	require.Equal(s.T(), "9007199254740995", out.Amount)
}

func (s *DtoTestSuite) TestOrderOptionalTimes() {
	order := &model.Order{ID: "order-1", Status: model.OrderStatusAccepted}
	out := NewOrderResponse(order)
	require.Nil(s.T(), out.PostedAt)
	require.Nil(s.T(), out.VerifyAt)
	require.Nil(s.T(), out.VerifiedAt)

	now := time.Now()
	order.PostedAt = sql.NullTime{Time: now, Valid: true}
	order.VerifyAt = sql.NullTime{Time: now.Add(5 * time.Minute), Valid: true}
	out = NewOrderResponse(order)
	require.Equal(s.T(), now, *out.PostedAt)
	require.Equal(s.T(), now.Add(5*time.Minute), *out.VerifyAt)
}

func (s *DtoTestSuite) TestOfferFeedback() {
	offer := &model.Offer{ID: "offer-1", Price: 1000, Status: model.OfferStatusRejected}
	require.Empty(s.T(), NewOfferResponse(offer).Feedback)

	offer.Feedback = sql.NullString{String: "tone is off", Valid: true}
	require.Equal(s.T(), "tone is off", NewOfferResponse(offer).Feedback)
	require.Equal(s.T(), "1000", NewOfferResponse(offer).Price)
}

func (s *DtoTestSuite) TestCampaignMaxPrice() {
	campaign := &model.Campaign{
		ID:       "campaign-1",
		MaxPrice: 500_000,
		Status:   model.CampaignStatusActive,
	}
	out := NewCampaignResponse(campaign)
	require.Equal(s.T(), "500000", out.MaxPrice)
	require.Equal(s.T(), "ACTIVE", out.Status)
}
