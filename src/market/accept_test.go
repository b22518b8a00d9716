package market

import (
	"context"
	"sync"
	"testing"

	"github.com/shillmarket/broker/src/dispatch"
	"github.com/shillmarket/broker/src/utils/common"
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/model"
	monitor_broker "github.com/shillmarket/broker/src/utils/monitoring/broker"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func TestAcceptTestSuite(t *testing.T) {
	suite.Run(t, new(AcceptTestSuite))
}

type AcceptTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
	db     *gorm.DB
	market *Market
}

func (s *AcceptTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()
	s.ctx = common.SetConfig(s.ctx, s.config)

	db, err := model.NewConnection(s.ctx, s.config, "test")
	require.Nil(s.T(), err)
	s.db = db

	monitor := monitor_broker.NewMonitor()
	scheduler := dispatch.NewScheduler(s.config).
		WithDB(db).
		WithMonitor(monitor)
	s.market = NewMarket(s.config).
		WithDB(db).
		WithMonitor(monitor).
		WithScheduler(scheduler)
}

func (s *AcceptTestSuite) TearDownSuite() {
	s.cancel()
}

func (s *AcceptTestSuite) createAgent(role model.Role) *model.Agent {
	agent := &model.Agent{
		ID:     xid.New().String(),
		Role:   role,
		Handle: "agent-" + xid.New().String(),
	}
	require.Nil(s.T(), s.db.Create(agent).Error)
	return agent
}

func (s *AcceptTestSuite) createCampaign(requester *model.Agent, quantity int) *model.Campaign {
	campaign := &model.Campaign{
		ID:          xid.New().String(),
		RequesterId: requester.ID,
		Brief:       "promote the launch",
		MaxPrice:    1_000_000,
		Quantity:    quantity,
		Status:      model.CampaignStatusActive,
	}
	require.Nil(s.T(), s.db.Create(campaign).Error)
	return campaign
}

func (s *AcceptTestSuite) createOffer(campaign *model.Campaign, fulfiller *model.Agent, price int64) *model.Offer {
	offer := &model.Offer{
		ID:          xid.New().String(),
		CampaignId:  campaign.ID,
		FulfillerId: fulfiller.ID,
		DraftText:   "the draft",
		Price:       price,
		Status:      model.OfferStatusPending,
	}
	require.Nil(s.T(), s.db.Create(offer).Error)
	return offer
}

func (s *AcceptTestSuite) TestConcurrentAcceptsGetDistinctSequences() {
	numOffers := 8
	requester := s.createAgent(model.RoleRequester)
	campaign := s.createCampaign(requester, numOffers)

	offers := make([]*model.Offer, numOffers)
	for i := range offers {
		offers[i] = s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 500_000)
	}

	type outcome struct {
		order *model.Order
		err   error
	}
	results := make(chan outcome, numOffers)

	var wg sync.WaitGroup
	for _, offer := range offers {
		wg.Add(1)
		go func(offerId string) {
			defer wg.Done()
			order, err := s.market.AcceptOffer(s.ctx, offerId, requester.ID, AgentCapability(requester))
			results <- outcome{order, err}
		}(offer.ID)
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	var lo, hi int64
	for out := range results {
		require.Nil(s.T(), out.err)
		require.False(s.T(), seen[out.order.SequenceNo], "duplicate sequence number %d", out.order.SequenceNo)
		seen[out.order.SequenceNo] = true
		if lo == 0 || out.order.SequenceNo < lo {
			lo = out.order.SequenceNo
		}
		if out.order.SequenceNo > hi {
			hi = out.order.SequenceNo
		}
	}
	require.Len(s.T(), seen, numOffers)

	// Aborted acceptances roll the counter increment back, so the claimed
	// range is contiguous and fully covered by order rows
	require.Equal(s.T(), int64(numOffers), hi-lo+1)
	var count int64
	err := s.db.Model(&model.Order{}).
		Where("sequence_no BETWEEN ? AND ?", lo, hi).
		Count(&count).
		Error
	require.Nil(s.T(), err)
	require.Equal(s.T(), int64(numOffers), count)

	var reloaded model.Campaign
	require.Nil(s.T(), s.db.First(&reloaded, "id = ?", campaign.ID).Error)
	require.Equal(s.T(), numOffers, reloaded.Filled)
	require.Equal(s.T(), model.CampaignStatusCompleted, reloaded.Status)
}

func (s *AcceptTestSuite) TestDoubleAcceptConflicts() {
	requester := s.createAgent(model.RoleRequester)
	campaign := s.createCampaign(requester, 2)
	offer := s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 100_000)

	order, err := s.market.AcceptOffer(s.ctx, offer.ID, requester.ID, AgentCapability(requester))
	require.Nil(s.T(), err)
	require.NotNil(s.T(), order)

	_, err = s.market.AcceptOffer(s.ctx, offer.ID, requester.ID, AgentCapability(requester))
	require.True(s.T(), IsStateConflict(err))
	require.Equal(s.T(), "cannot accept offer in status: ACCEPTED", err.Error())
}

func (s *AcceptTestSuite) TestAcceptBeyondQuantityFails() {
	requester := s.createAgent(model.RoleRequester)
	campaign := s.createCampaign(requester, 1)
	first := s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 100_000)
	second := s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 100_000)

	_, err := s.market.AcceptOffer(s.ctx, first.ID, requester.ID, AgentCapability(requester))
	require.Nil(s.T(), err)

	// The first acceptance filled and completed the campaign
	_, err = s.market.AcceptOffer(s.ctx, second.ID, requester.ID, AgentCapability(requester))
	require.True(s.T(), IsStateConflict(err))
}

func (s *AcceptTestSuite) TestFullActiveCampaignRejectsAccept() {
	requester := s.createAgent(model.RoleRequester)
	campaign := s.createCampaign(requester, 1)
	offer := s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 100_000)

	// Filled caught up with quantity but the status flip hasn't happened
	require.Nil(s.T(), s.db.Model(campaign).Update("filled", 1).Error)

	_, err := s.market.AcceptOffer(s.ctx, offer.ID, requester.ID, AgentCapability(requester))
	require.ErrorIs(s.T(), err, ErrCampaignFilled)
}

func (s *AcceptTestSuite) TestAcceptByNonOwnerForbidden() {
	requester := s.createAgent(model.RoleRequester)
	intruder := s.createAgent(model.RoleRequester)
	campaign := s.createCampaign(requester, 1)
	offer := s.createOffer(campaign, s.createAgent(model.RoleFulfiller), 100_000)

	_, err := s.market.AcceptOffer(s.ctx, offer.ID, intruder.ID, AgentCapability(intruder))
	require.ErrorIs(s.T(), err, ErrForbidden)

	var reloaded model.Offer
	require.Nil(s.T(), s.db.First(&reloaded, "id = ?", offer.ID).Error)
	require.Equal(s.T(), model.OfferStatusPending, reloaded.Status)
}
