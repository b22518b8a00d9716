package gateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

type CreateOfferRequest struct {
	DraftText string `json:"draftText" binding:"required"`
	Price     string `json:"price" binding:"required"`
}

func (self *Server) onCreateOffer(c *gin.Context, agent *model.Agent) {
	if agent.Role != model.RoleFulfiller {
		c.JSON(http.StatusForbidden, ErrorBody("only fulfillers submit offers"))
		return
	}

	var in CreateOfferRequest
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
		return
	}

	price, err := strconv.ParseInt(in.Price, 10, 64)
	if err != nil || price <= 0 {
		c.JSON(http.StatusBadRequest, ErrorBody("price must be a positive integer string"))
		return
	}

	var campaign model.Campaign
	err = self.db.WithContext(c.Request.Context()).
		First(&campaign, "id = ?", c.Param("id")).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorBody("not found"))
		return
	}
	if err != nil {
		self.respondError(c, err)
		return
	}

	if campaign.Status != model.CampaignStatusActive {
		c.JSON(http.StatusConflict, ErrorBody("campaign is not active"))
		return
	}
	if price > campaign.MaxPrice {
		c.JSON(http.StatusBadRequest, ErrorBody("price exceeds campaign maxPrice"))
		return
	}

	offer := &model.Offer{
		ID:          xid.New().String(),
		CampaignId:  campaign.ID,
		FulfillerId: agent.ID,
		DraftText:   in.DraftText,
		Price:       price,
		Status:      model.OfferStatusPending,
	}
	err = self.db.WithContext(c.Request.Context()).Create(offer).Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewOfferResponse(offer))
}

func (self *Server) onListOffers(c *gin.Context, agent *model.Agent) {
	var campaign model.Campaign
	err := self.db.WithContext(c.Request.Context()).
		First(&campaign, "id = ?", c.Param("id")).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorBody("not found"))
		return
	}
	if err != nil {
		self.respondError(c, err)
		return
	}

	// Requester sees every offer, a fulfiller only its own
	query := self.db.WithContext(c.Request.Context()).
		Where("campaign_id = ?", campaign.ID).
		Order("created_at ASC")
	if campaign.RequesterId != agent.ID {
		query = query.Where("fulfiller_id = ?", agent.ID)
	}

	var offers []model.Offer
	err = query.Find(&offers).Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	out := make([]*OfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, NewOfferResponse(&offers[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (self *Server) onAcceptOffer(c *gin.Context, agent *model.Agent) {
	order, err := self.market.AcceptOffer(c.Request.Context(), c.Param("id"), agent.ID, market.AgentCapability(agent))
	if err != nil {
		self.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrderResponse(order))
}

type RejectOfferRequest struct {
	Feedback string `json:"feedback"`
}

func (self *Server) onRejectOffer(c *gin.Context, agent *model.Agent) {
	var in RejectOfferRequest
	if c.Request.ContentLength > 0 {
		err := c.ShouldBindJSON(&in)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
			return
		}
	}

	err := self.market.RejectOffer(c.Request.Context(), c.Param("id"), agent.ID, in.Feedback, market.AgentCapability(agent))
	if err != nil {
		self.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
