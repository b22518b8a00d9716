package gateway

import (
	"errors"
	"net/http"

	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (self *Server) onListOrders(c *gin.Context, agent *model.Agent) {
	var orders []model.Order
	err := self.db.WithContext(c.Request.Context()).
		Where("requester_id = ? OR fulfiller_id = ?", agent.ID, agent.ID).
		Order("created_at DESC").
		Find(&orders).
		Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	out := make([]*OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (self *Server) onGetOrder(c *gin.Context, agent *model.Agent) {
	var order model.Order
	err := self.db.WithContext(c.Request.Context()).
		First(&order, "id = ?", c.Param("id")).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorBody("not found"))
		return
	}
	if err != nil {
		self.respondError(c, err)
		return
	}

	// Orders are visible to their two parties only
	if order.RequesterId != agent.ID && order.FulfillerId != agent.ID {
		c.JSON(http.StatusForbidden, ErrorBody("forbidden"))
		return
	}

	c.JSON(http.StatusOK, NewOrderResponse(&order))
}

type SubmitProofRequest struct {
	PostId  string `json:"postId" binding:"required"`
	PostUrl string `json:"postUrl" binding:"required,url"`
}

func (self *Server) onSubmitProof(c *gin.Context, agent *model.Agent) {
	var in SubmitProofRequest
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
		return
	}

	order, err := self.market.SubmitProof(c.Request.Context(), c.Param("id"), agent.ID, in.PostId, in.PostUrl, market.AgentCapability(agent))
	if err != nil {
		self.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponse(order))
}

func (self *Server) onMarkEscrowFunded(c *gin.Context, agent *model.Agent) {
	err := self.market.MarkEscrowFunded(c.Request.Context(), c.Param("id"), agent.ID, market.AgentCapability(agent))
	if err != nil {
		self.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
