package gateway

import (
	"errors"
	"net/http"

	"github.com/shillmarket/broker/src/market"

	"github.com/gin-gonic/gin"
)

// respondError maps state machine errors to HTTP statuses
func (self *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, market.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorBody("not found"))
	case errors.Is(err, market.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorBody("forbidden"))
	case errors.Is(err, market.ErrCampaignFilled):
		c.JSON(http.StatusConflict, ErrorBody(err.Error()))
	case market.IsStateConflict(err):
		// Acting on an entity in the wrong status is the caller's
		// mistake, the message names the current status
		c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
	default:
		self.Log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorBody("internal error"))
	}
}
