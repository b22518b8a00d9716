package gateway

import (
	"errors"
	"net/http"

	"github.com/shillmarket/broker/src/utils/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HeaderAgentId carries the caller's identity. Authentication proper
// happens upstream, by the time a request gets here the header is
// trusted.
const HeaderAgentId = "X-Agent-Id"

type agentHandler func(c *gin.Context, agent *model.Agent)

// withAgent resolves the acting agent or rejects the request
func (self *Server) withAgent(handler agentHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		agentId := c.GetHeader(HeaderAgentId)
		if agentId == "" {
			c.JSON(http.StatusUnauthorized, ErrorBody("missing "+HeaderAgentId+" header"))
			return
		}

		var agent model.Agent
		err := self.db.WithContext(c.Request.Context()).
			First(&agent, "id = ?", agentId).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorBody("unknown agent"))
			return
		}
		if err != nil {
			self.Log.WithError(err).Error("Failed to resolve agent")
			c.JSON(http.StatusInternalServerError, ErrorBody("internal error"))
			return
		}

		handler(c, &agent)
	}
}
