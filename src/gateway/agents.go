package gateway

import (
	"context"
	"net/http"

	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/proofsource"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

type CreateAgentRequest struct {
	Role             string `json:"role" binding:"required,oneof=REQUESTER FULFILLER"`
	Handle           string `json:"handle" binding:"required"`
	VerifiedAuthorId string `json:"verifiedAuthorId"`
}

// resolveAuthorId looks the handle up on the proof platform unless the
// author id came with the request
func resolveAuthorId(ctx context.Context, directory proofsource.Directory, handle, provided string) (out string, err error) {
	if provided != "" {
		return provided, nil
	}

	author, err := directory.GetAuthor(ctx, handle)
	if err != nil {
		return
	}
	return author.Id, nil
}

func (self *Server) onCreateAgent(c *gin.Context) {
	var in CreateAgentRequest
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
		return
	}

	authorId, err := resolveAuthorId(c.Request.Context(), self.directory, in.Handle, in.VerifiedAuthorId)
	if err != nil {
		self.Log.WithError(err).WithField("handle", in.Handle).Error("Failed to resolve author")
		c.JSON(http.StatusBadGateway, ErrorBody("author lookup failed"))
		return
	}

	agent := &model.Agent{
		ID:               xid.New().String(),
		Role:             model.Role(in.Role),
		Handle:           in.Handle,
		VerifiedAuthorId: authorId,
	}
	err = self.db.WithContext(c.Request.Context()).Create(agent).Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     agent.ID,
		"role":   string(agent.Role),
		"handle": agent.Handle,
	})
}
