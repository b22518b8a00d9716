package gateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shillmarket/broker/src/utils/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

type CreateCampaignRequest struct {
	Brief          string   `json:"brief" binding:"required"`
	RequiredLinks  []string `json:"requiredLinks"`
	DisclosureText string   `json:"disclosureText"`
	MaxPrice       string   `json:"maxPrice" binding:"required"`
	Quantity       int      `json:"quantity" binding:"required,gt=0"`
}

func (self *Server) onCreateCampaign(c *gin.Context, agent *model.Agent) {
	if agent.Role != model.RoleRequester {
		c.JSON(http.StatusForbidden, ErrorBody("only requesters create campaigns"))
		return
	}

	var in CreateCampaignRequest
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody(err.Error()))
		return
	}

	maxPrice, err := strconv.ParseInt(in.MaxPrice, 10, 64)
	if err != nil || maxPrice <= 0 {
		c.JSON(http.StatusBadRequest, ErrorBody("maxPrice must be a positive integer string"))
		return
	}

	campaign := &model.Campaign{
		ID:             xid.New().String(),
		RequesterId:    agent.ID,
		Brief:          in.Brief,
		RequiredLinks:  in.RequiredLinks,
		DisclosureText: in.DisclosureText,
		MaxPrice:       maxPrice,
		Quantity:       in.Quantity,
		Status:         model.CampaignStatusActive,
	}
	err = self.db.WithContext(c.Request.Context()).Create(campaign).Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCampaignResponse(campaign))
}

func (self *Server) onListCampaigns(c *gin.Context) {
	query := self.db.WithContext(c.Request.Context()).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var campaigns []model.Campaign
	err := query.Find(&campaigns).Error
	if err != nil {
		self.respondError(c, err)
		return
	}

	out := make([]*CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, NewCampaignResponse(&campaigns[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (self *Server) onGetCampaign(c *gin.Context) {
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
	c.JSON(http.StatusOK, NewCampaignResponse(&campaign))
}
