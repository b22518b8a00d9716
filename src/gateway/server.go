package gateway

import (
	"context"
	"net/http"

	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/monitoring"
	"github.com/shillmarket/broker/src/utils/proofsource"
	"github.com/shillmarket/broker/src/utils/task"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server is the public REST API of the marketplace
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	db        *gorm.DB
	market    *market.Market
	monitor   monitoring.Monitor
	directory proofsource.Directory
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	gin.SetMode(gin.ReleaseMode)
	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:              self.Config.Api.ListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: self.Config.Api.RequestTimeout,
	}

	return
}

func (self *Server) WithDB(db *gorm.DB) *Server {
	self.db = db
	return self
}

func (self *Server) WithMarket(market *market.Market) *Server {
	self.market = market
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) WithDirectory(directory proofsource.Directory) *Server {
	self.directory = directory
	return self
}

func (self *Server) run() (err error) {
	v1 := self.Router.Group("v1")
	{
		v1.POST("agents", self.onCreateAgent)

		v1.POST("campaigns", self.withAgent(self.onCreateCampaign))
		v1.GET("campaigns", self.onListCampaigns)
		v1.GET("campaigns/:id", self.onGetCampaign)
		v1.POST("campaigns/:id/offers", self.withAgent(self.onCreateOffer))
		v1.GET("campaigns/:id/offers", self.withAgent(self.onListOffers))

		v1.POST("offers/:id/accept", self.withAgent(self.onAcceptOffer))
		v1.POST("offers/:id/reject", self.withAgent(self.onRejectOffer))

		v1.GET("orders", self.withAgent(self.onListOrders))
		v1.GET("orders/:id", self.withAgent(self.onGetOrder))
		v1.POST("orders/:id/proof", self.withAgent(self.onSubmitProof))
		v1.POST("orders/:id/escrow-funded", self.withAgent(self.onMarkEscrowFunded))
	}

	self.Log.WithField("addr", self.httpServer.Addr).Info("Starting gateway")
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start gateway")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown gateway")
		return
	}
}
