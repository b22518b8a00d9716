package market

import (
	"time"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/logger"
	"github.com/shillmarket/broker/src/utils/monitoring"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Scheduler enqueues a delayed job. Passing the transaction handle in
// lets callers commit the job atomically with their own writes, so a
// job can never reference state that didn't get committed.
type Scheduler interface {
	Schedule(tx *gorm.DB, kind string, payload interface{}, delay time.Duration) error
}

// Market implements the order state machine. All transitions are
// guarded conditional writes, concurrent callers race on the database
// row and exactly one wins.
type Market struct {
	config *config.Config
	log    *logrus.Entry

	db        *gorm.DB
	monitor   monitoring.Monitor
	scheduler Scheduler
}

func NewMarket(config *config.Config) (self *Market) {
	self = new(Market)
	self.config = config
	self.log = logger.NewSublogger("market")
	return
}

func (self *Market) WithDB(db *gorm.DB) *Market {
	self.db = db
	return self
}

func (self *Market) WithMonitor(monitor monitoring.Monitor) *Market {
	self.monitor = monitor
	return self
}

func (self *Market) WithScheduler(scheduler Scheduler) *Market {
	self.scheduler = scheduler
	return self
}
