package dispatch

import (
	"time"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/monitoring"
	"github.com/shillmarket/broker/src/utils/task"

	"gorm.io/gorm"
)

// Poller claims due jobs and streams them to the processor.
// SKIP LOCKED keeps concurrent broker instances from claiming the same
// job, stale PROCESSING rows get reclaimed after the visibility
// timeout so a crashed claimer can't strand work forever.
type Poller struct {
	*task.Task

	db      *gorm.DB
	monitor monitoring.Monitor

	// Claimed jobs go out here
	Output chan *model.ScheduledJob
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)

	self.Output = make(chan *model.ScheduledJob, config.Dispatcher.MaxJobsPerRun)

	self.Task = task.NewTask(config, "dispatch-poller").
		WithRepeatedSubtaskFunc(config.Dispatcher.PollerInterval, self.handleNew).
		WithPeriodicSubtaskFunc(config.Dispatcher.ReclaimInterval, self.handleStale).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Poller) WithDB(db *gorm.DB) *Poller {
	self.db = db
	return self
}

func (self *Poller) WithMonitor(monitor monitoring.Monitor) *Poller {
	self.monitor = monitor
	return self
}

func (self *Poller) handleNew() (repeat bool, err error) {
	if self.IsStopping.Load() {
		return
	}
	ctx := self.Ctx

	var jobs []model.ScheduledJob
	err = self.db.WithContext(ctx).
		Raw(`UPDATE scheduled_jobs
	SET state = 'PROCESSING', updated_at = NOW()
	WHERE id IN (
		SELECT id FROM scheduled_jobs
		WHERE state = 'PENDING' AND process_after <= NOW()
		ORDER BY process_after
		LIMIT ?
		FOR UPDATE SKIP LOCKED)
	RETURNING *`, self.Config.Dispatcher.MaxJobsPerRun).
		Scan(&jobs).
		Error
	if err != nil {
		self.Log.WithError(err).Error("Failed to claim due jobs")
		self.monitor.GetReport().Dispatcher.Errors.ClaimError.Inc()

		// Claiming is retried on the next tick anyway
		return false, nil
	}

	if len(jobs) > 0 {
		self.Log.WithField("count", len(jobs)).Debug("Claimed due jobs")
	}

	for i := range jobs {
		job := jobs[i]
		select {
		case <-self.StopChannel:
			return false, nil
		case self.Output <- &job:
			self.monitor.GetReport().Dispatcher.State.JobsClaimed.Inc()
		}
	}

	// A full batch means there's likely more overdue work waiting
	repeat = len(jobs) == self.Config.Dispatcher.MaxJobsPerRun
	return
}

// Jobs claimed by a crashed instance stay PROCESSING forever, put them
// back after the visibility timeout
func (self *Poller) handleStale() (err error) {
	if self.IsStopping.Load() {
		return
	}

	deadline := time.Now().Add(-1 * self.Config.Dispatcher.VisibilityTimeout)
	res := self.db.WithContext(self.Ctx).
		Model(&model.ScheduledJob{}).
		Where("state = ? AND updated_at < ?", model.JobStateProcessing, deadline).
		Updates(map[string]interface{}{
			"state":    model.JobStatePending,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		self.Log.WithError(res.Error).Error("Failed to reclaim stale jobs")
		self.monitor.GetReport().Dispatcher.Errors.ClaimError.Inc()
		return nil
	}

	if res.RowsAffected > 0 {
		self.Log.WithField("count", res.RowsAffected).Warn("Reclaimed stale jobs")
		self.monitor.GetReport().Dispatcher.State.JobsReclaimed.Add(uint64(res.RowsAffected))
	}
	return nil
}
