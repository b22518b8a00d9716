package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/logger"
	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/monitoring"

	"github.com/jackc/pgtype"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Scheduler writes delayed jobs and settles their outcome.
// Claiming due jobs is the Poller's business.
type Scheduler struct {
	config *config.Config
	log    *logrus.Entry

	db      *gorm.DB
	monitor monitoring.Monitor
}

func NewScheduler(config *config.Config) (self *Scheduler) {
	self = new(Scheduler)
	self.config = config
	self.log = logger.NewSublogger("dispatch-scheduler")
	return
}

func (self *Scheduler) WithDB(db *gorm.DB) *Scheduler {
	self.db = db
	return self
}

func (self *Scheduler) WithMonitor(monitor monitoring.Monitor) *Scheduler {
	self.monitor = monitor
	return self
}

// Schedule inserts a job due no earlier than delay from now. Runs on
// the handle the caller passes in, usually an open transaction, so the
// job commits together with the caller's writes.
func (self *Scheduler) Schedule(tx *gorm.DB, kind string, payload interface{}, delay time.Duration) (err error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	var jsonb pgtype.JSONB
	err = jsonb.Set(raw)
	if err != nil {
		return
	}

	job := &model.ScheduledJob{
		ID:           xid.New().String(),
		Kind:         kind,
		Payload:      jsonb,
		ProcessAfter: time.Now().Add(delay),
		State:        model.JobStatePending,
	}
	err = tx.Create(job).Error
	if err != nil {
		return
	}

	self.monitor.GetReport().Dispatcher.State.JobsScheduled.Inc()
	self.log.WithField("job_id", job.ID).
		WithField("kind", kind).
		WithField("process_after", job.ProcessAfter).
		Debug("Job scheduled")
	return
}

// CompleteJob marks a claimed job DONE
func (self *Scheduler) CompleteJob(ctx context.Context, jobId string) (err error) {
	err = self.db.WithContext(ctx).
		Model(&model.ScheduledJob{}).
		Where("id = ? AND state = ?", jobId, model.JobStateProcessing).
		Update("state", model.JobStateDone).
		Error
	if err != nil {
		self.monitor.GetReport().Dispatcher.Errors.DbUpdateError.Inc()
		return
	}
	self.monitor.GetReport().Dispatcher.State.JobsDone.Inc()
	return
}

// FailJob records a failed attempt. The job goes back to PENDING with
// a doubled delay, or to FAILED once attempts run out.
func (self *Scheduler) FailJob(ctx context.Context, job *model.ScheduledJob, cause error) (err error) {
	attempts := job.Attempts + 1

	if attempts >= self.config.Dispatcher.MaxAttempts {
		err = self.db.WithContext(ctx).
			Model(&model.ScheduledJob{}).
			Where("id = ? AND state = ?", job.ID, model.JobStateProcessing).
			Updates(map[string]interface{}{
				"state":      model.JobStateFailed,
				"attempts":   attempts,
				"last_error": cause.Error(),
			}).Error
		if err != nil {
			self.monitor.GetReport().Dispatcher.Errors.DbUpdateError.Inc()
			return
		}
		self.monitor.GetReport().Dispatcher.State.JobsAbandoned.Inc()
		self.log.WithField("job_id", job.ID).
			WithField("attempts", attempts).
			WithError(cause).
			Error("Job abandoned, out of attempts")
		return
	}

	delay := RetryDelay(self.config.Dispatcher.RetryBaseDelay, self.config.Dispatcher.RetryMaxDelay, attempts)
	err = self.db.WithContext(ctx).
		Model(&model.ScheduledJob{}).
		Where("id = ? AND state = ?", job.ID, model.JobStateProcessing).
		Updates(map[string]interface{}{
			"state":         model.JobStatePending,
			"attempts":      attempts,
			"last_error":    cause.Error(),
			"process_after": time.Now().Add(delay),
		}).Error
	if err != nil {
		self.monitor.GetReport().Dispatcher.Errors.DbUpdateError.Inc()
		return
	}
	self.monitor.GetReport().Dispatcher.State.JobsRetried.Inc()
	self.log.WithField("job_id", job.ID).
		WithField("attempts", attempts).
		WithField("delay", delay).
		WithError(cause).
		Warn("Job failed, retry scheduled")
	return
}
