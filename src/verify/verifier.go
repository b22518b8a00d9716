package verify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shillmarket/broker/src/dispatch"
	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/escrow"
	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/monitoring"
	"github.com/shillmarket/broker/src/utils/proofsource"
	"github.com/shillmarket/broker/src/utils/task"
)

// Verifier consumes claimed verify-order jobs and settles the orders.
// Policy failures are final and end in a refund, transport failures
// release the claim and push the job back for a retry.
type Verifier struct {
	*task.Task

	market    *market.Market
	scheduler *dispatch.Scheduler
	store     *Store
	ledger    escrow.Ledger
	source    proofsource.Source
	monitor   monitoring.Monitor

	input chan *model.ScheduledJob

	// Outcomes for the audit sink and the event publisher
	Audits chan *model.VerificationAudit
	Events chan SettlementEvent
}

func NewVerifier(config *config.Config) (self *Verifier) {
	self = new(Verifier)

	self.Audits = make(chan *model.VerificationAudit, config.Verifier.AuditBatchSize)
	self.Events = make(chan SettlementEvent, config.Verifier.WorkerQueueSize)

	self.Task = task.NewTask(config, "verifier").
		WithSubtaskFunc(self.run).
		WithWorkerPool(config.Verifier.NumWorkers, config.Verifier.WorkerQueueSize).
		WithOnAfterStop(func() {
			// Workers drained by now, the sinks may finish
			close(self.Audits)
			close(self.Events)
		})

	return
}

func (self *Verifier) WithMarket(market *market.Market) *Verifier {
	self.market = market
	return self
}

func (self *Verifier) WithScheduler(scheduler *dispatch.Scheduler) *Verifier {
	self.scheduler = scheduler
	return self
}

func (self *Verifier) WithStore(store *Store) *Verifier {
	self.store = store
	return self
}

func (self *Verifier) WithLedger(ledger escrow.Ledger) *Verifier {
	self.ledger = ledger
	return self
}

func (self *Verifier) WithSource(source proofsource.Source) *Verifier {
	self.source = source
	return self
}

func (self *Verifier) WithMonitor(monitor monitoring.Monitor) *Verifier {
	self.monitor = monitor
	return self
}

func (self *Verifier) WithInputChannel(input chan *model.ScheduledJob) *Verifier {
	self.input = input
	return self
}

func (self *Verifier) run() (err error) {
	for job := range self.input {
		job := job
		self.SubmitToWorker(func() {
			self.process(job)
		})
	}
	return nil
}

func (self *Verifier) process(job *model.ScheduledJob) {
	ctx := self.Ctx

	if job.Kind != model.JobKindVerifyOrder {
		self.Log.WithField("job_id", job.ID).
			WithField("kind", job.Kind).
			Error("Unknown job kind, dropping")
		err := self.scheduler.CompleteJob(ctx, job.ID)
		if err != nil {
			self.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to complete job")
		}
		return
	}

	var payload model.VerifyOrderPayload
	err := json.Unmarshal(job.Payload.Bytes, &payload)
	if err != nil {
		// Won't get better on a retry, but abandoning goes through the
		// same attempt accounting as everything else
		self.failJob(ctx, job, err)
		return
	}

	order, claimed, err := self.market.ClaimForVerification(ctx, payload.OrderId)
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
		self.failJob(ctx, job, err)
		return
	}
	if !claimed {
		// Duplicate delivery or the order already settled
		self.monitor.GetReport().Verifier.State.OrdersSkipped.Inc()
		self.Log.WithField("order_id", payload.OrderId).Debug("Order not claimable, skipping")
		err = self.scheduler.CompleteJob(ctx, job.ID)
		if err != nil {
			self.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to complete job")
		}
		return
	}
	self.monitor.GetReport().Verifier.State.OrdersClaimed.Inc()

	// Funds already moved on an attempt that crashed before the status
	// write. The ledger must not be called again, only the finalize is
	// missing.
	if order.EscrowPhase == model.EscrowPhaseReleased || order.EscrowPhase == model.EscrowPhaseRefunded {
		self.resume(ctx, job, order)
		return
	}

	campaign, err := self.store.GetCampaign(ctx, order.CampaignId)
	if err != nil {
		self.abort(ctx, job, order.ID, err)
		return
	}
	fulfiller, err := self.store.GetAgent(ctx, order.FulfillerId)
	if err != nil {
		self.abort(ctx, job, order.ID, err)
		return
	}

	post, err := self.source.GetPost(ctx, order.PostId)
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.ProofSourceError.Inc()
		self.abort(ctx, job, order.ID, err)
		return
	}

	result := Evaluate(campaign, fulfiller, post)
	err = self.settle(ctx, job, order, &result)
	if err != nil {
		// settle already released the claim
		return
	}

	self.emit(order, &result)

	err = self.scheduler.CompleteJob(ctx, job.ID)
	if err != nil {
		self.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to complete job")
	}
}

// resume finishes an interrupted settlement. The escrow phase decides
// the outcome, the original policy result was lost with the crash.
func (self *Verifier) resume(ctx context.Context, job *model.ScheduledJob, order *model.Order) {
	result := Result{
		Passed:    order.EscrowPhase == model.EscrowPhaseReleased,
		Timestamp: time.Now(),
	}
	resultJsonb, err := result.JSONB()
	if err != nil {
		self.abort(ctx, job, order.ID, err)
		return
	}

	if result.Passed {
		err = self.market.FinalizeSuccess(ctx, order.ID, resultJsonb)
	} else {
		err = self.market.FinalizeFailure(ctx, order.ID, resultJsonb)
	}
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
		self.abort(ctx, job, order.ID, err)
		return
	}

	if result.Passed {
		self.monitor.GetReport().Verifier.State.OrdersPassed.Inc()
	} else {
		self.monitor.GetReport().Verifier.State.OrdersFailed.Inc()
	}
	self.Log.WithField("order_id", order.ID).
		WithField("escrow_phase", order.EscrowPhase).
		Warn("Resumed interrupted settlement")

	self.emit(order, &result)

	err = self.scheduler.CompleteJob(ctx, job.ID)
	if err != nil {
		self.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to complete job")
	}
}

// settle moves the funds and writes the terminal status. The escrow
// call strictly precedes the status flip, so a crash in between leaves
// a claimed order with moved funds for the reconciler to flag, never
// a settled order with locked funds.
func (self *Verifier) settle(ctx context.Context, job *model.ScheduledJob, order *model.Order, result *Result) (err error) {
	resultJsonb, err := result.JSONB()
	if err != nil {
		self.abort(ctx, job, order.ID, err)
		return
	}

	if result.Passed {
		var confirmation *escrow.Confirmation
		confirmation, err = self.ledger.Release(ctx, order.SequenceNo)
		if err != nil {
			self.monitor.GetReport().Verifier.Errors.EscrowReleaseError.Inc()
			self.abort(ctx, job, order.ID, err)
			return
		}

		err = self.market.RecordEscrowRelease(ctx, order.ID, confirmation.Signature)
		if err != nil {
			self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
			self.abort(ctx, job, order.ID, err)
			return
		}

		err = self.market.FinalizeSuccess(ctx, order.ID, resultJsonb)
		if err != nil {
			self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
			self.abort(ctx, job, order.ID, err)
			return
		}

		self.monitor.GetReport().Verifier.State.OrdersPassed.Inc()
		self.Log.WithField("order_id", order.ID).
			WithField("sequence_no", order.SequenceNo).
			Info("Order verified, escrow released")
		return
	}

	var confirmation *escrow.Confirmation
	confirmation, err = self.ledger.Refund(ctx, order.SequenceNo)
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.EscrowRefundError.Inc()
		self.abort(ctx, job, order.ID, err)
		return
	}

	err = self.market.RecordEscrowRefund(ctx, order.ID, confirmation.Signature)
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
		self.abort(ctx, job, order.ID, err)
		return
	}

	err = self.market.FinalizeFailure(ctx, order.ID, resultJsonb)
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.FinalizeError.Inc()
		self.abort(ctx, job, order.ID, err)
		return
	}

	self.monitor.GetReport().Verifier.State.OrdersFailed.Inc()
	self.Log.WithField("order_id", order.ID).
		WithField("sequence_no", order.SequenceNo).
		WithField("reason", result.Reason).
		Info("Order verification failed, escrow refunded")
	return
}

func (self *Verifier) emit(order *model.Order, result *Result) {
	checks, err := result.ChecksJSONB()
	if err == nil {
		self.Audits <- &model.VerificationAudit{
			OrderId: order.ID,
			Passed:  result.Passed,
			Reason:  result.Reason,
			Checks:  checks,
		}
	} else {
		self.Log.WithError(err).WithField("order_id", order.ID).Error("Failed to serialize audit checks")
	}

	event := SettlementEvent{
		OrderId:      order.ID,
		SequenceNo:   order.SequenceNo,
		EscrowHandle: order.EscrowHandle,
		Amount:       order.Amount,
		Reason:       result.Reason,
		Timestamp:    result.Timestamp,
	}
	if result.Passed {
		event.Status = string(model.OrderStatusPaid)
		event.Payout, event.Fee = escrow.Split(order.Amount, order.FeeBps)
	} else {
		event.Status = string(model.OrderStatusFailed)
	}
	self.Events <- event
}

// abort releases the claim so the order can be verified again and
// records the failed attempt on the job
func (self *Verifier) abort(ctx context.Context, job *model.ScheduledJob, orderId string, cause error) {
	err := self.market.ReleaseClaim(ctx, orderId)
	if err != nil {
		// Claim stays until the visibility timeout reclaims the job
		self.Log.WithError(err).WithField("order_id", orderId).Error("Failed to release verification claim")
	}
	self.failJob(ctx, job, cause)
}

func (self *Verifier) failJob(ctx context.Context, job *model.ScheduledJob, cause error) {
	err := self.scheduler.FailJob(ctx, job, cause)
	if err != nil {
		self.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to record job failure")
	}
}
