package verify

import (
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/monitoring"
	"github.com/shillmarket/broker/src/utils/task"
)

const reconcilerBatchSize = 100

// Reconciler periodically compares escrow phases with order statuses.
// Divergence means a crash hit the window between the ledger call and
// the status write. Detection only, the fix is a manual operation on
// the ledger side.
type Reconciler struct {
	*task.Task

	store   *Store
	monitor monitoring.Monitor
}

func NewReconciler(config *config.Config) (self *Reconciler) {
	self = new(Reconciler)

	// First pass runs right at startup, crash recovery shouldn't wait
	// a full interval
	self.Task = task.NewTask(config, "reconciler").
		WithPeriodicSubtaskFunc(config.Verifier.ReconcileInterval, self.check)

	return
}

func (self *Reconciler) WithStore(store *Store) *Reconciler {
	self.store = store
	return self
}

func (self *Reconciler) WithMonitor(monitor monitoring.Monitor) *Reconciler {
	self.monitor = monitor
	return self
}

func (self *Reconciler) check() (err error) {
	if self.IsStopping.Load() {
		return
	}

	orders, err := self.store.GetDivergent(self.Ctx, reconcilerBatchSize)
	if err != nil {
		self.Log.WithError(err).Error("Failed to scan for divergent orders")
		return nil
	}

	for _, order := range orders {
		self.monitor.GetReport().Verifier.Errors.ReconcileDivergence.Inc()
		self.Log.WithField("order_id", order.ID).
			WithField("sequence_no", order.SequenceNo).
			WithField("status", order.Status).
			WithField("escrow_phase", order.EscrowPhase).
			Error("Escrow phase diverged from order status")
	}
	return nil
}
