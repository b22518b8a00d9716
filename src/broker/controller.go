package broker

import (
	"github.com/shillmarket/broker/src/dispatch"
	"github.com/shillmarket/broker/src/gateway"
	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/escrow"
	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/monitoring"
	monitor_broker "github.com/shillmarket/broker/src/utils/monitoring/broker"
	"github.com/shillmarket/broker/src/utils/proofsource"
	"github.com/shillmarket/broker/src/utils/publisher"
	"github.com/shillmarket/broker/src/utils/task"
	"github.com/shillmarket/broker/src/verify"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates everything
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "broker-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "broker")
	if err != nil {
		return
	}

	// Monitoring
	monitor := monitor_broker.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Delayed job dispatch
	scheduler := dispatch.NewScheduler(config).
		WithDB(db).
		WithMonitor(monitor)

	poller := dispatch.NewPoller(config).
		WithDB(db).
		WithMonitor(monitor)

	// Order state machine
	orders := market.NewMarket(config).
		WithDB(db).
		WithMonitor(monitor).
		WithScheduler(scheduler)

	// Proof platform client, shared by the verifier and the gateway
	source := proofsource.NewClient(config)

	// Verification pipeline
	store := verify.NewStore(config).
		WithDB(db)

	verifier := verify.NewVerifier(config).
		WithMarket(orders).
		WithScheduler(scheduler).
		WithStore(store).
		WithLedger(escrow.NewClient(config)).
		WithSource(source).
		WithMonitor(monitor).
		WithInputChannel(poller.Output)

	// Batches audit rows before they hit the database
	auditSink := task.NewHole[*model.VerificationAudit](config, "audit-sink").
		WithInputChannel(verifier.Audits).
		WithBatchSize(config.Verifier.AuditBatchSize).
		WithBackoff(0, config.Verifier.AuditMaxBackoffInterval).
		WithOnFlush(config.Verifier.AuditFlushInterval, func(audits []*model.VerificationAudit) (err error) {
			err = store.SaveAudits(audits)
			if err != nil {
				monitor.GetReport().Verifier.Errors.AuditSaveError.Inc()
				return
			}
			monitor.GetReport().Verifier.State.AuditsSaved.Add(uint64(len(audits)))
			return
		})

	// Publishes settlement events
	events := publisher.NewRedisPublisher[verify.SettlementEvent](config, "settlement-publisher").
		WithInputChannel(verifier.Events).
		WithChannelName(config.Verifier.EventsChannelName).
		WithMonitor(monitor)

	// Flags funds that moved without the matching status write
	reconciler := verify.NewReconciler(config).
		WithStore(store).
		WithMonitor(monitor)

	// Public REST API
	api := gateway.NewServer(config).
		WithDB(db).
		WithMarket(orders).
		WithMonitor(monitor).
		WithDirectory(source)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(poller.Task).
		WithSubtask(verifier.Task).
		WithSubtask(auditSink.Task).
		WithSubtask(events.Task).
		WithSubtask(reconciler.Task).
		WithSubtask(api.Task)
	return
}
