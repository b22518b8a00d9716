package monitor_broker

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	OffersAccepted  *prometheus.Desc `json:"offers_accepted"`
	ProofsSubmitted *prometheus.Desc `json:"proofs_submitted"`

	JobsScheduled *prometheus.Desc `json:"jobs_scheduled"`
	JobsClaimed   *prometheus.Desc `json:"jobs_claimed"`
	JobsReclaimed *prometheus.Desc `json:"jobs_reclaimed"`
	JobsDone      *prometheus.Desc `json:"jobs_done"`
	JobsRetried   *prometheus.Desc `json:"jobs_retried"`
	JobsAbandoned *prometheus.Desc `json:"jobs_abandoned"`

	OrdersClaimed       *prometheus.Desc `json:"orders_claimed"`
	OrdersPassed        *prometheus.Desc `json:"orders_passed"`
	OrdersFailed        *prometheus.Desc `json:"orders_failed"`
	OrdersSkipped       *prometheus.Desc `json:"orders_skipped"`
	ProofSourceError    *prometheus.Desc `json:"proof_source_error"`
	ReconcileDivergence *prometheus.Desc `json:"reconcile_divergence"`

	MessagesPublished *prometheus.Desc `json:"messages_published"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "broker",
	}

	return &Collector{
		OffersAccepted:  prometheus.NewDesc("offers_accepted", "", nil, labels),
		ProofsSubmitted: prometheus.NewDesc("proofs_submitted", "", nil, labels),

		JobsScheduled: prometheus.NewDesc("jobs_scheduled", "", nil, labels),
		JobsClaimed:   prometheus.NewDesc("jobs_claimed", "", nil, labels),
		JobsReclaimed: prometheus.NewDesc("jobs_reclaimed", "", nil, labels),
		JobsDone:      prometheus.NewDesc("jobs_done", "", nil, labels),
		JobsRetried:   prometheus.NewDesc("jobs_retried", "", nil, labels),
		JobsAbandoned: prometheus.NewDesc("jobs_abandoned", "", nil, labels),

		OrdersClaimed:       prometheus.NewDesc("orders_claimed", "", nil, labels),
		OrdersPassed:        prometheus.NewDesc("orders_passed", "", nil, labels),
		OrdersFailed:        prometheus.NewDesc("orders_failed", "", nil, labels),
		OrdersSkipped:       prometheus.NewDesc("orders_skipped", "", nil, labels),
		ProofSourceError:    prometheus.NewDesc("proof_source_error", "", nil, labels),
		ReconcileDivergence: prometheus.NewDesc("reconcile_divergence", "", nil, labels),

		MessagesPublished: prometheus.NewDesc("messages_published", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.OffersAccepted
	ch <- self.ProofsSubmitted
	ch <- self.JobsScheduled
	ch <- self.JobsClaimed
	ch <- self.JobsReclaimed
	ch <- self.JobsDone
	ch <- self.JobsRetried
	ch <- self.JobsAbandoned
	ch <- self.OrdersClaimed
	ch <- self.OrdersPassed
	ch <- self.OrdersFailed
	ch <- self.OrdersSkipped
	ch <- self.ProofSourceError
	ch <- self.ReconcileDivergence
	ch <- self.MessagesPublished
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.OffersAccepted, prometheus.CounterValue, float64(self.monitor.Report.Market.State.OffersAccepted.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsSubmitted, prometheus.CounterValue, float64(self.monitor.Report.Market.State.ProofsSubmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsScheduled, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsScheduled.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsClaimed, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsClaimed.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsReclaimed, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsReclaimed.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsDone, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsDone.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsRetried, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsRetried.Load()))
	ch <- prometheus.MustNewConstMetric(self.JobsAbandoned, prometheus.CounterValue, float64(self.monitor.Report.Dispatcher.State.JobsAbandoned.Load()))
	ch <- prometheus.MustNewConstMetric(self.OrdersClaimed, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.OrdersClaimed.Load()))
	ch <- prometheus.MustNewConstMetric(self.OrdersPassed, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.OrdersPassed.Load()))
	ch <- prometheus.MustNewConstMetric(self.OrdersFailed, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.OrdersFailed.Load()))
	ch <- prometheus.MustNewConstMetric(self.OrdersSkipped, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.OrdersSkipped.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofSourceError, prometheus.CounterValue, float64(self.monitor.Report.Verifier.Errors.ProofSourceError.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReconcileDivergence, prometheus.CounterValue, float64(self.monitor.Report.Verifier.Errors.ReconcileDivergence.Load()))
	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.State.MessagesPublished.Load()))
}
