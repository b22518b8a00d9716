package monitor_broker

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMonitorTestSuite(t *testing.T) {
	suite.Run(t, new(MonitorTestSuite))
}

type MonitorTestSuite struct {
	suite.Suite
}

func (s *MonitorTestSuite) TestCounters() {
	monitor := NewMonitor()

	monitor.GetReport().Market.State.OffersAccepted.Inc()
	monitor.GetReport().Dispatcher.State.JobsScheduled.Add(3)
	monitor.GetReport().Verifier.State.OrdersPassed.Inc()

	require.Equal(s.T(), uint64(1), monitor.Report.Market.State.OffersAccepted.Load())
	require.Equal(s.T(), uint64(3), monitor.Report.Dispatcher.State.JobsScheduled.Load())
	require.Equal(s.T(), uint64(1), monitor.Report.Verifier.State.OrdersPassed.Load())
}

func (s *MonitorTestSuite) TestPrometheusCollector() {
	monitor := NewMonitor()
	monitor.GetReport().Verifier.State.OrdersClaimed.Add(7)

	registry := prometheus.NewRegistry()
	err := registry.Register(monitor.GetPrometheusCollector())
	require.Nil(s.T(), err)

	families, err := registry.Gather()
	require.Nil(s.T(), err)

	var found bool
	for _, family := range families {
		if family.GetName() == "orders_claimed" {
			found = true
			require.Equal(s.T(), float64(7), family.GetMetric()[0].GetCounter().GetValue())
		}
	}
	require.True(s.T(), found)
}

func (s *MonitorTestSuite) TestHealthEndpoint() {
	monitor := NewMonitor()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/health", monitor.OnGetHealth)
	router.GET("/v1/state", monitor.OnGetState)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/state", nil))
	require.Equal(s.T(), http.StatusOK, recorder.Code)
	require.Contains(s.T(), recorder.Body.String(), "dispatcher")
}
