package gateway

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shillmarket/broker/src/market"
	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

type ErrorsTestSuite struct {
	suite.Suite
	server *Server
}

func (s *ErrorsTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.server = NewServer(config.Default())
}

func (s *ErrorsTestSuite) respond(err error) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	s.server.respondError(c, err)
	return recorder
}

func (s *ErrorsTestSuite) TestStateConflictIsBadRequest() {
	recorder := s.respond(market.NewStateConflictError("order", "submit proof for", string(model.OrderStatusPosted)))

	require.Equal(s.T(), http.StatusBadRequest, recorder.Code)
	require.Contains(s.T(), recorder.Body.String(), "cannot submit proof for order in status: POSTED")
}

func (s *ErrorsTestSuite) TestNotFound() {
	recorder := s.respond(market.ErrNotFound)
	require.Equal(s.T(), http.StatusNotFound, recorder.Code)
}

func (s *ErrorsTestSuite) TestForbidden() {
	recorder := s.respond(market.ErrForbidden)
	require.Equal(s.T(), http.StatusForbidden, recorder.Code)
}

func (s *ErrorsTestSuite) TestCampaignFilledIsConflict() {
	recorder := s.respond(market.ErrCampaignFilled)
	require.Equal(s.T(), http.StatusConflict, recorder.Code)
}

func (s *ErrorsTestSuite) TestUnknownErrorIsInternal() {
	recorder := s.respond(errors.New("connection reset"))
	require.Equal(s.T(), http.StatusInternalServerError, recorder.Code)
}
