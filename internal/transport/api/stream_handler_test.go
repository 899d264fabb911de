package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/logger"
	"github.com/fsdevblog/transactions-service/internal/transport/api/testutils"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StreamHandlerTestSuite struct {
	suite.Suite
	hub    *broadcast.Hub[domain.Transaction]
	router *gin.Engine
}

func TestStreamHandlerSuite(t *testing.T) {
	suite.Run(t, new(StreamHandlerTestSuite))
}

func (s *StreamHandlerTestSuite) SetupTest() {
	s.hub = broadcast.NewHub[domain.Transaction](8)

	var err error
	s.router, err = New(RouterArgs{
		Logger: logger.New(io.Discard),
		Stream: s.hub,
	})
	s.Require().NoError(err)
}

func (s *StreamHandlerTestSuite) TearDownTest() {
	s.hub.Close()
}

func (s *StreamHandlerTestSuite) startStream(ctx context.Context) (*testutils.StreamRecorder, <-chan struct{}) {
	recorder, done, err := testutils.StartStream(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + StreamRoute,
	}, testutils.WithContext(ctx))
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return s.hub.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)
	return recorder, done
}

func (s *StreamHandlerTestSuite) wait(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.FailNow("stream handler did not finish")
	}
}

func (s *StreamHandlerTestSuite) TestStreamsPublishedTransactions() {
	// опубликовано до подписки - не должно попасть в поток
	s.Require().NoError(s.hub.Publish(domain.Transaction{ID: "tx-before"}))

	recorder, done := s.startStream(s.T().Context())

	s.Require().NoError(s.hub.Publish(domain.Transaction{
		ID:        "tx-1",
		AccountID: "acc-1",
		Type:      domain.TransactionDebit,
		Amount:    decimal.NewFromInt(100),
		Status:    domain.TransactionStatusOK,
	}))
	s.Require().NoError(s.hub.Publish(domain.Transaction{ID: "tx-2", Type: domain.TransactionCredit}))

	// закрытие хаба завершает поток после отдачи буферизованных событий
	s.hub.Close()
	s.wait(done)

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal(StreamContentType, recorder.Header().Get("Content-Type"))
	s.Equal("no-cache", recorder.Header().Get("Cache-Control"))

	events, err := sse.Decode(recorder.Body)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	for i, id := range []string{"tx-1", "tx-2"} {
		s.Equal(StreamEventName, events[i].Event)

		data, ok := events[i].Data.(string)
		s.Require().True(ok)
		var tx TransactionResponse
		s.Require().NoError(json.Unmarshal([]byte(data), &tx))
		s.Equal(id, tx.ID)
	}
}

func (s *StreamHandlerTestSuite) TestClientDisconnectUnsubscribes() {
	ctx, cancel := context.WithCancel(s.T().Context())
	_, done := s.startStream(ctx)

	cancel()
	s.wait(done)
	s.Equal(0, s.hub.SubscriberCount())
}

func (s *StreamHandlerTestSuite) TestSubscribersIndependent() {
	ctxA, cancelA := context.WithCancel(s.T().Context())
	defer cancelA()

	_, doneA := s.startStream(ctxA)
	recorderB, doneB, err := testutils.StartStream(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + StreamRoute,
	})
	s.Require().NoError(err)
	s.Require().Eventually(func() bool {
		return s.hub.SubscriberCount() == 2
	}, time.Second, 5*time.Millisecond)

	// первый клиент уходит, второй продолжает получать события
	cancelA()
	s.wait(doneA)

	s.Require().NoError(s.hub.Publish(domain.Transaction{ID: "tx-1"}))
	s.hub.Close()
	s.wait(doneB)

	events, err := sse.Decode(recorderB.Body)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *StreamHandlerTestSuite) TestClosedHub() {
	s.hub.Close()

	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + StreamRoute,
	})
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
}
