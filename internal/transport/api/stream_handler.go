package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	source StreamSource
}

func NewStreamHandler(source StreamSource) *StreamHandler {
	return &StreamHandler{
		source: source,
	}
}

// Stream GET RouteGroup + StreamRoute. Отдает новые транзакции как server-sent events с именем
// StreamEventName. Поток завершается при отключении клиента или остановке хаба.
func (s *StreamHandler) Stream(c *gin.Context) {
	sub, err := s.source.Subscribe()
	if err != nil {
		if errors.Is(err, broadcast.ErrClosed) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "stream_unavailable"})
			return
		}
		abortWithError(c, err, gin.ErrorTypePrivate)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", StreamContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case tx, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(StreamEventName, newTransactionResponse(tx))
			return true
		}
	})
}
