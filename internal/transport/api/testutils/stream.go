package testutils

import (
	"net/http"
	"net/http/httptest"
)

// StreamRecorder httptest.ResponseRecorder с поддержкой http.CloseNotifier, без которого gin.Context.Stream
// паникует. Канал закрытия не срабатывает никогда: поток завершают через контекст запроса.
type StreamRecorder struct {
	*httptest.ResponseRecorder
	closeCh chan bool
}

func NewStreamRecorder() *StreamRecorder {
	return &StreamRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		closeCh:          make(chan bool, 1),
	}
}

func (r *StreamRecorder) CloseNotify() <-chan bool {
	return r.closeCh
}

// StartStream запускает запрос в отдельной горутине. Возвращенный канал закрывается, когда обработчик
// завершил работу. Читать ответ можно только после этого.
func StartStream(args RequestArgs, opts ...func(*RequestOptions)) (*StreamRecorder, <-chan struct{}, error) {
	request, err := newRequest(args, opts...)
	if err != nil {
		return nil, nil, err
	}

	recorder := NewStreamRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		args.Router.ServeHTTP(recorder, request)
	}()
	return recorder, done, nil
}

var _ http.CloseNotifier = (*StreamRecorder)(nil) //nolint:staticcheck
