package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
	ctx     context.Context
	jsonObj any
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest выполняет запрос к роутеру и возвращает записанный ответ.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	request, err := newRequest(args, opts...)
	if err != nil {
		return nil, err
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

func newRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Request, error) {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	body := args.Body
	if options.jsonObj != nil {
		raw, err := json.Marshal(options.jsonObj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %s", err.Error())
		}
		body = bytes.NewReader(raw)
		options.headers["Content-Type"] = "application/json"
	}

	request := httptest.NewRequest(args.Method, args.URL, body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}
	if options.ctx != nil {
		request = request.WithContext(options.ctx)
	}
	return request, nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

// WithJSON сериализует obj в тело запроса и выставляет Content-Type.
func WithJSON(obj any) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.jsonObj = obj
	}
}

func WithContext(ctx context.Context) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.ctx = ctx
	}
}
