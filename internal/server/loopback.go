package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
)

// LoopbackBaseURL is the base URL a loopback loader resolves against. The
// host never reaches the network.
const LoopbackBaseURL = "http://bytelog.loopback"

var errLoopbackUnbound = errors.New("server: loopback transport has no handler")

// Loopback is an http.RoundTripper that answers requests from a handler in
// process. It lets the server's post loader read the manifest and post files
// the server itself publishes, whatever address it listens on.
type Loopback struct {
	mu      sync.RWMutex
	handler http.Handler
}

// Bind sets the handler requests are served from.
func (l *Loopback) Bind(handler http.Handler) {
	l.mu.Lock()
	l.handler = handler
	l.mu.Unlock()
}

// Client returns an http.Client using l as its transport.
func (l *Loopback) Client() *http.Client {
	return &http.Client{Transport: l}
}

func (l *Loopback) RoundTrip(req *http.Request) (*http.Response, error) {
	l.mu.RLock()
	handler := l.handler
	l.mu.RUnlock()
	if handler == nil {
		return nil, errLoopbackUnbound
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	rec := &loopbackRecorder{header: http.Header{}}
	handler.ServeHTTP(rec, req)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}

	header := rec.header.Clone()
	if header.Get("Content-Length") == "" {
		header.Set("Content-Length", strconv.Itoa(rec.body.Len()))
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", rec.status, http.StatusText(rec.status)),
		StatusCode:    rec.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(rec.body.Bytes())),
		ContentLength: int64(rec.body.Len()),
		Request:       req,
	}, nil
}

type loopbackRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (r *loopbackRecorder) Header() http.Header {
	return r.header
}

func (r *loopbackRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *loopbackRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}
