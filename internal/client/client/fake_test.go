package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
	"github.com/dmitrijs2005/ledgerclient/internal/client/metrics"
	"github.com/dmitrijs2005/ledgerclient/internal/common"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

const (
	testBaseURL  = "http://ledger.test"
	accountsPath = "/api/accounts/"
	refreshPath  = "/api/auth/token/refresh/"
	verifyPath   = "/api/auth/token/verify/"
	loginPath    = "/api/auth/login/"
	registerPath = "/api/auth/register/"

	eventually   = 2 * time.Second
	pollInterval = time.Millisecond
)

/*************
 * Fake ledger API
 *************/

type seenRequest struct {
	method    string
	path      string
	requestID string
	body      string
}

type route func(r *http.Request) (int, string, error)

// fakeAPI is an http.RoundTripper that answers from per-path routes and
// records every request it sees.
type fakeAPI struct {
	routes map[string]route

	mu   sync.Mutex
	seen []seenRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]route{}}
}

// on registers a route. It must be called before the client is used.
func (f *fakeAPI) on(path string, r route) {
	f.routes[path] = r
}

func (f *fakeAPI) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	f.mu.Lock()
	f.seen = append(f.seen, seenRequest{
		method:    req.Method,
		path:      req.URL.Path,
		requestID: req.Header.Get(common.RequestIDHeaderName),
		body:      string(body),
	})
	f.mu.Unlock()

	status, payload, err := http.StatusNotFound, `{"detail":"Not found."}`, error(nil)
	if r, ok := f.routes[req.URL.Path]; ok {
		status, payload, err = r(req)
	}
	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(payload)),
		Request:    req,
	}, nil
}

func (f *fakeAPI) requests(path string) []seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []seenRequest
	for _, r := range f.seen {
		if r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeAPI) count(path string) int {
	return len(f.requests(path))
}

func respond(status int, body string) route {
	return func(*http.Request) (int, string, error) { return status, body, nil }
}

// sessionRoutes wires a protected path that answers 401 until a renewal has
// completed, and a refresh endpoint that blocks until release is closed.
func sessionRoutes(api *fakeAPI, release <-chan struct{}, paths ...string) *atomic.Bool {
	renewed := &atomic.Bool{}
	api.on(refreshPath, func(*http.Request) (int, string, error) {
		<-release
		renewed.Store(true)
		return http.StatusOK, `{}`, nil
	})
	for _, p := range paths {
		api.on(p, func(*http.Request) (int, string, error) {
			if !renewed.Load() {
				return http.StatusUnauthorized, `{"detail":"Token is expired"}`, nil
			}
			return http.StatusOK, `{"ok":true}`, nil
		})
	}
	return renewed
}

/*************
 * Recorder & logger fakes
 *************/

type countingRecorder struct {
	metrics.Nop
	started    atomic.Int32
	joined     atomic.Int32
	replayed   atomic.Int32
	cacheHits  atomic.Int32
	cacheMiss  atomic.Int32
	lastResult atomic.Bool
}

func (r *countingRecorder) RenewalStarted() { r.started.Add(1) }
func (r *countingRecorder) RenewalJoined()  { r.joined.Add(1) }
func (r *countingRecorder) RenewalFinished(ok bool, _ time.Duration) {
	r.lastResult.Store(ok)
}
func (r *countingRecorder) RequestReplayed() { r.replayed.Add(1) }
func (r *countingRecorder) ValidationChecked(hit bool) {
	if hit {
		r.cacheHits.Add(1)
		return
	}
	r.cacheMiss.Add(1)
}

type logEntry struct {
	msg   string
	attrs map[string]any
}

// capturingLogger keeps every entry in call order.
type capturingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *capturingLogger) record(msg string, args []any) {
	attrs := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			attrs[k] = args[i+1]
		}
	}
	l.mu.Lock()
	l.entries = append(l.entries, logEntry{msg: msg, attrs: attrs})
	l.mu.Unlock()
}

func (l *capturingLogger) Debug(_ context.Context, msg string, args ...any) { l.record(msg, args) }
func (l *capturingLogger) Info(_ context.Context, msg string, args ...any)  { l.record(msg, args) }
func (l *capturingLogger) Warn(_ context.Context, msg string, args ...any)  { l.record(msg, args) }
func (l *capturingLogger) Error(_ context.Context, msg string, args ...any) { l.record(msg, args) }
func (l *capturingLogger) With(...any) logging.Logger                       { return l }

func (l *capturingLogger) find(msg string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.msg == msg {
			out = append(out, e)
		}
	}
	return out
}

/*************
 * Client construction
 *************/

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = testBaseURL
	return cfg
}

func newTestClient(t *testing.T, rt http.RoundTripper, logger logging.Logger, opts ...Option) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(newTestConfig(), logger, append([]Option{WithTransport(rt)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}
