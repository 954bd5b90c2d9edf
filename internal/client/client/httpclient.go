package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
	"github.com/dmitrijs2005/ledgerclient/internal/client/metrics"
	"github.com/dmitrijs2005/ledgerclient/internal/client/session"
	"github.com/dmitrijs2005/ledgerclient/internal/common"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

// HTTPClient talks JSON to the ledger API and keeps the cookie session alive.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL   *url.URL
	endpoints config.Endpoints

	http *http.Client
	jar  http.CookieJar

	cache       *session.ValidationCache
	coordinator *session.Coordinator

	logger   logging.Logger
	recorder metrics.Recorder
}

var _ Client = (*HTTPClient)(nil)

type options struct {
	transport http.RoundTripper
	recorder  metrics.Recorder
	now       func() time.Time
}

// Option customises an HTTPClient.
type Option func(*options)

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithClock sets the clock of the validation cache.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewHTTPClient builds a client for cfg.BaseURL with an empty session.
func NewHTTPClient(cfg *config.Config, logger logging.Logger, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	o := options{recorder: metrics.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	cache := session.NewValidationCache(cfg.ValidationTTL)
	if o.now != nil {
		cache.SetClock(o.now)
	}

	c := &HTTPClient{
		baseURL:   base,
		endpoints: cfg.Endpoints,
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.RequestTimeout,
			Transport: &dispatchTransport{base: o.transport, logger: logger},
		},
		jar:      jar,
		cache:    cache,
		logger:   logger,
		recorder: o.recorder,
	}
	c.coordinator = session.NewCoordinator(c.renew, cache, logger, o.recorder)

	return c, nil
}

// attempt is one logical request; the replay shares it with the original.
type attempt struct {
	req       Request
	body      []byte
	requestID string
}

// Do sends req. A 401 from a protected endpoint renews the session and
// replays req once; any other non-2xx status is returned as *apierr.Error.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	a := &attempt{req: req, body: body, requestID: uuid.NewString()}
	return c.do(ctx, a, false)
}

func (c *HTTPClient) do(ctx context.Context, a *attempt, retried bool) (*Response, error) {
	resp, err := c.send(ctx, a)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried && !c.isAuthFlow(a.req.Path) {
		next, err := c.coordinator.Await(ctx)
		if err != nil {
			next()
			return nil, err
		}
		defer next()

		c.recorder.RequestReplayed()
		c.logger.Debug(ctx, "replaying request", "method", a.req.Method, "path", a.req.Path, "request_id", a.requestID)

		return c.do(withDispatch(ctx, dispatch{retry: true, hook: next}), a, true)
	}

	return nil, apierr.Classify(resp.StatusCode, apierr.ParseBody(resp.Body))
}

// send performs one round trip and reads the whole response.
func (c *HTTPClient) send(ctx context.Context, a *attempt) (*Response, error) {
	method := a.req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(a.req.Path, a.req.Query), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range a.req.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if a.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, a.requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Network(err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *HTTPClient) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = query.Encode()
	return u.String()
}

// renew asks the server for a new access cookie. Only a 2xx counts as
// success.
func (c *HTTPClient) renew(ctx context.Context) error {
	a := &attempt{
		req:       Request{Method: http.MethodPost, Path: c.endpoints.Refresh},
		requestID: uuid.NewString(),
	}

	resp, err := c.send(withDispatch(ctx, dispatch{}), a)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.Classify(resp.StatusCode, apierr.ParseBody(resp.Body))
	}
	return nil
}

// HasValidToken reports whether the session is currently usable. A cached
// answer younger than the validation TTL is reused; otherwise the verify
// endpoint is asked and its answer cached. Any failure counts as false.
func (c *HTTPClient) HasValidToken(ctx context.Context) bool {
	if valid, ok := c.cache.Read(); ok {
		c.recorder.ValidationChecked(true)
		return valid
	}
	c.recorder.ValidationChecked(false)

	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: c.endpoints.Verify})
	valid := err == nil
	if err != nil {
		c.logger.Debug(ctx, "session is not valid", "error", err)
	}

	c.cache.Write(valid)
	return valid
}

// ClearTokens forgets the cached validity answer. Login and logout call it so
// the next check asks the server.
func (c *HTTPClient) ClearTokens() {
	c.cache.Invalidate()
}

// Coordinator exposes the renewal coordinator, e.g. to share it with other
// transports.
func (c *HTTPClient) Coordinator() *session.Coordinator {
	return c.coordinator
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Get fetches path and decodes the JSON answer into out (which may be nil).
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON to path and decodes the answer into out.
func (c *HTTPClient) Post(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON to path and decodes the answer into out.
func (c *HTTPClient) Put(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPut, path, in, out)
}

// Patch sends in as JSON to path and decodes the answer into out.
func (c *HTTPClient) Patch(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPatch, path, in, out)
}

// Delete deletes path and decodes the answer, if any, into out.
func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, out)
}

func (c *HTTPClient) call(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: in})
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}
