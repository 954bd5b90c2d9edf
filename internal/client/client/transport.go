package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/ledgerclient/internal/common"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

type dispatchKey struct{}

// dispatch marks a request attempt. hook runs once the attempt has reached
// the transport, right before it goes on the wire.
type dispatch struct {
	retry bool
	hook  func()
}

func withDispatch(ctx context.Context, d dispatch) context.Context {
	return context.WithValue(ctx, dispatchKey{}, d)
}

func dispatchFrom(ctx context.Context) dispatch {
	d, _ := ctx.Value(dispatchKey{}).(dispatch)
	return d
}

// dispatchTransport logs every outgoing request and fires the dispatch hook
// carried by its context.
type dispatchTransport struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *dispatchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	d := dispatchFrom(ctx)

	t.logger.Debug(ctx, "dispatching request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get(common.RequestIDHeaderName),
		"retry", d.retry,
	)

	if d.hook != nil {
		d.hook()
	}
	return t.base.RoundTrip(req)
}
