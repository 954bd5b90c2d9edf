package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/ledgerclient/internal/client/client"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	// preset results, keyed by request path
	responses map[string]*client.Response
	errs      map[string]error
	valid     bool

	// captured calls
	requests []client.Request
	cleared  int
	checks   int
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]*client.Response{}, errs: map[string]error{}}
}

func (f *fakeClient) Do(ctx context.Context, req client.Request) (*client.Response, error) {
	f.requests = append(f.requests, req)
	if err := f.errs[req.Path]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[req.Path]; ok {
		return resp, nil
	}
	return &client.Response{StatusCode: http.StatusOK}, nil
}

func (f *fakeClient) HasValidToken(ctx context.Context) bool {
	f.checks++
	return f.valid
}

func (f *fakeClient) ClearTokens() { f.cleared++ }

func (f *fakeClient) last() client.Request {
	return f.requests[len(f.requests)-1]
}
