package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Client is what services need from the transport.
type Client interface {
	Do(ctx context.Context, req Request) (*Response, error)
	HasValidToken(ctx context.Context) bool
	ClearTokens()
}

// Request describes one logical API call. Body is JSON-encoded unless it is
// nil or already a []byte.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 || v == nil {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}
