package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/ledgerclient/internal/client/client"
)

// ErrInvalidBody is returned when a create or update body is not JSON.
var ErrInvalidBody = errors.New("request body is not valid JSON")

// ResourceService performs plain CRUD calls on API resources and returns the
// raw JSON answers. Session renewal is handled by the client.
type ResourceService interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Create(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, path string) error
}

type resourceService struct {
	client client.Client
}

// NewResourceService constructs a ResourceService over c.
func NewResourceService(c client.Client) ResourceService {
	return &resourceService{client: c}
}

func (s *resourceService) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return s.call(ctx, client.Request{Method: http.MethodGet, Path: path, Query: query})
}

func (s *resourceService) Create(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}
	return s.call(ctx, client.Request{Method: http.MethodPost, Path: path, Body: body})
}

func (s *resourceService) Update(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}
	return s.call(ctx, client.Request{Method: http.MethodPut, Path: path, Body: body})
}

func (s *resourceService) Delete(ctx context.Context, path string) error {
	_, err := s.call(ctx, client.Request{Method: http.MethodDelete, Path: path})
	return err
}

func (s *resourceService) call(ctx context.Context, req client.Request) (json.RawMessage, error) {
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return json.RawMessage(resp.Body), nil
}
