// Package services contains application services for the ledger client.
// This file defines the authentication service: login, register, logout,
// session status and the server liveness probe.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/ledgerclient/internal/client/client"
	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a cookie session.
//   - Register: create a new user on the server.
//   - Logout: end the session on the server and locally.
//   - Status: report whether the current session is usable.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) bool
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client.
type authService struct {
	client    client.Client
	endpoints config.Endpoints
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client, endpoints config.Endpoints) AuthService {
	return &authService{client: c, endpoints: endpoints}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login posts the credentials. On success the server has set fresh session
// cookies, so any cached validity answer is dropped.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	_, err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   a.endpoints.Login,
		Body:   credentials{Username: username, Password: string(password)},
	})
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	a.client.ClearTokens()
	return nil
}

// Register creates a new account on the server. It does not log in.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	_, err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   a.endpoints.Register,
		Body:   credentials{Username: username, Password: string(password)},
	})
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout asks the server to drop the session cookies. The local cache is
// cleared whatever the server answers.
func (a *authService) Logout(ctx context.Context) error {
	defer a.client.ClearTokens()

	_, err := a.client.Do(ctx, client.Request{Method: http.MethodPost, Path: a.endpoints.Logout})
	if err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

// Status reports whether the session is currently usable.
func (a *authService) Status(ctx context.Context) bool {
	return a.client.HasValidToken(ctx)
}

// Ping checks the health endpoint.
func (a *authService) Ping(ctx context.Context) error {
	_, err := a.client.Do(ctx, client.Request{Method: http.MethodGet, Path: a.endpoints.Health})
	return err
}
