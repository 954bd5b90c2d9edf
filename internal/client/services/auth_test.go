package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
)

func testEndpoints() config.Endpoints {
	var cfg config.Config
	cfg.LoadDefaults()
	return cfg.Endpoints
}

func TestLogin_PostsCredentialsAndClearsCache(t *testing.T) {
	f := newFakeClient()
	svc := NewAuthService(f, testEndpoints())

	require.NoError(t, svc.Login(context.Background(), "alice", []byte("s3cret")))

	req := f.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/auth/login/", req.Path)
	assert.Equal(t, credentials{Username: "alice", Password: "s3cret"}, req.Body)
	assert.Equal(t, 1, f.cleared)
}

func TestLogin_ErrorIsWrappedAndCacheKept(t *testing.T) {
	f := newFakeClient()
	f.errs["/api/auth/login/"] = &apierr.Error{Kind: apierr.KindAuthentication, StatusCode: 401, Message: "No active account found"}
	svc := NewAuthService(f, testEndpoints())

	err := svc.Login(context.Background(), "alice", []byte("bad"))

	require.ErrorIs(t, err, apierr.ErrAuthentication)
	assert.Contains(t, err.Error(), "login error")
	assert.Equal(t, 0, f.cleared)
}

func TestRegister(t *testing.T) {
	f := newFakeClient()
	svc := NewAuthService(f, testEndpoints())

	require.NoError(t, svc.Register(context.Background(), "bob", []byte("pw")))
	assert.Equal(t, "/api/auth/register/", f.last().Path)
	assert.Equal(t, 0, f.cleared)

	f.errs["/api/auth/register/"] = apierr.Classify(http.StatusBadRequest, map[string]any{"username": []any{"taken"}})
	err := svc.Register(context.Background(), "bob", []byte("pw"))
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Equal(t, map[string][]string{"username": {"taken"}}, apierr.FieldErrors(err))
}

func TestLogout_ClearsCacheEvenOnFailure(t *testing.T) {
	f := newFakeClient()
	svc := NewAuthService(f, testEndpoints())

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, "/api/auth/logout/", f.last().Path)
	assert.Equal(t, 1, f.cleared)

	f.errs["/api/auth/logout/"] = apierr.Network(nil)
	require.ErrorIs(t, svc.Logout(context.Background()), apierr.ErrUnavailable)
	assert.Equal(t, 2, f.cleared)
}

func TestStatus_DelegatesToClient(t *testing.T) {
	f := newFakeClient()
	svc := NewAuthService(f, testEndpoints())

	assert.False(t, svc.Status(context.Background()))
	f.valid = true
	assert.True(t, svc.Status(context.Background()))
	assert.Equal(t, 2, f.checks)
}

func TestPing(t *testing.T) {
	f := newFakeClient()
	svc := NewAuthService(f, testEndpoints())

	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, http.MethodGet, f.last().Method)
	assert.Equal(t, "/api/health/", f.last().Path)

	f.errs["/api/health/"] = apierr.Network(nil)
	require.ErrorIs(t, svc.Ping(context.Background()), apierr.ErrUnavailable)
}
