// Package client is the authenticated transport of the ledger client.
//
// # Overview
//
// HTTPClient sends JSON requests to the ledger API. The session lives in two
// HttpOnly cookies held by the client's cookie jar; no credential value is
// ever exposed to callers.
//
// When a request to a protected endpoint is answered with 401, the client
// asks its session.Coordinator for a fresh session. Concurrent failures share
// one renewal call. After a successful renewal every failed request is
// replayed exactly once, in the order the failures were observed. When the
// renewal fails each of them returns an authentication error and the
// validation cache is cleared.
//
// Requests to the auth-flow endpoints (login, register, refresh, verify)
// never trigger a renewal.
//
// The same contract is available to gRPC callers through
// HTTPClient.UnaryClientInterceptor, which shares the coordinator and sends
// the jar's cookies as "cookie" metadata:
//
//	conn, err := grpc.NewClient(addr,
//		grpc.WithTransportCredentials(insecure.NewCredentials()),
//		grpc.WithUnaryInterceptor(c.UnaryClientInterceptor("/ledger.Auth/Login")),
//	)
//
// # Error Handling
//
// Non-2xx responses are classified into *apierr.Error values; match them with
// errors.Is against apierr.ErrAuthentication, apierr.ErrValidation and the
// other sentinels. Transport failures match apierr.ErrUnavailable.
package client
