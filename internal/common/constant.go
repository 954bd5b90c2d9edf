// Package common contains wire names shared by the ledger client and the
// test fixtures that stand in for the ledger API.
package common

// RequestIDHeaderName carries the identifier of one logical request. A
// replayed request reuses the identifier of the original attempt.
const RequestIDHeaderName = "X-Request-ID"

// CookieMetadataKey is the outgoing gRPC metadata key that carries the
// session cookies.
const CookieMetadataKey = "cookie"

// Session cookie names set by the ledger API. Both are HttpOnly.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)
