package client

import "strings"

// isAuthFlow reports whether path belongs to an endpoint whose 401 is a
// final answer rather than a sign of an expired session. path is compared in
// the form resolve sends it, so "api/auth/login/" and "/api/auth/login/" match
// alike.
func (c *HTTPClient) isAuthFlow(path string) bool {
	path = "/" + strings.TrimLeft(path, "/")
	for _, fragment := range c.endpoints.AuthFlow() {
		if fragment != "" && strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
