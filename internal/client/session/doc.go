// Package session keeps the ledger client's view of whether its cookie-borne
// session is usable, and serializes renewal of that session.
//
// Coordinator guarantees at most one renewal call in flight. Callers that
// need a fresh session while a renewal is running are queued and resumed in
// arrival order once it settles; each observes the same outcome. On success
// the ValidationCache is marked valid, on failure it is cleared so that the
// next validity check goes back to the server.
//
// Neither type ever sees a credential value: renewal is a RenewFunc supplied
// by the transport layer, which carries credentials implicitly.
package session
