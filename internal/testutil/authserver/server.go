// Package authserver is an in-process stand-in for the ledger API used by
// client tests. It issues HS256 JWTs in HttpOnly cookies and serves one
// protected resource.
package authserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/ledgerclient/internal/common"
)

// Paths served by the fixture. They match the client's default endpoints.
const (
	LoginPath    = "/api/auth/login/"
	RegisterPath = "/api/auth/register/"
	RefreshPath  = "/api/auth/token/refresh/"
	VerifyPath   = "/api/auth/token/verify/"
	LogoutPath   = "/api/auth/logout/"
	HealthPath   = "/api/health/"
	AccountsPath = "/api/accounts/"
)

const (
	accessTTL  = 5 * time.Minute
	refreshTTL = 24 * time.Hour
)

// Account is the protected resource.
type Account struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// Server is a running fixture. Close it when done.
type Server struct {
	*httptest.Server

	secret []byte

	mu       sync.Mutex
	users    map[string][]byte
	accounts []Account

	generation  atomic.Int64
	failRefresh atomic.Bool

	refreshCalls atomic.Int32
	verifyCalls  atomic.Int32
	loginCalls   atomic.Int32
}

// New starts a fixture server with no users.
func New() *Server {
	s := &Server{
		secret: []byte("ledger-fixture-secret"),
		users:  map[string][]byte{},
		accounts: []Account{
			{ID: 1, Name: "Cash", Balance: "120.50"},
			{ID: 2, Name: "Checking", Balance: "2048.00"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+LoginPath, s.login)
	mux.HandleFunc("POST "+RegisterPath, s.register)
	mux.HandleFunc("POST "+RefreshPath, s.refresh)
	mux.HandleFunc("POST "+VerifyPath, s.verify)
	mux.HandleFunc("POST "+LogoutPath, s.logout)
	mux.HandleFunc("GET "+HealthPath, s.health)
	mux.HandleFunc("GET "+AccountsPath, s.requireSession(s.listAccounts))
	mux.HandleFunc("POST "+AccountsPath, s.requireSession(s.createAccount))

	s.Server = httptest.NewServer(mux)
	return s
}

// AddUser registers username directly, bypassing the register endpoint.
func (s *Server) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users[username] = hash
	s.mu.Unlock()
	return nil
}

// ExpireAccess invalidates every access token issued so far. Refresh tokens
// stay valid.
func (s *Server) ExpireAccess() {
	s.generation.Add(1)
}

// FailRefresh makes the refresh endpoint reject every call while on is true.
func (s *Server) FailRefresh(on bool) {
	s.failRefresh.Store(on)
}

// RefreshCalls returns how many times the refresh endpoint was called.
func (s *Server) RefreshCalls() int { return int(s.refreshCalls.Load()) }

// VerifyCalls returns how many times the verify endpoint was called.
func (s *Server) VerifyCalls() int { return int(s.verifyCalls.Load()) }

// LoginCalls returns how many times the login endpoint was called.
func (s *Server) LoginCalls() int { return int(s.loginCalls.Load()) }

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.loginCalls.Add(1)

	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Malformed request."})
		return
	}

	s.mu.Lock()
	hash, ok := s.users[in.Username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}

	if err := s.issueAccess(w, in.Username); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	refresh, err := generateToken(Claims{Username: in.Username, Kind: kindRefresh}, s.secret, refreshTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	setCookie(w, common.RefreshCookieName, refresh, refreshTTL)

	writeJSON(w, http.StatusOK, map[string]string{"username": in.Username})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Malformed request."})
		return
	}

	fields := map[string][]string{}
	if in.Username == "" {
		fields["username"] = []string{"This field is required."}
	}
	if in.Password == "" {
		fields["password"] = []string{"This field is required."}
	}

	s.mu.Lock()
	_, exists := s.users[in.Username]
	s.mu.Unlock()
	if exists {
		fields["username"] = []string{"A user with that username already exists."}
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	if err := s.AddUser(in.Username, in.Password); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": in.Username})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	if s.failRefresh.Load() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	ck, err := r.Cookie(common.RefreshCookieName)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Refresh token missing."})
		return
	}
	claims, err := parseToken(ck.Value, s.secret)
	if err != nil || claims.Kind != kindRefresh {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	if err := s.issueAccess(w, claims.Username); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	s.verifyCalls.Add(1)

	if _, ok := s.authenticate(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, common.AccessCookieName)
	clearCookie(w, common.RefreshCookieName)
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]Account(nil), s.accounts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in Account
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"This field is required."}})
		return
	}

	s.mu.Lock()
	in.ID = len(s.accounts) + 1
	if in.Balance == "" {
		in.Balance = "0.00"
	}
	s.accounts = append(s.accounts, in)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, in)
}

// requireSession rejects requests without a current access token.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next(w, r)
	}
}

func (s *Server) authenticate(r *http.Request) (*Claims, bool) {
	ck, err := r.Cookie(common.AccessCookieName)
	if err != nil {
		return nil, false
	}
	claims, err := parseToken(ck.Value, s.secret)
	if err != nil || claims.Kind != kindAccess || claims.Generation != s.generation.Load() {
		return nil, false
	}
	return claims, true
}

func (s *Server) issueAccess(w http.ResponseWriter, username string) error {
	tok, err := generateToken(Claims{
		Username:   username,
		Kind:       kindAccess,
		Generation: s.generation.Load(),
	}, s.secret, accessTTL)
	if err != nil {
		return err
	}
	setCookie(w, common.AccessCookieName, tok, accessTTL)
	return nil
}

func setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
