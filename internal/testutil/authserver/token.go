package authserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

var (
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// Claims are the registered claims plus the session fields the fixture
// checks. Generation ties an access token to the server's current
// generation; bumping it expires every access token issued before.
type Claims struct {
	jwt.RegisteredClaims
	Username   string `json:"username"`
	Kind       string `json:"kind"`
	Generation int64  `json:"gen,omitempty"`
}

func generateToken(c Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secretKey)
}

func parseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}

	if !token.Valid {
		return nil, errInvalidToken
	}

	return claims, nil
}
