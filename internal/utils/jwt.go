package utils // package utils provides helpers for session tokens and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by ParseSessionToken when the token is
// well-formed and correctly signed but past its expiry. Callers surface a
// machine-checkable "token_expired" code so clients can refresh silently.
var ErrTokenExpired = errors.New("token expired")

// SessionToken is a signed HS256 JWT plus its expiry. Tokens carry the
// account id, username and role; admins get a shorter lifetime than
// managers.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the identity extracted from a verified token. The role
// claim is informational only: admin routes re-read the account row rather
// than trusting it.
type SessionClaims struct {
	AccountID uint64
	Username  string
	Role      string
}

// NewSessionToken builds and signs an HS256 JWT for an account. Claims:
// sub (account id), username, role, exp, iat.
func NewSessionToken(secret string, accountID uint64, username, role string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":      accountID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a bearer token and
// returns its claims. Expired tokens return ErrTokenExpired; every other
// failure is a generic error so callers cannot distinguish forged tokens.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, err
	}
	if !tok.Valid {
		return SessionClaims{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errors.New("invalid claims")
	}
	out := SessionClaims{}
	switch sub := claims["sub"].(type) {
	case float64:
		out.AccountID = uint64(sub)
	default:
		return SessionClaims{}, errors.New("missing subject")
	}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	return out, nil
}
