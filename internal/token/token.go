package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/transify-app/transify-api/internal/rbac"
)

const defaultSessionTTL = 24 * time.Hour

// ErrInvalidToken indicates the session token failed signature or claim checks.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the admin session claims embedded in the custom token handed to
// the client after OTP verification.
type Claims struct {
	Email          string    `json:"email"`
	AdminRole      rbac.Role `json:"adminRole"`
	OrganizationID string    `json:"organizationId"`
	jwt.RegisteredClaims
}

// Issuer signs and parses admin session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs a token issuer with the given HMAC secret.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed session token carrying the admin's role and
// organization as claims.
func (i *Issuer) Issue(userID, email string, role rbac.Role, organizationID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:          email,
		AdminRole:      role,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns its claims.
func (i *Issuer) Parse(raw string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
