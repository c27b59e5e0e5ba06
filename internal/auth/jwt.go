package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/eventbooking/internal/clock"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/golang-jwt/jwt"
)

const issuer = "eventbooking"

// Authenticator issues and verifies signed identity tokens. The token subject
// is the user id.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewAuthenticator(secret string, ttl time.Duration, clk clock.Clock) *Authenticator {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (a *Authenticator) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	now := a.clock.Now()
	claims := jwt.StandardClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(a.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse returns the user id carried by token, or ErrUnauthenticated.
func (a *Authenticator) Parse(token string) (string, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthenticated
	}

	now := a.clock.Now().Unix()
	if !claims.VerifyExpiresAt(now, true) || claims.Issuer != issuer || claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}
