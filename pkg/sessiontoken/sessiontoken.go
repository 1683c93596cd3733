package sessiontoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the portal session token payload. The identity provider mints
// these; we only verify. Subject carries the actor id.
type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role,omitempty"`
}

type VerifiedSession struct {
	ActorID   string
	Role      string
	ExpiresAt time.Time
}

// Verify checks an HS256 session token against the shared portal secret and
// returns the actor identity it carries.
func Verify(tokenString, secret string, now time.Time) (*VerifiedSession, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing session secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.NotBefore != nil && claims.NotBefore.Time.After(now) {
		return nil, fmt.Errorf("token not active yet")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject in token")
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("missing role in token")
	}

	return &VerifiedSession{
		ActorID:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
