package sessiontoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerify_SubjectAndRole(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
		Role: "student",
	}, secret)

	got, err := Verify(tok, secret, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ActorID != "student-42" || got.Role != "student" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
		Role: "student",
	}, secret)

	if _, err := Verify(tok, secret, now); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
		Role: "student",
	}, "right_secret")

	if _, err := Verify(tok, "wrong_secret", now); err == nil {
		t.Fatalf("expected error for bad signature")
	}
}

func TestVerify_RejectsMissingRole(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)
	tok := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}, secret)

	if _, err := Verify(tok, secret, now); err == nil {
		t.Fatalf("expected error for missing role")
	}
}
