package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 30 * time.Minute

type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies stateless HS256 bearer tokens. There is no
// revocation list; a compromised secret is handled by rotating it, which
// invalidates every outstanding token at once.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}
}

func (s *Service) Issue(subject string) (string, error) {
	return s.IssueFor(subject, s.ttl)
}

func (s *Service) IssueFor(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify reports whether raw is a token this service issued and still
// trusts. Forged, malformed and expired tokens are indistinguishable to the
// caller: all of them come back as ok=false.
func (s *Service) Verify(raw string) (*Claims, bool) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, false
	}
	return claims, true
}
