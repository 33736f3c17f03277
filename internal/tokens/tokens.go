package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "Hjärnan"
	Audience = "HjärnorFörening"
)

// BrainClaims is the session claim carried by every bearer token: the
// registered time-bound claims plus the brain's id and display name.
type BrainClaims struct {
	BrainID   string `json:"id"`
	Brainname string `json:"brainname"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens. Secret and TTL come from
// configuration; the service holds no other state and nothing is persisted
// server-side, so a token stays valid until its natural expiry.
type Service struct {
	Secret []byte
	TTL    time.Duration
}

func (s *Service) Issue(id uuid.UUID, brainname string) (string, error) {
	now := time.Now()
	claims := BrainClaims{
		BrainID:   id.String(),
		Brainname: brainname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify checks signature, issuer, audience and expiry. On any failure it
// reports no claim and no reason: callers treat that as unauthenticated.
func (s *Service) Verify(raw string) (*BrainClaims, bool) {
	var claims BrainClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected sign method")
			}
			return s.Secret, nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, false
	}
	return &claims, true
}
