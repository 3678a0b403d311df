package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// ExpiryMode selects how session tokens expire.
type ExpiryMode string

const (
	ExpiryNone    ExpiryMode = "none"
	ExpiryFixed   ExpiryMode = "fixed"
	ExpirySliding ExpiryMode = "sliding"
)

const defaultTokenTTL = 24 * time.Hour

// ParseExpiryMode accepts none, fixed or sliding (case-insensitive).
func ParseExpiryMode(s string) (ExpiryMode, error) {
	switch m := ExpiryMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ExpiryNone, ExpiryFixed, ExpirySliding:
		return m, nil
	}
	return "", fmt.Errorf("unknown token expiry mode %q", s)
}

type tokenClaims struct {
	Email string `json:"email"`
	Kind  string `json:"kind,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	mode   ExpiryMode
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, mode ExpiryMode, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	if mode == "" {
		mode = ExpiryFixed
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), mode: mode, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for claim. IssuedAt and ExpiresAt are set by the service.
func (s *TokenService) Issue(claim domain.Claim) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		Email: claim.Email,
		Kind:  string(claim.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  claim.Subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.mode != ExpiryNone {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature (and exp when present) and returns the claim.
func (s *TokenService) Verify(token string) (*domain.Claim, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Email == "" && claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing identity claim", domain.ErrInvalidToken)
	}

	out := &domain.Claim{Subject: claims.Subject, Email: claims.Email, Kind: domain.IdentityKind(claims.Kind)}
	if out.Kind == "" {
		out.Kind = domain.KindUser
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Renew reissues the token for claim when the expiry mode slides.
func (s *TokenService) Renew(claim domain.Claim) (string, bool, error) {
	if s.mode != ExpirySliding {
		return "", false, nil
	}
	token, err := s.Issue(claim)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}
