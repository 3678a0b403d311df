package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

const (
	defaultPhoneRegion = "IN"
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxSecretBytes = 72
)

// AuthOptions configures one credential pool.
type AuthOptions struct {
	Kind        domain.IdentityKind
	BcryptCost  int
	PhoneRegion string
}

// AuthService implements registration, sign-in and profile lookup for one pool.
type AuthService struct {
	repo   ports.IdentityRepository
	tokens ports.TokenIssuer
	assets ports.AssetStore
	opts   AuthOptions
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(repo ports.IdentityRepository, tokens ports.TokenIssuer, assets ports.AssetStore, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.Kind == "" {
		opts.Kind = domain.KindUser
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = defaultPhoneRegion
	}
	return &AuthService{repo: repo, tokens: tokens, assets: assets, opts: opts, log: log}
}

// Register creates an identity. The profile image, when given, is stored first
// and removed again if the identity cannot be persisted.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || in.Secret == "" {
		return nil, fmt.Errorf("%w: name and secret are required", domain.ErrValidation)
	}
	if len(in.Secret) > maxSecretBytes {
		return nil, fmt.Errorf("%w: secret exceeds %d bytes", domain.ErrValidation, maxSecretBytes)
	}
	if email == "" && strings.TrimSpace(in.Mobile) == "" {
		return nil, fmt.Errorf("%w: mobile or email is required", domain.ErrValidation)
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email", domain.ErrValidation)
	}

	var mobile string
	if strings.TrimSpace(in.Mobile) != "" {
		m, err := normalizeMobile(in.Mobile, s.opts.PhoneRegion)
		if err != nil {
			return nil, err
		}
		mobile = m
	}

	for _, key := range []string{email, mobile} {
		if key == "" {
			continue
		}
		_, err := s.repo.FindBySignInKey(ctx, key)
		if err == nil {
			return nil, domain.ErrDuplicateIdentity
		}
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, fmt.Errorf("register: lookup: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Secret), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash secret: %w", err)
	}

	var imagePath string
	if in.ProfileImage != nil {
		imagePath, err = s.assets.Save(ctx, in.ProfileImage.Filename, in.ProfileImage.Content)
		if err != nil {
			return nil, fmt.Errorf("register: store profile image: %w", err)
		}
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Identity{
		Name:         name,
		Mobile:       mobile,
		Email:        email,
		SecretHash:   string(hash),
		ProfileImage: imagePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if imagePath != "" {
			if delErr := s.assets.Delete(ctx, imagePath); delErr != nil {
				s.log.Warn().Err(delErr).Str("path", imagePath).Msg("failed to remove orphaned profile image")
			}
		}
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.issue(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", string(s.opts.Kind)).Str("identity_id", created.ID).Msg("identity registered")
	return &ports.AuthResult{Token: token, Identity: created}, nil
}

// Login verifies identifier/secret and issues a token. Unknown identifiers and
// wrong secrets are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*ports.AuthResult, error) {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return nil, fmt.Errorf("%w: identifier and secret are required", domain.ErrValidation)
	}

	identity, err := s.FindBySignInKey(ctx, identifier)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.throwawayHash(), []byte(secret))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.VerifySecret(identity, secret) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(identity)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

// FindBySignInKey looks an identity up by mobile or email.
func (s *AuthService) FindBySignInKey(ctx context.Context, identifier string) (*domain.Identity, error) {
	return s.repo.FindBySignInKey(ctx, s.signInKey(identifier))
}

// VerifySecret compares candidate against the stored bcrypt hash.
func (s *AuthService) VerifySecret(identity *domain.Identity, candidate string) bool {
	if identity == nil || identity.SecretHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(identity.SecretHash), []byte(candidate)) == nil
}

// Profile returns the identity a token claim points at: by email when the
// claim has one, by identity id otherwise.
func (s *AuthService) Profile(ctx context.Context, claim domain.Claim) (*domain.Identity, error) {
	if claim.Email != "" {
		return s.repo.FindByEmail(ctx, normalizeEmail(claim.Email))
	}
	if claim.Subject == "" {
		return nil, domain.ErrIdentityNotFound
	}
	return s.repo.FindByID(ctx, claim.Subject)
}

func (s *AuthService) issue(identity *domain.Identity) (string, error) {
	token, err := s.tokens.Issue(domain.Claim{Subject: identity.ID, Email: identity.Email, Kind: s.opts.Kind})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *AuthService) signInKey(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return normalizeEmail(identifier)
	}
	if m, err := normalizeMobile(identifier, s.opts.PhoneRegion); err == nil {
		return m
	}
	return identifier
}

func (s *AuthService) throwawayHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("throwaway-secret"), s.opts.BcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeMobile returns the E.164 form of raw, parsed relative to region.
func normalizeMobile(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", fmt.Errorf("%w: malformed mobile number", domain.ErrValidation)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: invalid mobile number", domain.ErrValidation)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
