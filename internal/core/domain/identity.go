package domain

import (
	"errors"
	"time"
)

// IdentityKind names the credential pool an identity belongs to.
type IdentityKind string

const (
	KindUser  IdentityKind = "user"
	KindAdmin IdentityKind = "admin"
)

var (
	ErrDuplicateIdentity  = errors.New("an account with this mobile or email already exists")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity models an account able to sign in.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile,omitempty"`
	Email        string    `json:"email,omitempty"`
	SecretHash   string    `json:"-"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claim is the identity-derived payload carried by a session token.
type Claim struct {
	Subject   string // identity id
	Email     string
	Kind      IdentityKind
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token never expires
}
