package ports

import (
	"context"
	"io"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// Upload is a file received alongside a form submission.
type Upload struct {
	Filename string
	Content  io.Reader
}

// RegisterInput carries sign-up data. Mobile, Email and ProfileImage are optional.
type RegisterInput struct {
	Name         string
	Mobile       string
	Email        string
	Secret       string
	ProfileImage *Upload
}

// AuthResult is returned after a successful sign-up or sign-in.
type AuthResult struct {
	Token    string
	Identity *domain.Identity
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, secret string) (*AuthResult, error)
	Profile(ctx context.Context, claim domain.Claim) (*domain.Identity, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claim domain.Claim) (string, error)
}

// TokenVerifier validates session tokens. Renew returns a fresh token when the
// configured expiry mode slides; ok is false otherwise.
type TokenVerifier interface {
	Verify(token string) (*domain.Claim, error)
	Renew(claim domain.Claim) (token string, ok bool, err error)
}
