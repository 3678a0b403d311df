package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/api/middleware"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, identifier, secret string) (*ports.AuthResult, error)
	profileFn  func(ctx context.Context, claim domain.Claim) (*domain.Identity, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, secret string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, identifier, secret)
}

func (s *stubAuthService) Profile(ctx context.Context, claim domain.Claim) (*domain.Identity, error) {
	return s.profileFn(ctx, claim)
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := newEcho()
	var gotImage string
	users := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "Asha" || in.Email != "asha@example.com" || in.Mobile != "9876543210" || in.Secret != "pw" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.ProfileImage == nil || in.ProfileImage.Filename != "me.png" {
				t.Fatalf("expected profile image, got %+v", in.ProfileImage)
			}
			b, _ := io.ReadAll(in.ProfileImage.Content)
			gotImage = string(b)
			return &ports.AuthResult{
				Token:    "token123",
				Identity: &domain.Identity{Name: in.Name, Email: in.Email},
			}, nil
		},
	}
	h := NewAuthHandler(users, &stubAuthService{})

	req := multipartRequest(t, "/signup", map[string]string{
		"name":   "Asha",
		"email":  "asha@example.com",
		"mobile": "9876543210",
		"secret": "pw",
	}, formFile{field: "profileImage", name: "me.png", content: "img"})
	rec := httptest.NewRecorder()

	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotImage != "img" {
		t.Errorf("image content = %q", gotImage)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Name != "Asha" || resp.Email != "asha@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_AdminSignUp_UsesAdminPool(t *testing.T) {
	e := newEcho()
	admins := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.ProfileImage != nil {
				t.Fatalf("no image was sent")
			}
			return &ports.AuthResult{Token: "t", Identity: &domain.Identity{Name: in.Name}}, nil
		},
	}
	users := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("user pool must not be used")
			return nil, nil
		},
	}
	h := NewAuthHandler(users, admins)

	req := multipartRequest(t, "/adminsignup", map[string]string{"name": "Root", "email": "root@x.com", "secret": "pw"})
	rec := httptest.NewRecorder()
	if err := h.AdminSignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	e := newEcho()
	users := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateIdentity
		},
	}
	h := NewAuthHandler(users, &stubAuthService{})

	req := multipartRequest(t, "/signup", map[string]string{"name": "B", "email": "b@x.com", "secret": "pw"})
	err := h.SignUp(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newEcho()
	users := &stubAuthService{
		loginFn: func(_ context.Context, identifier, secret string) (*ports.AuthResult, error) {
			if identifier != "alice@example.com" || secret != "secret" {
				t.Fatalf("unexpected args: %s %s", identifier, secret)
			}
			return &ports.AuthResult{Token: "token123", Identity: &domain.Identity{Name: "Alice", Email: identifier}}, nil
		},
	}
	h := NewAuthHandler(users, &stubAuthService{})

	req := jsonRequest(http.MethodPost, "/signin", `{"identifier":"alice@example.com","secret":"secret"}`)
	rec := httptest.NewRecorder()
	if err := h.SignIn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Name != "Alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_SignIn_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		loginFn func(context.Context, string, string) (*ports.AuthResult, error)
		want    error
	}{
		{
			name: "invalid json",
			body: "not-json",
			want: domain.ErrValidation,
		},
		{
			name: "missing secret",
			body: `{"identifier":"a@x.com"}`,
			want: domain.ErrValidation,
		},
		{
			name: "wrong credentials",
			body: `{"identifier":"a@x.com","secret":"nope"}`,
			loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
				return nil, domain.ErrInvalidCredentials
			},
			want: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubAuthService{loginFn: tt.loginFn}
			if users.loginFn == nil {
				users.loginFn = func(context.Context, string, string) (*ports.AuthResult, error) {
					t.Fatalf("service should not be called")
					return nil, nil
				}
			}
			h := NewAuthHandler(users, &stubAuthService{})

			req := jsonRequest(http.MethodPost, "/signin", tt.body)
			err := h.SignIn(newEcho().NewContext(req, httptest.NewRecorder()))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	e := newEcho()
	admins := &stubAuthService{
		profileFn: func(_ context.Context, claim domain.Claim) (*domain.Identity, error) {
			return &domain.Identity{Name: "Root", Email: claim.Email, SecretHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, admins)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), rec)
	c.Set(middleware.ContextKeyClaim, domain.Claim{Email: "root@x.com", Kind: domain.KindAdmin})

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["email"] != "root@x.com" {
		t.Errorf("unexpected payload: %v", body)
	}
	for k := range body {
		if k == "secret_hash" || k == "SecretHash" {
			t.Errorf("secret hash leaked in profile")
		}
	}
}

func TestAuthHandler_Profile_NoClaim(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAuthService{})
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), httptest.NewRecorder())
	if err := h.Profile(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
