package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/api/metrics"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// AuthHandler serves sign-up, sign-in and profile for both credential pools.
type AuthHandler struct {
	users  ports.AuthService
	admins ports.AuthService
}

func NewAuthHandler(users, admins ports.AuthService) *AuthHandler {
	return &AuthHandler{users: users, admins: admins}
}

type signInRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret"     validate:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignUp creates a user account.
//
// @Summary      Register a user
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        name          formData  string  true   "Display name"
// @Param        mobile        formData  string  false  "Mobile number"
// @Param        email         formData  string  false  "Email"
// @Param        secret        formData  string  true   "Secret"
// @Param        profileImage  formData  file    false  "Profile image"
// @Success      201           {object}  authResponse
// @Failure      400           {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	return h.register(c, h.users, domain.KindUser)
}

// AdminSignUp creates an admin account.
//
// @Summary      Register an admin
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        name          formData  string  true   "Display name"
// @Param        mobile        formData  string  false  "Mobile number"
// @Param        email         formData  string  false  "Email"
// @Param        secret        formData  string  true   "Secret"
// @Param        profileImage  formData  file    false  "Profile image"
// @Success      201           {object}  authResponse
// @Failure      400           {object}  errorResponse
// @Router       /adminsignup [post]
func (h *AuthHandler) AdminSignUp(c echo.Context) error {
	return h.register(c, h.admins, domain.KindAdmin)
}

// SignIn authenticates a user by mobile or email.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	return h.login(c, h.users, domain.KindUser)
}

// AdminSignIn authenticates an admin by mobile or email.
//
// @Summary      Admin sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /adminsignin [post]
func (h *AuthHandler) AdminSignIn(c echo.Context) error {
	return h.login(c, h.admins, domain.KindAdmin)
}

// Profile returns the identity behind the bearer token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claim, err := ctxClaim(c)
	if err != nil {
		return err
	}

	svc := h.users
	if claim.Kind == domain.KindAdmin {
		svc = h.admins
	}

	identity, err := svc.Profile(c.Request().Context(), claim)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

func (h *AuthHandler) register(c echo.Context, svc ports.AuthService, kind domain.IdentityKind) error {
	in := ports.RegisterInput{
		Name:   c.FormValue("name"),
		Mobile: c.FormValue("mobile"),
		Email:  c.FormValue("email"),
		Secret: c.FormValue("secret"),
	}

	fh, err := c.FormFile("profileImage")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return fmt.Errorf("%w: unreadable profile image", domain.ErrValidation)
	default:
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open profile image: %w", err)
		}
		defer f.Close()
		in.ProfileImage = &ports.Upload{Filename: fh.Filename, Content: f}
	}

	result, err := svc.Register(c.Request().Context(), in)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", string(kind), "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("signup", string(kind), "success").Inc()

	return c.JSON(http.StatusCreated, authResponse{
		Token: result.Token,
		Name:  result.Identity.Name,
		Email: result.Identity.Email,
	})
}

func (h *AuthHandler) login(c echo.Context, svc ports.AuthService, kind domain.IdentityKind) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := svc.Login(c.Request().Context(), req.Identifier, req.Secret)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signin", string(kind), "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("signin", string(kind), "success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		Name:  result.Identity.Name,
		Email: result.Identity.Email,
	})
}
