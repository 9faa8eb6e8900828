package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	identity    ports.IdentityService
}

func NewAuthHandler(authService ports.AuthService, identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{authService: authService, identity: identity}
}

type signupRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Profile profileResponse `json:"profile"`
}

// Signup creates a credential and an implicit profile with an unset role.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Token: token,
		Profile: profileResponse{
			ID:       profile.ID,
			Role:     profile.Role,
			FullName: profile.FullName,
			Email:    profile.Email,
		},
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: token,
		Profile: profileResponse{
			ID:       profile.ID,
			Role:     profile.Role,
			FullName: profile.FullName,
			Email:    profile.Email,
		},
	})
}

type meResponse struct {
	Principal     string `json:"principal"`
	Role          string `json:"role"`
	DisplayName   string `json:"display_name"`
	ProfileExists bool   `json:"profile_exists"`
}

// Me resolves the caller through the role gate states, so a client can route
// to the right dashboard or the waiting screen.
//
// @Summary      Resolve the current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principalID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id, err := h.identity.Resolve(c.Request().Context(), principalID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{
		Principal:     id.Principal,
		Role:          id.Role,
		DisplayName:   id.DisplayName,
		ProfileExists: id.ProfileExists,
	})
}
