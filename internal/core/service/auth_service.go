package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// AuthService implements signup and login. Signup creates the credential and
// an implicit profile with an unset role; an admin assigns the role later,
// so a fresh account lands in the waiting state of the role gate.
type AuthService struct {
	credentials ports.CredentialRepository
	profiles    ports.ProfileRepository
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthService(credentials ports.CredentialRepository, profiles ports.ProfileRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{credentials: credentials, profiles: profiles, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if _, err := s.credentials.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:        uuid.NewString(),
		Role:      domain.RoleNone,
		FullName:  fullName,
		Email:     email,
		CreatedAt: now,
	}

	// Profile first: a credential without a profile cannot log in and blocks
	// the email, while a roleless profile without a credential is inert.
	if err := s.profiles.Create(ctx, profile); err != nil {
		return "", nil, err
	}
	if err := s.credentials.Create(ctx, &domain.Credential{
		ProfileID:    profile.ID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(profile.ID, email)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByID(ctx, cred.ProfileID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(profile.ID, email)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// generateToken signs a bearer token carrying only the principal identity.
// The role is deliberately absent: it is resolved from the profile row on
// every request so admin role changes take effect immediately.
func (s *AuthService) generateToken(profileID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   profileID,
		"email": email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
