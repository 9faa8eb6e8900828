package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// AuthService handles signup and login. Signup creates the credential and an
// implicit profile with an unset role; an admin assigns the role later.
type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (string, *domain.Profile, error)
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
}

// Identity is the result of resolving a principal to a role. The four gate
// states are: no principal, principal without profile, profile without role,
// and profile with role.
type Identity struct {
	Principal     string
	Role          string
	DisplayName   string
	ProfileExists bool
}

// IdentityService resolves principals and owns the admin-only user surface.
type IdentityService interface {
	Resolve(ctx context.Context, principalID string) (*Identity, error)
	ListUsers(ctx context.Context, caller Caller) ([]*domain.Profile, error)
	AssignRole(ctx context.Context, caller Caller, profileID, role string) error
}
