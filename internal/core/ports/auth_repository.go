package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// CredentialRepository defines persistence for local password logins.
type CredentialRepository interface {
	Create(ctx context.Context, c *domain.Credential) error
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
}
