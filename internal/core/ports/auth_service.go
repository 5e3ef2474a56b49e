package ports

import (
	"context"

	"github.com/fixmycity/report-system/internal/core/domain"
)

// RegisterInput carries the registration payload into AuthService.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Role is optional; anything outside the closed role set falls back to citizen.
	Role string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
