package ports

import (
	"context"

	"github.com/fixmycity/report-system/internal/core/domain"
)

// UserUpdate carries the mutable fields of the administrative update path.
// Nil pointers mean "leave unchanged".
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// UserRepository defines the administrative user-management persistence surface.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// UserService defines the admin-only user management operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
