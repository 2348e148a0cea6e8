package billing

import (
	"context"

	"github.com/google/uuid"
)

// UserStore defines user persistence as seen by the orchestrator.
type UserStore interface {
	// Get retrieves a user by id. Returns ErrUserNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*User, error)

	// FindSubscribedByRole returns users of the given role that carry an
	// active subscription id. Used by the renewal sweep.
	FindSubscribedByRole(ctx context.Context, role Role) ([]User, error)

	// Save persists the user record.
	Save(ctx context.Context, u *User) error
}

// ProductStore resolves purchasable plans.
type ProductStore interface {
	// Get retrieves a product by id. Returns ErrProductNotFound if absent.
	Get(ctx context.Context, id string) (*Product, error)
}

// EnrollmentStore resolves program enrollments for the renewal sweep.
type EnrollmentStore interface {
	// FindByUser returns the user's enrollments, newest first. Users without
	// an enrollment are skipped by the sweep.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
}
