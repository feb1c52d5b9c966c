package person

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
)

// Repository defines the interface for person data operations
type Repository interface {
	// Create creates a new person
	Create(ctx context.Context, p *Person) error

	// GetByID retrieves a person by internal ID
	GetByID(ctx context.Context, id uint) (*Person, error)

	// GetByUID retrieves a person by Debian account name
	GetByUID(ctx context.Context, uid string) (*Person, error)

	// GetByEmail retrieves a person by email
	GetByEmail(ctx context.Context, email string) (*Person, error)

	// GetByFingerprint retrieves a person by normalized fingerprint
	GetByFingerprint(ctx context.Context, fpr string) (*Person, error)

	// Update updates an existing person
	Update(ctx context.Context, p *Person) error

	// Delete removes a person record. Only expired provisional records are
	// ever deleted; callers enforce that.
	Delete(ctx context.Context, id uint) error

	// List retrieves a paginated list of persons
	List(ctx context.Context, filter ListFilter) ([]*Person, int64, error)

	// ListWithFingerprint retrieves every person with a non-null fingerprint
	ListWithFingerprint(ctx context.Context) ([]*Person, error)

	// ListWithUID retrieves every person with a Debian account name
	ListWithUID(ctx context.Context) ([]*Person, error)

	// ListByStatus retrieves every person holding one of the given statuses
	ListByStatus(ctx context.Context, statuses ...membership.Status) ([]*Person, error)

	// ListExpiredBefore retrieves provisional records whose expiry has passed
	ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*Person, error)

	// ExistsByEmail checks if a person exists by email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ListFilter represents filtering and pagination options for person listing
type ListFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status,omitempty"`
	UID      string `json:"uid,omitempty"`
	Email    string `json:"email,omitempty"`
	OrderBy  string `json:"order_by,omitempty"`
	Order    string `json:"order,omitempty"`
}
