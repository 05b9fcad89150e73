package student

import (
	"context"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
)

var ErrNotFound = fmt.Errorf("student not found")

// Repository defines the operations for persisting and retrieving Student entities.
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	List(ctx context.Context, opts listing.Options) ([]*Student, error)
	Update(ctx context.Context, id int64, upd Update) error
	// Delete removes the student and reports whether a row existed.
	// Reports that reference the student are left in place.
	Delete(ctx context.Context, id int64) (bool, error)
}
