package topic

import (
	"context"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
)

var ErrNotFound = fmt.Errorf("topic not found")

// Repository defines the operations for persisting and retrieving Topic entities.
type Repository interface {
	Create(ctx context.Context, t *Topic) error
	GetByID(ctx context.Context, id int64) (*Topic, error)
	List(ctx context.Context, opts listing.Options) ([]*Topic, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
