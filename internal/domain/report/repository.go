package report

import (
	"context"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
)

var (
	ErrNotFound    = fmt.Errorf("report not found")
	ErrAlreadySent = fmt.Errorf("report is already marked sent")
)

// Repository defines operations for Report persistence.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	List(ctx context.Context, opts listing.Options) ([]*Report, error)
	ListByStudent(ctx context.Context, studentID int64, opts listing.Options) ([]*Report, error)
	// ListUnsent returns reports not yet delivered to a parent, oldest lesson first.
	ListUnsent(ctx context.Context) ([]*Report, error)
	CountByStudent(ctx context.Context, studentID int64) (int, error)
	// MarkSent flips IsSent from false to true. It returns ErrNotFound for unknown
	// ids and ErrAlreadySent when the flag was set before.
	MarkSent(ctx context.Context, id int64) error
}
