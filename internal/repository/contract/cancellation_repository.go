package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CancellationRepository records completed cancellations for admin review.
type CancellationRepository interface {
	Create(ctx context.Context, cancellation *entity.Cancellation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Cancellation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cancellation, error)
	FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.Cancellation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, cancellation *entity.Cancellation) error
	Delete(ctx context.Context, id uuid.UUID) error
}
