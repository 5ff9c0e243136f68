package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
)

// OfferRepository persists retention offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, offer *entity.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExpireStale flips pending offers past their expiry to expired.
	ExpireStale(ctx context.Context) (int64, error)
}
