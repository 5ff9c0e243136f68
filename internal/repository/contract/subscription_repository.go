package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PlanRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.UserSubscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, sub *entity.UserSubscription) error
	Delete(ctx context.Context, id uuid.UUID) error
}
