package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *entity.TradeAlert) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TradeAlert, error)
	FindAllWithAuthor(ctx context.Context, specs ...specification.Specification) ([]*entity.TradeAlert, error)
	Update(ctx context.Context, alert *entity.TradeAlert) error
	Delete(ctx context.Context, id uuid.UUID) error
}
