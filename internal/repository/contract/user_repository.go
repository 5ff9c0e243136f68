package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}

type VerificationTokenRepository interface {
	Create(ctx context.Context, token *entity.EmailVerificationToken) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
