package implementation

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/model"
	"trade-alerts-be/internal/repository/contract"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verificationTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) contract.VerificationTokenRepository {
	return &verificationTokenRepositoryImpl{db: db}
}

func (r *verificationTokenRepositoryImpl) Create(ctx context.Context, token *entity.EmailVerificationToken) error {
	return r.db.WithContext(ctx).Create(&model.EmailVerificationToken{
		Id:        token.Id,
		UserId:    token.UserId,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}).Error
}

func (r *verificationTokenRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	var mt model.EmailVerificationToken
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mt).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &entity.EmailVerificationToken{
		Id:        mt.Id,
		UserId:    mt.UserId,
		Token:     mt.Token,
		ExpiresAt: mt.ExpiresAt,
		CreatedAt: mt.CreatedAt,
	}, nil
}

func (r *verificationTokenRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.EmailVerificationToken{}).Error
}
