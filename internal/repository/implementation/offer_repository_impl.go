package implementation

import (
	"context"
	"time"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/mapper"
	"trade-alerts-be/internal/model"
	"trade-alerts-be/internal/repository/contract"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type offerRepositoryImpl struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) contract.OfferRepository {
	return &offerRepositoryImpl{db: db}
}

func (r *offerRepositoryImpl) Create(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Create(mapper.OfferToModel(offer)).Error
}

func (r *offerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error) {
	var mo model.Offer
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return mapper.OfferToEntity(&mo), nil
}

func (r *offerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error) {
	var modelOffers []*model.Offer
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelOffers).Error; err != nil {
		return nil, err
	}

	var offers []*entity.Offer
	for _, mo := range modelOffers {
		offers = append(offers, mapper.OfferToEntity(mo))
	}

	return offers, nil
}

func (r *offerRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Offer{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *offerRepositoryImpl) Update(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.ID).
		Updates(map[string]interface{}{
			"status":      string(offer.Status),
			"expires_at":  offer.ExpiresAt,
			"accepted_at": offer.AcceptedAt,
		}).Error
}

func (r *offerRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Offer{}, id).Error
}

func (r *offerRepositoryImpl) ExpireStale(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("status = ? AND expires_at <= ?", string(entity.OfferStatusPending), time.Now()).
		Update("status", string(entity.OfferStatusExpired))
	return result.RowsAffected, result.Error
}
