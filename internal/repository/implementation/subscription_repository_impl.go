package implementation

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/mapper"
	"trade-alerts-be/internal/model"
	"trade-alerts-be/internal/repository/contract"
	"trade-alerts-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type planRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) contract.PlanRepository {
	return &planRepositoryImpl{db: db}
}

func (r *planRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	var mp model.SubscriptionPlan
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return mapper.PlanToEntity(&mp), nil
}

func (r *planRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var modelPlans []*model.SubscriptionPlan
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelPlans).Error; err != nil {
		return nil, err
	}

	var plans []*entity.SubscriptionPlan
	for _, mp := range modelPlans {
		plans = append(plans, mapper.PlanToEntity(mp))
	}

	return plans, nil
}

func (r *planRepositoryImpl) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(&model.SubscriptionPlan{
		Id:              plan.Id,
		Name:            plan.Name,
		Slug:            plan.Slug,
		Description:     plan.Description,
		Tagline:         plan.Tagline,
		PriceCents:      plan.PriceCents,
		AlertsEnabled:   plan.AlertsEnabled,
		ChatEnabled:     plan.ChatEnabled,
		AlertDailyLimit: plan.AlertDailyLimit,
		IsMostPopular:   plan.IsMostPopular,
		IsActive:        plan.IsActive,
		SortOrder:       plan.SortOrder,
	}).Error
}

type subscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db}
}

func (r *subscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.UserSubscription) error {
	return r.db.WithContext(ctx).Create(mapper.SubscriptionToModel(sub)).Error
}

func (r *subscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	var ms model.UserSubscription
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&ms).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return mapper.SubscriptionToEntity(&ms), nil
}

func (r *subscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var modelSubs []*model.UserSubscription
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelSubs).Error; err != nil {
		return nil, err
	}

	var subs []*entity.UserSubscription
	for _, ms := range modelSubs {
		subs = append(subs, mapper.SubscriptionToEntity(ms))
	}

	return subs, nil
}

func (r *subscriptionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.UserSubscription{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *subscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.UserSubscription) error {
	return r.db.WithContext(ctx).Model(&model.UserSubscription{}).
		Where("id = ?", sub.Id).
		Updates(map[string]interface{}{
			"status":                 string(sub.Status),
			"payment_status":         string(sub.PaymentStatus),
			"current_period_start":   sub.CurrentPeriodStart,
			"current_period_end":     sub.CurrentPeriodEnd,
			"stripe_subscription_id": sub.StripeSubscriptionID,
			"stripe_customer_id":     sub.StripeCustomerID,
			"cancel_at_period_end":   sub.CancelAtPeriodEnd,
			"canceled_at":            sub.CanceledAt,
		}).Error
}

func (r *subscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserSubscription{}, id).Error
}
