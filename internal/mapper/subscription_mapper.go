package mapper

import (
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/model"
)

func PlanToEntity(m *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if m == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:              m.Id,
		Name:            m.Name,
		Slug:            m.Slug,
		Description:     m.Description,
		Tagline:         m.Tagline,
		PriceCents:      m.PriceCents,
		AlertsEnabled:   m.AlertsEnabled,
		ChatEnabled:     m.ChatEnabled,
		AlertDailyLimit: m.AlertDailyLimit,
		IsMostPopular:   m.IsMostPopular,
		IsActive:        m.IsActive,
		SortOrder:       m.SortOrder,
	}
}

func SubscriptionToEntity(m *model.UserSubscription) *entity.UserSubscription {
	if m == nil {
		return nil
	}
	return &entity.UserSubscription{
		Id:                   m.Id,
		UserId:               m.UserId,
		PlanId:               m.PlanId,
		Status:               entity.SubscriptionStatus(m.Status),
		PaymentStatus:        entity.PaymentStatus(m.PaymentStatus),
		CurrentPeriodStart:   m.CurrentPeriodStart,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
		StripeSubscriptionID: m.StripeSubscriptionID,
		StripeCustomerID:     m.StripeCustomerID,
		CancelAtPeriodEnd:    m.CancelAtPeriodEnd,
		CanceledAt:           m.CanceledAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func SubscriptionToModel(e *entity.UserSubscription) *model.UserSubscription {
	if e == nil {
		return nil
	}
	return &model.UserSubscription{
		Id:                   e.Id,
		UserId:               e.UserId,
		PlanId:               e.PlanId,
		Status:               string(e.Status),
		PaymentStatus:        string(e.PaymentStatus),
		CurrentPeriodStart:   e.CurrentPeriodStart,
		CurrentPeriodEnd:     e.CurrentPeriodEnd,
		StripeSubscriptionID: e.StripeSubscriptionID,
		StripeCustomerID:     e.StripeCustomerID,
		CancelAtPeriodEnd:    e.CancelAtPeriodEnd,
		CanceledAt:           e.CanceledAt,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}
