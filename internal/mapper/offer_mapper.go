package mapper

import (
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/model"
)

func OfferToEntity(m *model.Offer) *entity.Offer {
	if m == nil {
		return nil
	}
	return &entity.Offer{
		ID:                 m.ID,
		SubscriptionID:     m.SubscriptionID,
		UserID:             m.UserID,
		OriginalPriceCents: m.OriginalPriceCents,
		UserInputCents:     m.UserInputCents,
		OfferPriceCents:    m.OfferPriceCents,
		SavingsCents:       m.SavingsCents,
		DiscountPercent:    m.DiscountPercent,
		Status:             entity.OfferStatus(m.Status),
		ExpiresAt:          m.ExpiresAt,
		AcceptedAt:         m.AcceptedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func OfferToModel(e *entity.Offer) *model.Offer {
	if e == nil {
		return nil
	}
	return &model.Offer{
		ID:                 e.ID,
		SubscriptionID:     e.SubscriptionID,
		UserID:             e.UserID,
		OriginalPriceCents: e.OriginalPriceCents,
		UserInputCents:     e.UserInputCents,
		OfferPriceCents:    e.OfferPriceCents,
		SavingsCents:       e.SavingsCents,
		DiscountPercent:    e.DiscountPercent,
		Status:             string(e.Status),
		ExpiresAt:          e.ExpiresAt,
		AcceptedAt:         e.AcceptedAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
