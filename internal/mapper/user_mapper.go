package mapper

import (
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/model"
)

func UserToEntity(m *model.User) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		Id:               m.Id,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		FullName:         m.FullName,
		Role:             entity.UserRole(m.Role),
		Status:           entity.UserStatus(m.Status),
		EmailVerified:    m.EmailVerified,
		EmailVerifiedAt:  m.EmailVerifiedAt,
		AvatarURL:        m.AvatarURL,
		StripeCustomerID: m.StripeCustomerID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func UserToModel(e *entity.User) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		Id:               e.Id,
		Email:            e.Email,
		PasswordHash:     e.PasswordHash,
		FullName:         e.FullName,
		Role:             string(e.Role),
		Status:           string(e.Status),
		EmailVerified:    e.EmailVerified,
		EmailVerifiedAt:  e.EmailVerifiedAt,
		AvatarURL:        e.AvatarURL,
		StripeCustomerID: e.StripeCustomerID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
