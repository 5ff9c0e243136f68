package user

import (
	"context"
	"fmt"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	adminEvents "trade-alerts-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles user-related admin operations
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

// List returns a page of users with their subscription flag. A non-empty
// search narrows the page by email substring.
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, page, pageSize int, search string) (*dto.AdminUserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var filters []specification.Specification
	if search != "" {
		filters = append(filters, specification.SearchEmail{Query: search})
	}

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	users, err := uow.UserRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)...)
	if err != nil {
		return nil, err
	}

	res := &dto.AdminUserListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Users:    make([]dto.AdminUserResponse, 0, len(users)),
	}

	for _, u := range users {
		sub, err := uow.SubscriptionRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: u.Id},
			specification.Filter("status", string(entity.SubscriptionStatusActive)),
		)
		if err != nil {
			return nil, err
		}
		res.Users = append(res.Users, dto.AdminUserResponse{
			Id:            u.Id,
			Email:         u.Email,
			FullName:      u.FullName,
			Role:          string(u.Role),
			Status:        string(u.Status),
			EmailVerified: u.EmailVerified,
			Subscribed:    sub != nil,
			CreatedAt:     u.CreatedAt,
		})
	}

	return res, nil
}

// Update changes role/status on one user.
func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	if req.Status != nil {
		user.Status = entity.UserStatus(*req.Status)
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	m.logger.Info("ADMIN", "User updated", map[string]interface{}{
		"user_id": userId,
		"role":    string(user.Role),
		"status":  string(user.Status),
	})

	return user, nil
}

// Delete removes a user account (soft delete).
func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "User deleted", map[string]interface{}{"user_id": userId})
	return nil
}
