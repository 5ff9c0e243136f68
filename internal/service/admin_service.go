package service

import (
	"context"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/unitofwork"
	adminCancellation "trade-alerts-be/pkg/admin/cancellation"
	adminDashboard "trade-alerts-be/pkg/admin/dashboard"
	adminEvents "trade-alerts-be/pkg/admin/events"
	adminUser "trade-alerts-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	ListUsers(ctx context.Context, page, pageSize int, search string) (*dto.AdminUserListResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req dto.AdminUpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ListCancellations(ctx context.Context, limit, offset int) ([]dto.AdminCancellationResponse, error)
	ProcessCancellation(ctx context.Context, cancellationID uuid.UUID) error
	GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	Broadcast(ctx context.Context, title, message string)
}

type adminService struct {
	uowFactory    unitofwork.RepositoryFactory
	users         *adminUser.Manager
	cancellations *adminCancellation.Manager
	dashboard     *adminDashboard.Aggregator
	publisher     adminEvents.Publisher
	logger        logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, publisher adminEvents.Publisher, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory:    uowFactory,
		users:         adminUser.NewManager(log, publisher),
		cancellations: adminCancellation.NewManager(log, publisher),
		dashboard:     adminDashboard.NewAggregator(log),
		publisher:     publisher,
		logger:        log,
	}
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int, search string) (*dto.AdminUserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.users.List(ctx, uow, page, pageSize, search)
}

func (s *adminService) UpdateUser(ctx context.Context, userID uuid.UUID, req dto.AdminUpdateUserRequest) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.users.Update(ctx, uow, userID, req)
}

func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.users.Delete(ctx, uow, userID)
}

func (s *adminService) ListCancellations(ctx context.Context, limit, offset int) ([]dto.AdminCancellationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.cancellations.List(ctx, uow, limit, offset)
}

func (s *adminService) ProcessCancellation(ctx context.Context, cancellationID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.cancellations.MarkProcessed(ctx, uow, cancellationID)
}

func (s *adminService) GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboard.GetStats(ctx, uow)
}

func (s *adminService) Broadcast(ctx context.Context, title, message string) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBroadcast(ctx, title, message)
}
