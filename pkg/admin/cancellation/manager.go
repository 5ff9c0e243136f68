package cancellation

import (
	"context"
	"fmt"
	"time"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	adminEvents "trade-alerts-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles cancellation review for the admin dashboard
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

// List returns recent cancellation records with user details.
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, limit, offset int) ([]dto.AdminCancellationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := uow.CancellationRepository().FindAllWithDetails(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.AdminCancellationResponse, 0, len(records))
	for _, c := range records {
		res = append(res, dto.AdminCancellationResponse{
			Id:            c.ID,
			UserEmail:     c.User.Email,
			Reason:        c.Reason,
			EffectiveDate: c.EffectiveDate,
			ProcessedAt:   c.ProcessedAt,
			CreatedAt:     c.CreatedAt,
		})
	}
	return res, nil
}

// MarkProcessed stamps a cancellation record as reviewed.
func (m *Manager) MarkProcessed(ctx context.Context, uow unitofwork.UnitOfWork, cancellationId uuid.UUID) error {
	record, err := uow.CancellationRepository().FindOne(ctx, specification.ByID{ID: cancellationId})
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("cancellation not found")
	}
	if record.ProcessedAt != nil {
		return nil
	}

	now := time.Now()
	record.ProcessedAt = &now
	if err := uow.CancellationRepository().Update(ctx, record); err != nil {
		return err
	}

	if m.publisher != nil {
		m.publisher.PublishCancellationProcessed(ctx, record.ID, record.SubscriptionID, record.UserID, "processed")
	}

	m.logger.Info("ADMIN", "Cancellation marked processed", map[string]interface{}{
		"cancellation_id": cancellationId,
	})
	return nil
}
