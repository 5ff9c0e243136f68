package service

import (
	"context"
	"strings"
	"time"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/pkg/events"

	"github.com/google/uuid"
)

type IAlertService interface {
	CreateAlert(ctx context.Context, authorID uuid.UUID, req dto.CreateAlertRequest) (*dto.AlertResponse, error)
	ListAlerts(ctx context.Context, limit, offset int) ([]dto.AlertResponse, error)
	CloseAlert(ctx context.Context, alertID uuid.UUID, notes string) error
}

type alertService struct {
	uowFactory unitofwork.RepositoryFactory
	bus        EventPublisher
	logger     logger.ILogger
}

func NewAlertService(uowFactory unitofwork.RepositoryFactory, bus EventPublisher, log logger.ILogger) IAlertService {
	return &alertService{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     log,
	}
}

func (s *alertService) CreateAlert(ctx context.Context, authorID uuid.UUID, req dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	author, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: authorID})
	if err != nil {
		return nil, err
	}
	if author == nil || author.Role != entity.UserRoleAdmin {
		return nil, ErrUnauthorized
	}

	alert := &entity.TradeAlert{
		Id:          uuid.New(),
		AuthorId:    authorID,
		Symbol:      strings.ToUpper(req.Symbol),
		Side:        entity.AlertSide(req.Side),
		EntryCents:  req.EntryCents,
		StopCents:   req.StopCents,
		TargetCents: req.TargetCents,
		Notes:       req.Notes,
		Status:      entity.AlertStatusOpen,
		CreatedAt:   time.Now(),
	}

	if err := uow.AlertRepository().Create(ctx, alert); err != nil {
		return nil, err
	}

	if s.bus != nil {
		evt := events.BaseEvent{
			Type: events.TypeAlertPosted,
			Data: map[string]interface{}{
				"alert_id": alert.Id.String(),
				"symbol":   alert.Symbol,
				"side":     string(alert.Side),
			},
			OccurredAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.logger.Warn("alert", "Alert event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("alert", "Trade alert posted", map[string]interface{}{
		"alert_id": alert.Id,
		"symbol":   alert.Symbol,
	})

	alert.Author = *author
	res := mapAlertResponse(alert)
	return &res, nil
}

func (s *alertService) ListAlerts(ctx context.Context, limit, offset int) ([]dto.AlertResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	alerts, err := uow.AlertRepository().FindAllWithAuthor(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		res = append(res, mapAlertResponse(a))
	}
	return res, nil
}

func (s *alertService) CloseAlert(ctx context.Context, alertID uuid.UUID, notes string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	alert, err := uow.AlertRepository().FindOne(ctx, specification.ByID{ID: alertID})
	if err != nil {
		return err
	}
	if alert == nil {
		return ErrNotFound
	}

	now := time.Now()
	alert.Status = entity.AlertStatusClosed
	alert.ClosedAt = &now
	if notes != "" {
		alert.Notes = notes
	}
	return uow.AlertRepository().Update(ctx, alert)
}

func mapAlertResponse(a *entity.TradeAlert) dto.AlertResponse {
	return dto.AlertResponse{
		Id:          a.Id,
		Symbol:      a.Symbol,
		Side:        string(a.Side),
		EntryCents:  a.EntryCents,
		StopCents:   a.StopCents,
		TargetCents: a.TargetCents,
		Notes:       a.Notes,
		Status:      string(a.Status),
		AuthorName:  a.Author.FullName,
		ClosedAt:    a.ClosedAt,
		CreatedAt:   a.CreatedAt,
	}
}
