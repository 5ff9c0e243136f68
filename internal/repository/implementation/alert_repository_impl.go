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

type alertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) contract.AlertRepository {
	return &alertRepositoryImpl{db: db}
}

func (r *alertRepositoryImpl) Create(ctx context.Context, alert *entity.TradeAlert) error {
	return r.db.WithContext(ctx).Create(&model.TradeAlert{
		Id:          alert.Id,
		AuthorId:    alert.AuthorId,
		Symbol:      alert.Symbol,
		Side:        string(alert.Side),
		EntryCents:  alert.EntryCents,
		StopCents:   alert.StopCents,
		TargetCents: alert.TargetCents,
		Notes:       alert.Notes,
		Status:      string(alert.Status),
	}).Error
}

func (r *alertRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TradeAlert, error) {
	var ma model.TradeAlert
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&ma).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&ma), nil
}

func (r *alertRepositoryImpl) FindAllWithAuthor(ctx context.Context, specs ...specification.Specification) ([]*entity.TradeAlert, error) {
	var modelAlerts []*model.TradeAlert
	query := r.db.WithContext(ctx).Preload("Author")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelAlerts).Error; err != nil {
		return nil, err
	}

	var alerts []*entity.TradeAlert
	for _, ma := range modelAlerts {
		alert := r.mapToEntity(ma)
		alert.Author = entity.User{
			Id:       ma.Author.Id,
			FullName: ma.Author.FullName,
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

func (r *alertRepositoryImpl) Update(ctx context.Context, alert *entity.TradeAlert) error {
	return r.db.WithContext(ctx).Model(&model.TradeAlert{}).
		Where("id = ?", alert.Id).
		Updates(map[string]interface{}{
			"notes":     alert.Notes,
			"status":    string(alert.Status),
			"closed_at": alert.ClosedAt,
		}).Error
}

func (r *alertRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TradeAlert{}, id).Error
}

func (r *alertRepositoryImpl) mapToEntity(ma *model.TradeAlert) *entity.TradeAlert {
	return &entity.TradeAlert{
		Id:          ma.Id,
		AuthorId:    ma.AuthorId,
		Symbol:      ma.Symbol,
		Side:        entity.AlertSide(ma.Side),
		EntryCents:  ma.EntryCents,
		StopCents:   ma.StopCents,
		TargetCents: ma.TargetCents,
		Notes:       ma.Notes,
		Status:      entity.AlertStatus(ma.Status),
		ClosedAt:    ma.ClosedAt,
		CreatedAt:   ma.CreatedAt,
		UpdatedAt:   ma.UpdatedAt,
	}
}
