package dashboard

import (
	"context"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardResponse, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeSubs, err := uow.SubscriptionRepository().Count(ctx,
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return nil, err
	}

	pendingCancellations, err := uow.CancellationRepository().Count(ctx,
		specification.Filter("processed_at", nil),
	)
	if err != nil {
		return nil, err
	}

	offersPending, err := uow.OfferRepository().Count(ctx,
		specification.ByStatus{Status: string(entity.OfferStatusPending)},
	)
	if err != nil {
		return nil, err
	}

	offersAccepted, err := uow.OfferRepository().Count(ctx,
		specification.ByStatus{Status: string(entity.OfferStatusAccepted)},
	)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		TotalUsers:           totalUsers,
		ActiveSubscriptions:  activeSubs,
		PendingCancellations: pendingCancellations,
		OffersOutstanding:    offersPending,
		OffersAccepted:       offersAccepted,
	}, nil
}
