package service

import (
	"context"
	"time"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// StoreOfferParams carries the declined-offer terms to persist.
// All amounts are integer cents.
type StoreOfferParams struct {
	SubscriptionID     uuid.UUID
	UserID             uuid.UUID
	OriginalPriceCents int64
	UserInputCents     int64
	OfferPriceCents    int64
	DiscountPercent    int
}

type IOfferService interface {
	// GetActiveOffer returns the single pending unexpired offer for a
	// subscription, or nil when none exists. Repeated calls without an
	// intervening reject return the same offer.
	GetActiveOffer(ctx context.Context, subscriptionID uuid.UUID) (*entity.Offer, error)

	// StoreDeclinedOffer persists a declined generated offer. If an active
	// offer already exists for the subscription it is returned unchanged
	// instead of creating a second one.
	StoreDeclinedOffer(ctx context.Context, p StoreOfferParams) (*entity.Offer, error)

	// AcceptOffer marks a pending offer consumed and returns it. Only the
	// owning user may accept.
	AcceptOffer(ctx context.Context, offerID, userID uuid.UUID) (*entity.Offer, error)

	// ExpireStale flips offers past their expiry; called periodically.
	ExpireStale(ctx context.Context) (int64, error)
}

type offerService struct {
	repoFactory unitofwork.RepositoryFactory
	offerTTL    time.Duration
	logger      logger.ILogger
}

func NewOfferService(repoFactory unitofwork.RepositoryFactory, offerTTL time.Duration, log logger.ILogger) IOfferService {
	return &offerService{
		repoFactory: repoFactory,
		offerTTL:    offerTTL,
		logger:      log,
	}
}

func (s *offerService) GetActiveOffer(ctx context.Context, subscriptionID uuid.UUID) (*entity.Offer, error) {
	uow := s.repoFactory.NewUnitOfWork(ctx)
	return uow.OfferRepository().FindOne(ctx,
		specification.BySubscription{SubscriptionID: subscriptionID},
		specification.ActiveOffers{Now: time.Now()},
	)
}

func (s *offerService) StoreDeclinedOffer(ctx context.Context, p StoreOfferParams) (*entity.Offer, error) {
	uow := s.repoFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// At most one active offer per subscription. If a concurrent or earlier
	// reject already stored one, converge on it.
	existing, err := uow.OfferRepository().FindOne(ctx,
		specification.BySubscription{SubscriptionID: p.SubscriptionID},
		specification.ActiveOffers{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("offer", "Active offer already stored, returning existing", map[string]interface{}{
			"offer_id":        existing.ID,
			"subscription_id": p.SubscriptionID,
		})
		return existing, nil
	}

	offer := &entity.Offer{
		ID:                 uuid.New(),
		SubscriptionID:     p.SubscriptionID,
		UserID:             p.UserID,
		OriginalPriceCents: p.OriginalPriceCents,
		UserInputCents:     p.UserInputCents,
		OfferPriceCents:    p.OfferPriceCents,
		SavingsCents:       p.UserInputCents - p.OfferPriceCents,
		DiscountPercent:    p.DiscountPercent,
		Status:             entity.OfferStatusPending,
		ExpiresAt:          time.Now().Add(s.offerTTL),
	}

	if err := uow.OfferRepository().Create(ctx, offer); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("offer", "Declined offer stored", map[string]interface{}{
		"offer_id":          offer.ID,
		"subscription_id":   offer.SubscriptionID,
		"offer_price_cents": offer.OfferPriceCents,
		"expires_at":        offer.ExpiresAt,
	})

	return offer, nil
}

func (s *offerService) AcceptOffer(ctx context.Context, offerID, userID uuid.UUID) (*entity.Offer, error) {
	uow := s.repoFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	offer, err := uow.OfferRepository().FindOne(ctx, specification.ByID{ID: offerID})
	if err != nil {
		return nil, err
	}
	if offer == nil || offer.UserID != userID {
		return nil, ErrOfferNotFound
	}
	if !offer.Active(time.Now()) {
		return nil, ErrOfferNotFound
	}

	now := time.Now()
	offer.Status = entity.OfferStatusAccepted
	offer.AcceptedAt = &now

	if err := uow.OfferRepository().Update(ctx, offer); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("offer", "Offer accepted", map[string]interface{}{
		"offer_id": offer.ID,
		"user_id":  userID,
	})

	return offer, nil
}

func (s *offerService) ExpireStale(ctx context.Context) (int64, error) {
	uow := s.repoFactory.NewUnitOfWork(ctx)
	n, err := uow.OfferRepository().ExpireStale(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("offer", "Expired stale offers", map[string]interface{}{"count": n})
	}
	return n, nil
}
