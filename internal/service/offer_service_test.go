package service

import (
	"context"
	"testing"
	"time"

	"trade-alerts-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfferRig() (IOfferService, *fakeUnitOfWork) {
	uow := newFakeUnitOfWork()
	svc := NewOfferService(&fakeFactory{uow: uow}, 168*time.Hour, nopLogger{})
	return svc, uow
}

func pendingOffer(subID, userID uuid.UUID, expiresIn time.Duration) *entity.Offer {
	return &entity.Offer{
		ID:                 uuid.New(),
		SubscriptionID:     subID,
		UserID:             userID,
		OriginalPriceCents: 4900,
		UserInputCents:     4000,
		OfferPriceCents:    3700,
		SavingsCents:       300,
		DiscountPercent:    8,
		Status:             entity.OfferStatusPending,
		ExpiresAt:          time.Now().Add(expiresIn),
	}
}

func TestStoreDeclinedOfferCreatesPending(t *testing.T) {
	svc, uow := newOfferRig()
	subID := uuid.New()
	userID := uuid.New()

	offer, err := svc.StoreDeclinedOffer(context.Background(), StoreOfferParams{
		SubscriptionID:     subID,
		UserID:             userID,
		OriginalPriceCents: 4900,
		UserInputCents:     4000,
		OfferPriceCents:    3700,
		DiscountPercent:    8,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OfferStatusPending, offer.Status)
	assert.Equal(t, int64(300), offer.SavingsCents)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), offer.ExpiresAt, time.Minute)
	assert.Equal(t, 1, uow.committed)
	assert.Len(t, uow.offers.offers, 1)
}

func TestStoreDeclinedOfferConvergesOnExisting(t *testing.T) {
	svc, uow := newOfferRig()
	subID := uuid.New()
	userID := uuid.New()

	existing := pendingOffer(subID, userID, time.Hour)
	uow.offers.offers = append(uow.offers.offers, existing)

	offer, err := svc.StoreDeclinedOffer(context.Background(), StoreOfferParams{
		SubscriptionID:  subID,
		UserID:          userID,
		OfferPriceCents: 2500,
	})
	require.NoError(t, err)

	// The earlier offer wins; no duplicate row.
	assert.Equal(t, existing.ID, offer.ID)
	assert.Equal(t, int64(3700), offer.OfferPriceCents)
	assert.Len(t, uow.offers.offers, 1)
}

func TestGetActiveOfferIgnoresExpired(t *testing.T) {
	svc, uow := newOfferRig()
	subID := uuid.New()
	userID := uuid.New()

	uow.offers.offers = append(uow.offers.offers, pendingOffer(subID, userID, -time.Hour))

	offer, err := svc.GetActiveOffer(context.Background(), subID)
	require.NoError(t, err)
	assert.Nil(t, offer)
}

func TestGetActiveOfferReturnsSameOfferRepeatedly(t *testing.T) {
	svc, uow := newOfferRig()
	subID := uuid.New()
	userID := uuid.New()

	stored := pendingOffer(subID, userID, time.Hour)
	uow.offers.offers = append(uow.offers.offers, stored)

	first, err := svc.GetActiveOffer(context.Background(), subID)
	require.NoError(t, err)
	second, err := svc.GetActiveOffer(context.Background(), subID)
	require.NoError(t, err)

	require.NotNil(t, first)
	assert.Equal(t, stored.ID, first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestAcceptOfferMarksConsumed(t *testing.T) {
	svc, uow := newOfferRig()
	subID := uuid.New()
	userID := uuid.New()

	stored := pendingOffer(subID, userID, time.Hour)
	uow.offers.offers = append(uow.offers.offers, stored)

	offer, err := svc.AcceptOffer(context.Background(), stored.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, entity.OfferStatusAccepted, offer.Status)
	require.NotNil(t, offer.AcceptedAt)
	assert.Equal(t, 1, uow.committed)
}

func TestAcceptOfferRejectsForeignUser(t *testing.T) {
	svc, uow := newOfferRig()
	stored := pendingOffer(uuid.New(), uuid.New(), time.Hour)
	uow.offers.offers = append(uow.offers.offers, stored)

	_, err := svc.AcceptOffer(context.Background(), stored.ID, uuid.New())
	assert.ErrorIs(t, err, ErrOfferNotFound)
	assert.Equal(t, entity.OfferStatusPending, stored.Status)
}

func TestAcceptOfferRejectsExpired(t *testing.T) {
	svc, uow := newOfferRig()
	userID := uuid.New()
	stored := pendingOffer(uuid.New(), userID, -time.Minute)
	uow.offers.offers = append(uow.offers.offers, stored)

	_, err := svc.AcceptOffer(context.Background(), stored.ID, userID)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestAcceptOfferRejectsUnknownID(t *testing.T) {
	svc, _ := newOfferRig()

	_, err := svc.AcceptOffer(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestExpireStaleFlipsPastDueOffers(t *testing.T) {
	svc, uow := newOfferRig()
	stale := pendingOffer(uuid.New(), uuid.New(), -time.Hour)
	fresh := pendingOffer(uuid.New(), uuid.New(), time.Hour)
	uow.offers.offers = append(uow.offers.offers, stale, fresh)

	n, err := svc.ExpireStale(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), n)
	assert.Equal(t, entity.OfferStatusExpired, stale.Status)
	assert.Equal(t, entity.OfferStatusPending, fresh.Status)
}
