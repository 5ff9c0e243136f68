package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"trade-alerts-be/internal/config"
	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/memory"
	"trade-alerts-be/pkg/events"
	"trade-alerts-be/pkg/pricing"
	"trade-alerts-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "orange-crush-42"

type retentionRig struct {
	svc      IRetentionService
	sessions *memory.FlowSessionRepository
	uow      *fakeUnitOfWork
	offers   *fakeOfferSvc
	billing  *fakeBilling
	bus      *fakeBus
	decline  *fakeDeclinePub
	mail     *fakeMailer
	cfg      config.RetentionConfig
	userID   uuid.UUID
	subID    uuid.UUID
}

// newRetentionRig wires the wizard against fakes with one active $49.00
// subscription. The discount draw is pinned to 7.5% so generated offers are
// deterministic: a declared $40.00 yields a $37.00 offer at 8% off.
func newRetentionRig(t *testing.T) *retentionRig {
	t.Helper()

	userID := uuid.New()
	subID := uuid.New()
	planID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	customerID := "cus_rig"
	providerSubID := "sub_rig"

	uow := newFakeUnitOfWork()
	uow.users.user = &entity.User{
		Id:           userID,
		Email:        "member@example.com",
		PasswordHash: &hashStr,
	}
	uow.plans.plan = &entity.SubscriptionPlan{
		Id:         planID,
		Slug:       "trading-alerts",
		PriceCents: 4900,
	}
	uow.subs.sub = &entity.UserSubscription{
		Id:                   subID,
		UserId:               userID,
		PlanId:               planID,
		Status:               entity.SubscriptionStatusActive,
		CurrentPeriodEnd:     time.Now().Add(14 * 24 * time.Hour),
		StripeSubscriptionID: &providerSubID,
		StripeCustomerID:     &customerID,
	}

	rig := &retentionRig{
		sessions: memory.NewFlowSessionRepository(),
		uow:      uow,
		offers:   &fakeOfferSvc{},
		billing:  &fakeBilling{},
		bus:      &fakeBus{},
		decline:  &fakeDeclinePub{},
		mail:     &fakeMailer{},
		cfg: config.RetentionConfig{
			FloorCents:        2000,
			MinDiscountPct:    5,
			MaxDiscountPct:    10,
			FinalOfferCents:   2000,
			FinalOfferPercent: 59,
			OfferTTLHours:     168,
		},
		userID: userID,
		subID:  subID,
	}

	policy := pricing.Policy{
		FloorCents:     2000,
		MinDiscountPct: 5,
		MaxDiscountPct: 10,
		Rand:           func() float64 { return 0.5 },
	}

	rig.svc = NewRetentionService(
		&fakeFactory{uow: uow},
		rig.sessions,
		rig.offers,
		rig.billing,
		policy,
		rig.cfg,
		rig.bus,
		rig.decline,
		rig.mail,
		nopLogger{},
	)
	return rig
}

func (r *retentionRig) start(t *testing.T) *store.FlowSession {
	t.Helper()
	session, err := r.svc.StartFlow(context.Background(), r.userID)
	require.NoError(t, err)
	return session
}

func (r *retentionRig) toPrice(t *testing.T) *store.FlowSession {
	t.Helper()
	session := r.start(t)
	session, err := r.svc.SelectReason(context.Background(), r.userID, session.ID, store.ReasonCantAfford)
	require.NoError(t, err)
	require.Equal(t, store.StepPrice, session.Step)
	return session
}

func (r *retentionRig) toOffer(t *testing.T) *store.FlowSession {
	t.Helper()
	session := r.toPrice(t)
	session, err := r.svc.SubmitPrice(context.Background(), r.userID, session.ID, 4000)
	require.NoError(t, err)
	require.NotNil(t, session.Generated)
	return session
}

func (r *retentionRig) toFinalOffer(t *testing.T) *store.FlowSession {
	t.Helper()
	session := r.toOffer(t)
	session, err := r.svc.DeclineOffer(context.Background(), r.userID, session.ID)
	require.NoError(t, err)
	require.Equal(t, store.StepFinalOffer, session.Step)
	return session
}

func (r *retentionRig) toConfirm(t *testing.T) *store.FlowSession {
	t.Helper()
	session := r.toFinalOffer(t)
	session, err := r.svc.DeclineFinalOffer(context.Background(), r.userID, session.ID)
	require.NoError(t, err)
	require.Equal(t, store.StepConfirm, session.Step)
	return session
}

func TestStartFlowInitializesSession(t *testing.T) {
	rig := newRetentionRig(t)

	session := rig.start(t)

	assert.Equal(t, store.StepReason, session.Step)
	assert.Equal(t, store.ConfirmModePassword, session.ConfirmMode)
	assert.Equal(t, rig.subID, session.SubscriptionID)
	assert.Equal(t, int64(4900), session.PlanPriceCents)
	assert.Equal(t, "member@example.com", session.Email)
	assert.Equal(t, "cus_rig", session.CustomerID)
	assert.Equal(t, "sub_rig", session.ProviderSubID)
}

func TestStartFlowPhraseModeForOAuthAccounts(t *testing.T) {
	rig := newRetentionRig(t)
	rig.uow.users.user.PasswordHash = nil

	session := rig.start(t)

	assert.Equal(t, store.ConfirmModePhrase, session.ConfirmMode)
}

func TestStartFlowRequiresActiveSubscription(t *testing.T) {
	rig := newRetentionRig(t)
	rig.uow.subs.sub = nil

	_, err := rig.svc.StartFlow(context.Background(), rig.userID)
	assert.ErrorIs(t, err, ErrSubscriptionUnavailable)
}

func TestStartFlowRequiresBillingIdentifiers(t *testing.T) {
	rig := newRetentionRig(t)
	rig.uow.subs.sub.StripeSubscriptionID = nil

	_, err := rig.svc.StartFlow(context.Background(), rig.userID)
	assert.ErrorIs(t, err, ErrSubscriptionUnavailable)
}

func TestStartFlowReplacesExistingSession(t *testing.T) {
	rig := newRetentionRig(t)

	first := rig.start(t)
	second := rig.start(t)
	require.NotEqual(t, first.ID, second.ID)

	// The old session id no longer resolves.
	_, err := rig.svc.SelectReason(context.Background(), rig.userID, first.ID, store.ReasonNoTime)
	assert.ErrorIs(t, err, ErrStaleSession)

	// The fresh one does.
	_, err = rig.svc.SelectReason(context.Background(), rig.userID, second.ID, store.ReasonNoTime)
	assert.NoError(t, err)
}

func TestSelectReasonNevermindRetains(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.start(t)

	session, err := rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonNevermind)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeRetained, session.Outcome)

	// Session is gone; the wizard has to be restarted.
	_, err = rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonNoTime)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestSelectReasonCantAffordSkipsRetention(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.start(t)

	session, err := rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonCantAfford)
	require.NoError(t, err)
	assert.Equal(t, store.StepPrice, session.Step)
}

func TestSelectReasonShowsRetentionMessaging(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.start(t)

	session, err := rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonNoTime)
	require.NoError(t, err)
	assert.Equal(t, store.StepRetention, session.Step)
	assert.NotEmpty(t, rig.svc.RetentionMessage(session.Reason))
}

func TestSelectReasonRejectsUnknownCode(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.start(t)

	session, err := rig.svc.SelectReason(context.Background(), rig.userID, session.ID, "because")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, store.StepReason, session.Step)
}

func TestRetentionDecisionTransitions(t *testing.T) {
	rig := newRetentionRig(t)

	// stay: retained and the session ends.
	session := rig.start(t)
	session, err := rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonDontKnow)
	require.NoError(t, err)
	session, err = rig.svc.RetentionDecision(context.Background(), rig.userID, session.ID, "stay")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeRetained, session.Outcome)

	// back: returns to reason with the reason cleared.
	session = rig.start(t)
	session, err = rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonDontKnow)
	require.NoError(t, err)
	session, err = rig.svc.RetentionDecision(context.Background(), rig.userID, session.ID, "back")
	require.NoError(t, err)
	assert.Equal(t, store.StepReason, session.Step)
	assert.Empty(t, session.Reason)

	// anything else is rejected and the step does not move.
	session, err = rig.svc.SelectReason(context.Background(), rig.userID, session.ID, store.ReasonNotReady)
	require.NoError(t, err)
	session, err = rig.svc.RetentionDecision(context.Background(), rig.userID, session.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, store.StepRetention, session.Step)

	// continue: advances to price.
	session, err = rig.svc.RetentionDecision(context.Background(), rig.userID, session.ID, "continue")
	require.NoError(t, err)
	assert.Equal(t, store.StepPrice, session.Step)
}

func TestSubmitPriceAtFullPriceRetains(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toPrice(t)

	session, err := rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4900)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeRetained, session.Outcome)

	// No billing mutation of any kind.
	assert.Empty(t, rig.billing.coupons)
	assert.Empty(t, rig.billing.cancels)

	_, err = rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4000)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestSubmitPriceGeneratesDeterministicOffer(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toPrice(t)

	session, err := rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4000)
	require.NoError(t, err)

	require.NotNil(t, session.Generated)
	assert.Nil(t, session.StoredOfferID)
	assert.Equal(t, int64(4900), session.Generated.OriginalPriceCents)
	assert.Equal(t, int64(4000), session.Generated.UserInputCents)
	assert.Equal(t, int64(3700), session.Generated.OfferPriceCents)
	assert.Equal(t, int64(300), session.Generated.SavingsCents)
	assert.Equal(t, 8, session.Generated.PercentOff)
}

func TestSubmitPriceReusesStoredOffer(t *testing.T) {
	rig := newRetentionRig(t)
	storedID := uuid.New()
	rig.offers.active = &entity.Offer{
		ID:                 storedID,
		SubscriptionID:     rig.subID,
		UserID:             rig.userID,
		OriginalPriceCents: 4900,
		UserInputCents:     3500,
		OfferPriceCents:    3200,
		SavingsCents:       300,
		DiscountPercent:    9,
		Status:             entity.OfferStatusPending,
		ExpiresAt:          time.Now().Add(time.Hour),
	}

	session := rig.toPrice(t)
	session, err := rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4000)
	require.NoError(t, err)

	// Stored terms win over a fresh draw.
	require.NotNil(t, session.StoredOfferID)
	assert.Equal(t, storedID, *session.StoredOfferID)
	assert.Equal(t, int64(3200), session.Generated.OfferPriceCents)
	assert.Equal(t, 9, session.Generated.PercentOff)
}

func TestSubmitPriceSurvivesStoredOfferLookupFailure(t *testing.T) {
	rig := newRetentionRig(t)
	rig.offers.activeErr = errors.New("db down")

	session := rig.toPrice(t)
	session, err := rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4000)
	require.NoError(t, err)

	// Falls back to a fresh draw.
	assert.Nil(t, session.StoredOfferID)
	assert.Equal(t, int64(3700), session.Generated.OfferPriceCents)
}

func TestAcceptOfferAppliesCoupon(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toOffer(t)

	session, err := rig.svc.AcceptOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDiscounted, session.Outcome)

	require.Len(t, rig.billing.coupons, 1)
	p := rig.billing.coupons[0].params
	assert.Equal(t, "cus_rig", p.CustomerID)
	assert.Equal(t, "sub_rig", p.SubscriptionID)
	assert.Equal(t, 8, p.PercentOff)
	assert.Equal(t, int64(3700), p.NewMonthlyPriceCents)
	assert.Equal(t, int64(4900), p.CurrentPriceCents)

	assert.Contains(t, rig.bus.eventTypes(), events.TypeDiscountApplied)
	assert.Equal(t, []string{"member@example.com"}, rig.mail.discounts)
	assert.Equal(t, int64(3700), rig.mail.lastDiscountCents)
}

func TestAcceptOfferConsumesStoredOffer(t *testing.T) {
	rig := newRetentionRig(t)
	storedID := uuid.New()
	rig.offers.active = &entity.Offer{
		ID:                 storedID,
		SubscriptionID:     rig.subID,
		UserID:             rig.userID,
		OriginalPriceCents: 4900,
		UserInputCents:     3500,
		OfferPriceCents:    3200,
		SavingsCents:       300,
		DiscountPercent:    9,
		Status:             entity.OfferStatusPending,
		ExpiresAt:          time.Now().Add(time.Hour),
	}

	session := rig.toOffer(t)
	session, err := rig.svc.AcceptOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDiscounted, session.Outcome)

	assert.Equal(t, []uuid.UUID{storedID}, rig.offers.accepted)
	require.Len(t, rig.billing.coupons, 1)
	assert.Equal(t, int64(3200), rig.billing.coupons[0].params.NewMonthlyPriceCents)
	assert.Equal(t, 9, rig.billing.coupons[0].params.PercentOff)
}

func TestAcceptOfferStoredConsumeFailureFallsToFinalOffer(t *testing.T) {
	rig := newRetentionRig(t)
	storedID := uuid.New()
	rig.offers.active = &entity.Offer{
		ID:              storedID,
		SubscriptionID:  rig.subID,
		UserID:          rig.userID,
		OfferPriceCents: 3200,
		Status:          entity.OfferStatusPending,
		ExpiresAt:       time.Now().Add(time.Hour),
	}

	session := rig.toOffer(t)
	rig.offers.acceptErr = ErrOfferNotFound

	session, err := rig.svc.AcceptOffer(context.Background(), rig.userID, session.ID)
	assert.ErrorIs(t, err, ErrOfferNotFound)
	assert.Equal(t, store.StepFinalOffer, session.Step)
	assert.Empty(t, rig.billing.coupons)
}

func TestAcceptOfferCouponFailureFallsToFinalOffer(t *testing.T) {
	rig := newRetentionRig(t)
	rig.billing.applyErr = errors.New("stripe rejected the coupon")

	session := rig.toOffer(t)
	session, err := rig.svc.AcceptOffer(context.Background(), rig.userID, session.ID)
	assert.ErrorIs(t, err, ErrCouponApplicationFailed)
	assert.Equal(t, store.StepFinalOffer, session.Step)

	// The session survives at the final-offer step; the user can still
	// accept the fallback discount.
	rig.billing.applyErr = nil
	session, err = rig.svc.AcceptFinalOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDiscounted, session.Outcome)
}

func TestDeclineOfferQueuesPersistence(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toOffer(t)

	session, err := rig.svc.DeclineOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StepFinalOffer, session.Step)

	require.Len(t, rig.decline.messages, 1)
	var payload dto.PublishDeclinedOfferMessage
	require.NoError(t, json.Unmarshal(rig.decline.messages[0].Payload, &payload))
	assert.Equal(t, rig.subID, payload.SubscriptionId)
	assert.Equal(t, rig.userID, payload.UserId)
	assert.Equal(t, int64(3700), payload.OfferPriceCents)
	assert.Equal(t, 8, payload.DiscountPercent)
}

func TestDeclineOfferSkipsQueueForStoredOffer(t *testing.T) {
	rig := newRetentionRig(t)
	rig.offers.active = &entity.Offer{
		ID:              uuid.New(),
		SubscriptionID:  rig.subID,
		UserID:          rig.userID,
		OfferPriceCents: 3200,
		Status:          entity.OfferStatusPending,
		ExpiresAt:       time.Now().Add(time.Hour),
	}

	session := rig.toOffer(t)
	_, err := rig.svc.DeclineOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)

	// Already persisted; re-storing would duplicate it.
	assert.Empty(t, rig.decline.messages)
}

func TestDeclineOfferPublishFailureStillAdvances(t *testing.T) {
	rig := newRetentionRig(t)
	rig.decline.err = errors.New("queue full")

	session := rig.toOffer(t)
	session, err := rig.svc.DeclineOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StepFinalOffer, session.Step)
}

func TestAcceptFinalOfferAppliesConfiguredDiscount(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toFinalOffer(t)

	session, err := rig.svc.AcceptFinalOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDiscounted, session.Outcome)

	require.Len(t, rig.billing.coupons, 1)
	p := rig.billing.coupons[0].params
	assert.Equal(t, rig.cfg.FinalOfferCents, p.NewMonthlyPriceCents)
	assert.Equal(t, rig.cfg.FinalOfferPercent, p.PercentOff)
	assert.Contains(t, rig.bus.eventTypes(), events.TypeDiscountApplied)
}

func TestAcceptFinalOfferFailureStaysOnStep(t *testing.T) {
	rig := newRetentionRig(t)
	rig.billing.applyErr = errors.New("stripe down")

	session := rig.toFinalOffer(t)
	session, err := rig.svc.AcceptFinalOffer(context.Background(), rig.userID, session.ID)
	assert.ErrorIs(t, err, ErrCouponApplicationFailed)
	assert.Equal(t, store.StepFinalOffer, session.Step)

	// Retry succeeds once the provider recovers.
	rig.billing.applyErr = nil
	session, err = rig.svc.AcceptFinalOffer(context.Background(), rig.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDiscounted, session.Outcome)
}

func TestConfirmCancelWrongPassword(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toConfirm(t)

	session, err := rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, "not-it", "")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Equal(t, store.StepConfirm, session.Step)
	assert.Empty(t, rig.billing.cancels)
	assert.Empty(t, rig.uow.cancellations.created)
}

func TestConfirmCancelWithPassword(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.toConfirm(t)

	session, err := rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeCancelled, session.Outcome)

	// Provider cancellation happens at period end, never immediately.
	require.Len(t, rig.billing.cancels, 1)
	assert.Equal(t, "sub_rig", rig.billing.cancels[0].subscriptionID)
	assert.True(t, rig.billing.cancels[0].atPeriodEnd)

	// Local state reflects the scheduled cancellation.
	require.Len(t, rig.uow.subs.updated, 1)
	assert.True(t, rig.uow.subs.updated[0].CancelAtPeriodEnd)
	assert.NotNil(t, rig.uow.subs.updated[0].CanceledAt)

	require.Len(t, rig.uow.cancellations.created, 1)
	record := rig.uow.cancellations.created[0]
	assert.Equal(t, rig.subID, record.SubscriptionID)
	assert.Equal(t, rig.userID, record.UserID)
	assert.Equal(t, string(store.ReasonCantAfford), record.Reason)
	assert.Equal(t, 1, rig.uow.committed)

	assert.Contains(t, rig.bus.eventTypes(), events.TypeSubscriptionCanceled)
	assert.Equal(t, []string{"member@example.com"}, rig.mail.cancellations)

	// The session is gone afterwards.
	_, err = rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, testPassword, "")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestConfirmCancelPhraseMode(t *testing.T) {
	rig := newRetentionRig(t)
	rig.uow.users.user.PasswordHash = nil

	session := rig.toConfirm(t)
	require.Equal(t, store.ConfirmModePhrase, session.ConfirmMode)

	_, err := rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, "", "cancel")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	session, err = rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, "", store.ConfirmPhrase)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeCancelled, session.Outcome)
}

func TestConfirmCancelBillingFailure(t *testing.T) {
	rig := newRetentionRig(t)
	rig.billing.cancelErr = errors.New("stripe timeout")

	session := rig.toConfirm(t)
	session, err := rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, testPassword, "")
	assert.ErrorIs(t, err, ErrCancellationFailed)
	assert.Equal(t, store.StepConfirm, session.Step)

	// Nothing was written locally.
	assert.Empty(t, rig.uow.cancellations.created)
	assert.Zero(t, rig.uow.committed)
}

func TestWizardRejectsOutOfOrderCalls(t *testing.T) {
	rig := newRetentionRig(t)
	session := rig.start(t)

	_, err := rig.svc.SubmitPrice(context.Background(), rig.userID, session.ID, 4000)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = rig.svc.AcceptOffer(context.Background(), rig.userID, session.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = rig.svc.ConfirmCancel(context.Background(), rig.userID, session.ID, testPassword, "")
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestWizardRejectsUnknownSession(t *testing.T) {
	rig := newRetentionRig(t)

	_, err := rig.svc.SelectReason(context.Background(), rig.userID, uuid.NewString(), store.ReasonNoTime)
	assert.ErrorIs(t, err, ErrFlowNotFound)

	rig.start(t)
	_, err = rig.svc.SelectReason(context.Background(), rig.userID, uuid.NewString(), store.ReasonNoTime)
	assert.ErrorIs(t, err, ErrStaleSession)
}
