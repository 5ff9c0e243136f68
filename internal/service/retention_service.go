package service

import (
	"context"
	"encoding/json"
	"time"

	"trade-alerts-be/internal/config"
	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/pkg/mailer"
	"trade-alerts-be/internal/repository/memory"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/pkg/billing"
	"trade-alerts-be/pkg/events"
	"trade-alerts-be/pkg/pricing"
	"trade-alerts-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DeclinedOffersTopic is the in-process queue for background offer persistence.
const DeclinedOffersTopic = "offers.declined"

// EventPublisher is the slice of the NATS publisher the wizard needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IRetentionService drives the cancellation/retention wizard. One session per
// user at a time; every method checks the caller owns the current session.
type IRetentionService interface {
	StartFlow(ctx context.Context, userID uuid.UUID) (*store.FlowSession, error)
	SelectReason(ctx context.Context, userID uuid.UUID, sessionID string, reason store.CancelReason) (*store.FlowSession, error)
	RetentionDecision(ctx context.Context, userID uuid.UUID, sessionID, decision string) (*store.FlowSession, error)
	SubmitPrice(ctx context.Context, userID uuid.UUID, sessionID string, desiredCents int64) (*store.FlowSession, error)
	AcceptOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error)
	DeclineOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error)
	AcceptFinalOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error)
	DeclineFinalOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error)
	ConfirmCancel(ctx context.Context, userID uuid.UUID, sessionID, password, phrase string) (*store.FlowSession, error)
	RetentionMessage(reason store.CancelReason) string
}

type retentionService struct {
	repoFactory unitofwork.RepositoryFactory
	sessions    *memory.FlowSessionRepository
	offers      IOfferService
	billing     billing.Provider
	policy      pricing.Policy
	cfg         config.RetentionConfig
	bus         EventPublisher
	declinePub  message.Publisher
	mail        mailer.IEmailService
	logger      logger.ILogger
}

func NewRetentionService(
	repoFactory unitofwork.RepositoryFactory,
	sessions *memory.FlowSessionRepository,
	offers IOfferService,
	billingProvider billing.Provider,
	policy pricing.Policy,
	cfg config.RetentionConfig,
	bus EventPublisher,
	declinePub message.Publisher,
	mail mailer.IEmailService,
	log logger.ILogger,
) IRetentionService {
	return &retentionService{
		repoFactory: repoFactory,
		sessions:    sessions,
		offers:      offers,
		billing:     billingProvider,
		policy:      policy,
		cfg:         cfg,
		bus:         bus,
		declinePub:  declinePub,
		mail:        mail,
		logger:      log,
	}
}

// retentionMessages are the reason-specific persuasion texts shown on the
// retention step.
var retentionMessages = map[store.CancelReason]string{
	store.ReasonNoTime:           "Most members spend under 10 minutes a day here. The alerts do the watching for you, so even a busy week keeps paying off.",
	store.ReasonNotReady:         "Everyone starts somewhere. The community and alert breakdowns are built exactly for members who are still learning the ropes.",
	store.ReasonAlreadyMakeMoney: "That's the goal! Members who stay keep compounding their edge with fresh setups and a second pair of eyes on every trade.",
	store.ReasonDontKnow:         "Before you go, remember your membership includes every alert, the full chat community, and direct access to the trading desk.",
}

func (s *retentionService) RetentionMessage(reason store.CancelReason) string {
	return retentionMessages[reason]
}

func (s *retentionService) StartFlow(ctx context.Context, userID uuid.UUID) (*store.FlowSession, error) {
	uow := s.repoFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.StripeSubscriptionID == nil || sub.StripeCustomerID == nil {
		return nil, ErrSubscriptionUnavailable
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrSubscriptionUnavailable
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	// OAuth-only accounts have no password to re-enter; they type a literal
	// confirmation phrase instead.
	confirmMode := store.ConfirmModePassword
	if user.PasswordHash == nil {
		confirmMode = store.ConfirmModePhrase
	}

	session := &store.FlowSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		Email:          user.Email,
		SubscriptionID: sub.Id,
		CustomerID:     *sub.StripeCustomerID,
		ProviderSubID:  *sub.StripeSubscriptionID,
		PlanPriceCents: plan.PriceCents,
		Step:           store.StepReason,
		ConfirmMode:    confirmMode,
		StartedAt:      time.Now(),
	}

	// Starting a new flow replaces any previous session for this user, so
	// results of in-flight requests against the old session are discarded.
	s.sessions.Save(session)

	s.logger.Info("retention", "Cancellation flow started", map[string]interface{}{
		"user_id":          userID,
		"subscription_id":  sub.Id,
		"plan_price_cents": plan.PriceCents,
	})

	return session, nil
}

// loadSession fetches the caller's session and rejects stale session ids left
// over from a replaced flow.
func (s *retentionService) loadSession(userID uuid.UUID, sessionID string) (*store.FlowSession, error) {
	session, found := s.sessions.Get(userID)
	if !found {
		return nil, ErrFlowNotFound
	}
	if session.ID != sessionID {
		return nil, ErrStaleSession
	}
	return session, nil
}

func (s *retentionService) SelectReason(ctx context.Context, userID uuid.UUID, sessionID string, reason store.CancelReason) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepReason {
		return session, ErrInvalidStep
	}
	if !store.ValidReason(reason) {
		return session, ErrInvalidInput
	}

	session.Reason = reason

	switch reason {
	case store.ReasonNevermind:
		session.Outcome = store.OutcomeRetained
		s.sessions.Delete(userID)
	case store.ReasonCantAfford:
		// Straight to price negotiation; persuasion text would ring hollow.
		session.Step = store.StepPrice
		s.sessions.Save(session)
	default:
		session.Step = store.StepRetention
		s.sessions.Save(session)
	}

	return session, nil
}

func (s *retentionService) RetentionDecision(ctx context.Context, userID uuid.UUID, sessionID, decision string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepRetention {
		return session, ErrInvalidStep
	}

	switch decision {
	case "stay":
		session.Outcome = store.OutcomeRetained
		s.sessions.Delete(userID)
	case "back":
		session.Step = store.StepReason
		session.Reason = ""
		s.sessions.Save(session)
	case "continue":
		session.Step = store.StepPrice
		s.sessions.Save(session)
	default:
		return session, ErrInvalidInput
	}

	return session, nil
}

func (s *retentionService) SubmitPrice(ctx context.Context, userID uuid.UUID, sessionID string, desiredCents int64) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepPrice {
		return session, ErrInvalidStep
	}

	quote, err := s.policy.Quote(desiredCents, session.PlanPriceCents)
	if err != nil {
		return session, ErrInvalidInput
	}

	session.UserInputCents = desiredCents

	// Declared affordability covers the full price: keep the subscriber at
	// the current price without touching billing.
	if quote.RetainAtCurrentPrice {
		session.Outcome = store.OutcomeRetained
		s.sessions.Delete(userID)
		s.logger.Info("retention", "Retained at full price", map[string]interface{}{
			"user_id":        userID,
			"declared_cents": desiredCents,
		})
		return session, nil
	}

	// Offer resolution: an existing stored offer wins over a fresh draw, so
	// repeated negotiations converge on the same terms.
	stored, err := s.offers.GetActiveOffer(ctx, session.SubscriptionID)
	if err != nil {
		s.logger.Error("retention", "Stored offer lookup failed, generating fresh", map[string]interface{}{
			"error": err.Error(),
		})
		stored = nil
	}

	if stored != nil {
		session.StoredOfferID = &stored.ID
		session.Generated = &store.GeneratedOffer{
			OriginalPriceCents: stored.OriginalPriceCents,
			UserInputCents:     stored.UserInputCents,
			OfferPriceCents:    stored.OfferPriceCents,
			SavingsCents:       stored.SavingsCents,
			PercentOff:         stored.DiscountPercent,
		}
	} else {
		session.StoredOfferID = nil
		session.Generated = &store.GeneratedOffer{
			OriginalPriceCents: session.PlanPriceCents,
			UserInputCents:     desiredCents,
			OfferPriceCents:    quote.OfferCents,
			SavingsCents:       quote.SavingsCents,
			PercentOff:         quote.PercentOff,
		}
	}

	s.sessions.Save(session)
	return session, nil
}

func (s *retentionService) AcceptOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepPrice || session.Generated == nil {
		return session, ErrInvalidStep
	}

	terms := *session.Generated

	if session.StoredOfferID != nil {
		// Consume the stored offer first; its terms are authoritative.
		offer, err := s.offers.AcceptOffer(ctx, *session.StoredOfferID, userID)
		if err != nil {
			return s.fallbackToFinalOffer(session, err)
		}
		terms = store.GeneratedOffer{
			OriginalPriceCents: offer.OriginalPriceCents,
			UserInputCents:     offer.UserInputCents,
			OfferPriceCents:    offer.OfferPriceCents,
			SavingsCents:       offer.SavingsCents,
			PercentOff:         offer.DiscountPercent,
		}
	}

	err = s.billing.ApplyCoupon(ctx, billing.ApplyCouponParams{
		CustomerID:           session.CustomerID,
		SubscriptionID:       session.ProviderSubID,
		PercentOff:           terms.PercentOff,
		NewMonthlyPriceCents: terms.OfferPriceCents,
		CurrentPriceCents:    session.PlanPriceCents,
		OriginalPriceCents:   terms.OriginalPriceCents,
	})
	if err != nil {
		s.logger.Error("retention", "Coupon application failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return s.fallbackToFinalOffer(session, ErrCouponApplicationFailed)
	}

	s.finishDiscounted(ctx, session, terms.OfferPriceCents, terms.PercentOff)
	return session, nil
}

// fallbackToFinalOffer degrades a failed accept to the final-offer step
// instead of leaving the user stuck. The error is still surfaced.
func (s *retentionService) fallbackToFinalOffer(session *store.FlowSession, cause error) (*store.FlowSession, error) {
	session.Step = store.StepFinalOffer
	s.sessions.Save(session)
	return session, cause
}

func (s *retentionService) DeclineOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepPrice || session.Generated == nil {
		return session, ErrInvalidStep
	}

	// Persist the declined offer in the background. The final offer renders
	// immediately; a lost persistence write costs one re-rolled discount.
	if session.StoredOfferID == nil {
		s.queueDeclinedOffer(session)
	}

	session.Step = store.StepFinalOffer
	s.sessions.Save(session)
	return session, nil
}

func (s *retentionService) queueDeclinedOffer(session *store.FlowSession) {
	payload, err := json.Marshal(dto.PublishDeclinedOfferMessage{
		SubscriptionId:     session.SubscriptionID,
		UserId:             session.UserID,
		OriginalPriceCents: session.Generated.OriginalPriceCents,
		UserInputCents:     session.Generated.UserInputCents,
		OfferPriceCents:    session.Generated.OfferPriceCents,
		DiscountPercent:    session.Generated.PercentOff,
	})
	if err != nil {
		s.logger.Error("retention", "Failed to marshal declined offer", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.declinePub.Publish(DeclinedOffersTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		// Swallowed: persistence failure must not block the final offer.
		s.logger.Error("retention", "Failed to queue declined offer", map[string]interface{}{
			"user_id": session.UserID,
			"error":   err.Error(),
		})
	}
}

func (s *retentionService) AcceptFinalOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepFinalOffer {
		return session, ErrInvalidStep
	}

	err = s.billing.ApplyCoupon(ctx, billing.ApplyCouponParams{
		CustomerID:           session.CustomerID,
		SubscriptionID:       session.ProviderSubID,
		PercentOff:           s.cfg.FinalOfferPercent,
		NewMonthlyPriceCents: s.cfg.FinalOfferCents,
		CurrentPriceCents:    session.PlanPriceCents,
		OriginalPriceCents:   session.PlanPriceCents,
	})
	if err != nil {
		s.logger.Error("retention", "Final offer coupon failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		// Stay on the final offer so the user can retry or decline.
		return session, ErrCouponApplicationFailed
	}

	s.finishDiscounted(ctx, session, s.cfg.FinalOfferCents, s.cfg.FinalOfferPercent)
	return session, nil
}

func (s *retentionService) DeclineFinalOffer(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepFinalOffer {
		return session, ErrInvalidStep
	}

	session.Step = store.StepConfirm
	s.sessions.Save(session)
	return session, nil
}

func (s *retentionService) ConfirmCancel(ctx context.Context, userID uuid.UUID, sessionID, password, phrase string) (*store.FlowSession, error) {
	session, err := s.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != store.StepConfirm {
		return session, ErrInvalidStep
	}

	uow := s.repoFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return session, err
	}
	if user == nil {
		return session, ErrNotFound
	}

	switch session.ConfirmMode {
	case store.ConfirmModePassword:
		if user.PasswordHash == nil ||
			bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
			// Session stays on confirm for retry.
			return session, ErrInvalidPassword
		}
	case store.ConfirmModePhrase:
		if phrase != store.ConfirmPhrase {
			return session, ErrInvalidPassword
		}
	}

	if err := s.billing.CancelSubscription(ctx, session.ProviderSubID, true); err != nil {
		s.logger.Error("retention", "Provider cancellation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return session, ErrCancellationFailed
	}

	if err := uow.Begin(ctx); err != nil {
		return session, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: session.SubscriptionID})
	if err != nil {
		return session, err
	}
	if sub == nil {
		return session, ErrSubscriptionUnavailable
	}

	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return session, err
	}

	if err := uow.CancellationRepository().Create(ctx, &entity.Cancellation{
		ID:             uuid.New(),
		SubscriptionID: sub.Id,
		UserID:         userID,
		Reason:         string(session.Reason),
		EffectiveDate:  sub.CurrentPeriodEnd,
	}); err != nil {
		return session, err
	}

	if err := uow.Commit(); err != nil {
		return session, err
	}

	session.Outcome = store.OutcomeCancelled
	s.sessions.Delete(userID)

	// Notification and email are best effort; the cancellation already
	// happened at the billing provider.
	s.publishEvent(ctx, events.TypeSubscriptionCanceled, map[string]interface{}{
		"user_id":        userID.String(),
		"reason":         string(session.Reason),
		"effective_date": sub.CurrentPeriodEnd.Format(time.RFC3339),
	})
	if s.mail != nil {
		if err := s.mail.SendCancellationConfirmed(user.Email, sub.CurrentPeriodEnd.Format("January 2, 2006")); err != nil {
			s.logger.Warn("retention", "Cancellation email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("retention", "Subscription cancelled", map[string]interface{}{
		"user_id":        userID,
		"reason":         string(session.Reason),
		"effective_date": sub.CurrentPeriodEnd,
	})

	return session, nil
}

func (s *retentionService) finishDiscounted(ctx context.Context, session *store.FlowSession, newMonthlyCents int64, percentOff int) {
	session.Outcome = store.OutcomeDiscounted
	s.sessions.Delete(session.UserID)

	s.publishEvent(ctx, events.TypeDiscountApplied, map[string]interface{}{
		"user_id":           session.UserID.String(),
		"new_monthly_cents": newMonthlyCents,
		"percent_off":       percentOff,
	})
	if s.mail != nil && session.Email != "" {
		if err := s.mail.SendDiscountApplied(session.Email, newMonthlyCents, percentOff); err != nil {
			s.logger.Warn("retention", "Discount email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("retention", "Discount applied, subscriber retained", map[string]interface{}{
		"user_id":           session.UserID,
		"new_monthly_cents": newMonthlyCents,
		"percent_off":       percentOff,
	})
}

func (s *retentionService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.logger.Warn("retention", "Event publish failed", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
