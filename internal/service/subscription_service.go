package service

import (
	"context"
	"encoding/json"
	"time"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/pkg/billing"
	"trade-alerts-be/pkg/events"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	stripeSDK "github.com/stripe/stripe-go/v76"
	"golang.org/x/crypto/bcrypt"
)

const plansCacheKey = "subscription_plans"

type ISubscriptionService interface {
	ListPlans(ctx context.Context) ([]dto.PlanResponse, error)
	CreateCheckout(ctx context.Context, userID, planID uuid.UUID) (*dto.CheckoutResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// Custom offer contract.
	GetCustomOffer(ctx context.Context, userID, subscriptionID uuid.UUID) (*dto.CustomOfferLookupResponse, error)
	RejectCustomOffer(ctx context.Context, userID uuid.UUID, req dto.RejectOfferRequest) (*dto.RejectOfferResponse, error)
	AcceptCustomOffer(ctx context.Context, userID, offerID uuid.UUID) (*dto.AcceptOfferResponse, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, req dto.ApplyCouponRequest) error
	Cancel(ctx context.Context, userID uuid.UUID, req dto.CancelSubscriptionRequest) (*dto.CancelSubscriptionResponse, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	billing    billing.Provider
	offers     IOfferService
	bus        EventPublisher
	planCache  *cache.Cache
	logger     logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	billingProvider billing.Provider,
	offers IOfferService,
	bus EventPublisher,
	log logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		billing:    billingProvider,
		offers:     offers,
		bus:        bus,
		planCache:  cache.New(5*time.Minute, 10*time.Minute),
		logger:     log,
	}
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	if cached, found := s.planCache.Get(plansCacheKey); found {
		return cached.([]dto.PlanResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.PlanRepository().FindAll(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, dto.PlanResponse{
			Id:              p.Id,
			Name:            p.Name,
			Slug:            p.Slug,
			Description:     p.Description,
			Tagline:         p.Tagline,
			PriceCents:      p.PriceCents,
			AlertsEnabled:   p.AlertsEnabled,
			ChatEnabled:     p.ChatEnabled,
			AlertDailyLimit: p.AlertDailyLimit,
			IsMostPopular:   p.IsMostPopular,
		})
	}

	s.planCache.Set(plansCacheKey, res, cache.DefaultExpiration)
	return res, nil
}

func (s *subscriptionService) CreateCheckout(ctx context.Context, userID, planID uuid.UUID) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: planID})
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, ErrNotFound
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	} else {
		customerID, err = s.billing.EnsureCustomer(ctx, user.Email, user.FullName, map[string]string{
			"user_id": user.Id.String(),
		})
		if err != nil {
			return nil, err
		}
		user.StripeCustomerID = &customerID
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	sess, err := s.billing.CreateCheckoutSession(ctx, customerID, map[string]string{
		"user_id": user.Id.String(),
		"plan_id": plan.Id.String(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		SessionId:   sess.SessionID,
		CheckoutURL: sess.URL,
		ExpiresAt:   sess.ExpiresAt,
	}, nil
}

func (s *subscriptionService) GetStatus(ctx context.Context, userID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}

	res := &dto.SubscriptionStatusResponse{
		Id:                sub.Id,
		PlanId:            sub.PlanId,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if plan != nil {
		res.PlanName = plan.Name
		res.PriceCents = plan.PriceCents
	}
	if sub.StripeCustomerID != nil {
		res.StripeCustomerId = *sub.StripeCustomerID
	}
	if sub.StripeSubscriptionID != nil {
		res.StripeSubscription = *sub.StripeSubscriptionID
	}
	return res, nil
}

func (s *subscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.billing.ConstructWebhookEvent(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	case "invoice.payment_failed":
		return s.handlePaymentFailed(ctx, event)
	default:
		s.logger.Debug("subscription", "Ignoring webhook event", map[string]interface{}{"type": event.Type})
		return nil
	}
}

func (s *subscriptionService) handleCheckoutCompleted(ctx context.Context, event stripeSDK.Event) error {
	var sess stripeSDK.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	userID, err := uuid.Parse(sess.Metadata["user_id"])
	if err != nil {
		s.logger.Warn("subscription", "Checkout session without user_id metadata", map[string]interface{}{"session": sess.ID})
		return nil
	}
	planID, err := uuid.Parse(sess.Metadata["plan_id"])
	if err != nil {
		return nil
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	sub := &entity.UserSubscription{
		Id:                   uuid.New(),
		UserId:               userID,
		PlanId:               planID,
		Status:               entity.SubscriptionStatusActive,
		PaymentStatus:        entity.PaymentStatusPaid,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     now.AddDate(0, 1, 0),
		StripeSubscriptionID: &subscriptionID,
		StripeCustomerID:     &customerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.bus != nil {
		user, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
		fullName := ""
		if user != nil {
			fullName = user.FullName
		}
		evt := events.BaseEvent{
			Type: events.TypeSubscriptionCreated,
			Data: map[string]interface{}{
				"user_id":   userID.String(),
				"full_name": fullName,
			},
			OccurredAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.logger.Warn("subscription", "Subscription event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("subscription", "Subscription activated via checkout", map[string]interface{}{
		"user_id":         userID,
		"subscription_id": sub.Id,
	})
	return nil
}

func (s *subscriptionService) handleSubscriptionDeleted(ctx context.Context, event stripeSDK.Event) error {
	var stripeSub stripeSDK.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.Filter("stripe_subscription_id", stripeSub.ID),
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	now := time.Now()
	sub.Status = entity.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	return uow.SubscriptionRepository().Update(ctx, sub)
}

func (s *subscriptionService) handlePaymentFailed(ctx context.Context, event stripeSDK.Event) error {
	var invoice stripeSDK.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return err
	}
	if invoice.Subscription == nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.Filter("stripe_subscription_id", invoice.Subscription.ID),
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	sub.Status = entity.SubscriptionStatusPastDue
	sub.PaymentStatus = entity.PaymentStatusFailed
	return uow.SubscriptionRepository().Update(ctx, sub)
}

func (s *subscriptionService) GetCustomOffer(ctx context.Context, userID, subscriptionID uuid.UUID) (*dto.CustomOfferLookupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership check: users may only inspect their own subscriptions.
	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByID{ID: subscriptionID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}

	offer, err := s.offers.GetActiveOffer(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	res := &dto.CustomOfferLookupResponse{Success: true, HasOffer: offer != nil}
	if offer != nil {
		v := mapOfferResponse(offer)
		res.Offer = &v
	}
	return res, nil
}

func (s *subscriptionService) RejectCustomOffer(ctx context.Context, userID uuid.UUID, req dto.RejectOfferRequest) (*dto.RejectOfferResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByID{ID: req.SubscriptionId},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}

	offer, err := s.offers.StoreDeclinedOffer(ctx, StoreOfferParams{
		SubscriptionID:     req.SubscriptionId,
		UserID:             userID,
		OriginalPriceCents: req.OriginalPriceCents,
		UserInputCents:     req.UserInputCents,
		OfferPriceCents:    req.OfferPriceCents,
		DiscountPercent:    req.DiscountPercent,
	})
	if err != nil {
		return nil, ErrOfferPersistenceFailed
	}

	return &dto.RejectOfferResponse{
		Success: true,
		Offer:   mapOfferResponse(offer),
	}, nil
}

func (s *subscriptionService) AcceptCustomOffer(ctx context.Context, userID, offerID uuid.UUID) (*dto.AcceptOfferResponse, error) {
	offer, err := s.offers.AcceptOffer(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: offer.SubscriptionID})
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.StripeCustomerID == nil || sub.StripeSubscriptionID == nil {
		return nil, ErrSubscriptionUnavailable
	}

	return &dto.AcceptOfferResponse{
		Success: true,
		ApplyCouponData: dto.ApplyCouponData{
			PercentOff:      offer.DiscountPercent,
			NewMonthlyPrice: offer.OfferPriceCents,
			CurrentPrice:    offer.OriginalPriceCents,
			OriginalPrice:   offer.OriginalPriceCents,
			CustomerId:      *sub.StripeCustomerID,
			SubscriptionId:  *sub.StripeSubscriptionID,
		},
	}, nil
}

func (s *subscriptionService) ApplyCoupon(ctx context.Context, userID uuid.UUID, req dto.ApplyCouponRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The provider subscription id in the request must belong to the caller.
	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.Filter("stripe_subscription_id", req.SubscriptionId),
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionUnavailable
	}

	err = s.billing.ApplyCoupon(ctx, billing.ApplyCouponParams{
		CustomerID:           req.CustomerId,
		SubscriptionID:       req.SubscriptionId,
		PercentOff:           req.PercentOff,
		NewMonthlyPriceCents: req.NewMonthlyPrice,
		CurrentPriceCents:    req.CurrentPrice,
		OriginalPriceCents:   req.OriginalPrice,
	})
	if err != nil {
		return ErrCouponApplicationFailed
	}

	if s.bus != nil {
		evt := events.BaseEvent{
			Type: events.TypeDiscountApplied,
			Data: map[string]interface{}{
				"user_id":           userID.String(),
				"new_monthly_cents": req.NewMonthlyPrice,
				"percent_off":       req.PercentOff,
			},
			OccurredAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.logger.Warn("subscription", "Discount event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID uuid.UUID, req dto.CancelSubscriptionRequest) (*dto.CancelSubscriptionResponse, error) {
	if !req.ConfirmCancel {
		return nil, ErrInvalidInput
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	// Password-holding accounts must re-enter it; OAuth-only accounts have
	// nothing to check here (the wizard gates them with a typed phrase).
	if user.PasswordHash != nil {
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidPassword
		}
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.StripeSubscriptionID == nil {
		return nil, ErrSubscriptionUnavailable
	}

	if err := s.billing.CancelSubscription(ctx, *sub.StripeSubscriptionID, true); err != nil {
		s.logger.Error("subscription", "Provider cancellation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, ErrCancellationFailed
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.CancellationRepository().Create(ctx, &entity.Cancellation{
		ID:             uuid.New(),
		SubscriptionID: sub.Id,
		UserID:         userID,
		Reason:         "direct",
		EffectiveDate:  sub.CurrentPeriodEnd,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CancelSubscriptionResponse{
		Message: "Subscription will be cancelled at the end of the current billing period",
	}, nil
}

func mapOfferResponse(offer *entity.Offer) dto.OfferResponse {
	return dto.OfferResponse{
		Id:                 offer.ID,
		SubscriptionId:     offer.SubscriptionID,
		OriginalPriceCents: offer.OriginalPriceCents,
		UserInputCents:     offer.UserInputCents,
		OfferPriceCents:    offer.OfferPriceCents,
		SavingsCents:       offer.SavingsCents,
		DiscountPercent:    offer.DiscountPercent,
		ExpiresAt:          offer.ExpiresAt,
	}
}
