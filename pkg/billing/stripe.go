package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Config holds Stripe configuration.
type Config struct {
	SecretKey      string
	WebhookSecret  string
	MonthlyPriceID string
	SuccessURL     string
	CancelURL      string
}

// ApplyCouponParams carries the discount terms for one subscription.
// All amounts are integer minor units (cents).
type ApplyCouponParams struct {
	CustomerID           string
	SubscriptionID       string
	PercentOff           int
	NewMonthlyPriceCents int64
	CurrentPriceCents    int64
	OriginalPriceCents   int64
}

// CheckoutSession is the hosted-checkout handle returned to the client.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// Provider abstracts the payment provider so services can be tested without
// network calls. The production implementation talks to Stripe.
type Provider interface {
	EnsureCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID string, metadata map[string]string) (*CheckoutSession, error)
	ApplyCoupon(ctx context.Context, p ApplyCouponParams) error
	CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) error
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}

type stripeProvider struct {
	api *client.API
	cfg Config
}

// NewStripeProvider creates the production Stripe-backed provider.
func NewStripeProvider(cfg Config) Provider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeProvider{api: api, cfg: cfg}
}

// EnsureCustomer returns an existing customer id or creates a new customer.
// An empty email is rejected; callers pass the stored customer id through
// untouched when they already have one.
func (s *stripeProvider) EnsureCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("customer email is required")
	}

	params := &stripe.CustomerParams{
		Email:    stripe.String(email),
		Name:     stripe.String(name),
		Metadata: metadata,
	}
	params.Context = ctx

	cust, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return cust.ID, nil
}

// CreateCheckoutSession creates a hosted subscription checkout session.
func (s *stripeProvider) CreateCheckoutSession(ctx context.Context, customerID string, metadata map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.MonthlyPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		Metadata:   metadata,
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{
		SessionID: sess.ID,
		URL:       sess.URL,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// ApplyCoupon creates a forever-duration coupon that reduces the monthly
// charge to the negotiated price and attaches it to the subscription. The
// amount is derived from integer cents so the charged price matches the
// offer exactly, independent of how the discount percentage was computed.
func (s *stripeProvider) ApplyCoupon(ctx context.Context, p ApplyCouponParams) error {
	amountOff := p.CurrentPriceCents - p.NewMonthlyPriceCents
	if amountOff <= 0 {
		return fmt.Errorf("new monthly price %d is not below current price %d", p.NewMonthlyPriceCents, p.CurrentPriceCents)
	}

	couponParams := &stripe.CouponParams{
		AmountOff: stripe.Int64(amountOff),
		Currency:  stripe.String(string(stripe.CurrencyUSD)),
		Duration:  stripe.String(string(stripe.CouponDurationForever)),
		Name:      stripe.String(fmt.Sprintf("Retention offer %d%% off", p.PercentOff)),
		Metadata: map[string]string{
			"subscription_id":   p.SubscriptionID,
			"customer_id":       p.CustomerID,
			"percent_off":       fmt.Sprintf("%d", p.PercentOff),
			"new_monthly_cents": fmt.Sprintf("%d", p.NewMonthlyPriceCents),
			"original_cents":    fmt.Sprintf("%d", p.OriginalPriceCents),
		},
	}
	couponParams.Context = ctx

	coupon, err := s.api.Coupons.New(couponParams)
	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Coupon: stripe.String(coupon.ID),
	}
	subParams.Context = ctx

	if _, err := s.api.Subscriptions.Update(p.SubscriptionID, subParams); err != nil {
		return fmt.Errorf("failed to apply coupon to subscription: %w", err)
	}

	return nil
}

// CancelSubscription cancels a subscription, by default at period end so the
// subscriber keeps access for the remainder of the paid period.
func (s *stripeProvider) CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) error {
	if atPeriodEnd {
		params := &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		}
		params.Context = ctx
		if _, err := s.api.Subscriptions.Update(subscriptionID, params); err != nil {
			return fmt.Errorf("failed to schedule cancellation: %w", err)
		}
		return nil
	}

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := s.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// ConstructWebhookEvent verifies the webhook signature and parses the event.
func (s *stripeProvider) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}
