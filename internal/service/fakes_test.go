package service

import (
	"context"
	"sync"
	"time"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/contract"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/pkg/billing"
	"trade-alerts-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
)

// In-memory test doubles for the repository and infrastructure layers.
// The repository fakes interpret the handful of specifications the services
// actually use instead of building SQL.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type fakeUserRepo struct {
	user    *entity.User
	findErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.user, r.findErr
}
func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

type fakeSubscriptionRepo struct {
	sub     *entity.UserSubscription
	findErr error
	updated []*entity.UserSubscription
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.UserSubscription) error {
	return nil
}
func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	return r.sub, r.findErr
}
func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	return nil, nil
}
func (r *fakeSubscriptionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.UserSubscription) error {
	r.updated = append(r.updated, sub)
	return nil
}
func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakePlanRepo struct {
	plan *entity.SubscriptionPlan
}

func (r *fakePlanRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	return r.plan, nil
}
func (r *fakePlanRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	if r.plan == nil {
		return nil, nil
	}
	return []*entity.SubscriptionPlan{r.plan}, nil
}
func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.SubscriptionPlan) error { return nil }

type fakeCancellationRepo struct {
	created []*entity.Cancellation
}

func (r *fakeCancellationRepo) Create(ctx context.Context, c *entity.Cancellation) error {
	r.created = append(r.created, c)
	return nil
}
func (r *fakeCancellationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Cancellation, error) {
	return nil, nil
}
func (r *fakeCancellationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cancellation, error) {
	return r.created, nil
}
func (r *fakeCancellationRepo) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.Cancellation, error) {
	return r.created, nil
}
func (r *fakeCancellationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.created)), nil
}
func (r *fakeCancellationRepo) Update(ctx context.Context, c *entity.Cancellation) error { return nil }
func (r *fakeCancellationRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

// fakeOfferRepo keeps offers in a slice and interprets the specifications the
// offer service queries with.
type fakeOfferRepo struct {
	offers  []*entity.Offer
	findErr error
}

func matchOffer(o *entity.Offer, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if o.ID != sp.ID {
				return false
			}
		case specification.BySubscription:
			if o.SubscriptionID != sp.SubscriptionID {
				return false
			}
		case specification.ActiveOffers:
			if !o.Active(sp.Now) {
				return false
			}
		case specification.ByStatus:
			if string(o.Status) != sp.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeOfferRepo) Create(ctx context.Context, offer *entity.Offer) error {
	r.offers = append(r.offers, offer)
	return nil
}
func (r *fakeOfferRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, o := range r.offers {
		if matchOffer(o, specs) {
			return o, nil
		}
	}
	return nil, nil
}
func (r *fakeOfferRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, o := range r.offers {
		if matchOffer(o, specs) {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeOfferRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, _ := r.FindAll(ctx, specs...)
	return int64(len(matches)), nil
}
func (r *fakeOfferRepo) Update(ctx context.Context, offer *entity.Offer) error {
	for i, o := range r.offers {
		if o.ID == offer.ID {
			r.offers[i] = offer
			return nil
		}
	}
	return nil
}
func (r *fakeOfferRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeOfferRepo) ExpireStale(ctx context.Context) (int64, error) {
	now := time.Now()
	var n int64
	for _, o := range r.offers {
		if o.Status == entity.OfferStatusPending && !now.Before(o.ExpiresAt) {
			o.Status = entity.OfferStatusExpired
			n++
		}
	}
	return n, nil
}

type fakeUnitOfWork struct {
	users         *fakeUserRepo
	subs          *fakeSubscriptionRepo
	plans         *fakePlanRepo
	offers        *fakeOfferRepo
	cancellations *fakeCancellationRepo

	begun     int
	committed int
	beginErr  error
	commitErr error
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:         &fakeUserRepo{},
		subs:          &fakeSubscriptionRepo{},
		plans:         &fakePlanRepo{},
		offers:        &fakeOfferRepo{},
		cancellations: &fakeCancellationRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.begun++
	return nil
}
func (u *fakeUnitOfWork) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed++
	return nil
}
func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository                 { return u.users }
func (u *fakeUnitOfWork) PlanRepository() contract.PlanRepository                 { return u.plans }
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository { return u.subs }
func (u *fakeUnitOfWork) OfferRepository() contract.OfferRepository               { return u.offers }
func (u *fakeUnitOfWork) CancellationRepository() contract.CancellationRepository {
	return u.cancellations
}
func (u *fakeUnitOfWork) VerificationTokenRepository() contract.VerificationTokenRepository {
	return nil
}
func (u *fakeUnitOfWork) ChatChannelRepository() contract.ChatChannelRepository { return nil }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *fakeUnitOfWork) AlertRepository() contract.AlertRepository             { return nil }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type couponCall struct {
	params billing.ApplyCouponParams
}

type cancelCall struct {
	subscriptionID string
	atPeriodEnd    bool
}

type fakeBilling struct {
	applyErr  error
	cancelErr error
	coupons   []couponCall
	cancels   []cancelCall
}

func (b *fakeBilling) EnsureCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	return "cus_test", nil
}
func (b *fakeBilling) CreateCheckoutSession(ctx context.Context, customerID string, metadata map[string]string) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{SessionID: "cs_test", URL: "https://checkout.test"}, nil
}
func (b *fakeBilling) ApplyCoupon(ctx context.Context, p billing.ApplyCouponParams) error {
	if b.applyErr != nil {
		return b.applyErr
	}
	b.coupons = append(b.coupons, couponCall{params: p})
	return nil
}
func (b *fakeBilling) CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) error {
	if b.cancelErr != nil {
		return b.cancelErr
	}
	b.cancels = append(b.cancels, cancelCall{subscriptionID: subscriptionID, atPeriodEnd: atPeriodEnd})
	return nil
}
func (b *fakeBilling) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

type fakeBus struct {
	published []events.Event
	err       error
}

func (b *fakeBus) Publish(ctx context.Context, event events.Event) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, event)
	return nil
}

func (b *fakeBus) eventTypes() []string {
	var types []string
	for _, e := range b.published {
		types = append(types, e.EventType())
	}
	return types
}

type fakeDeclinePub struct {
	messages []*message.Message
	err      error
}

func (p *fakeDeclinePub) Publish(topic string, messages ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, messages...)
	return nil
}
func (p *fakeDeclinePub) Close() error { return nil }

type fakeMailer struct {
	verifications     []string
	discounts         []string
	cancellations     []string
	lastDiscountCents int64
}

func (m *fakeMailer) SendVerification(toEmail, token string) error {
	m.verifications = append(m.verifications, toEmail)
	return nil
}
func (m *fakeMailer) SendDiscountApplied(toEmail string, newMonthlyCents int64, percentOff int) error {
	m.discounts = append(m.discounts, toEmail)
	m.lastDiscountCents = newMonthlyCents
	return nil
}
func (m *fakeMailer) SendCancellationConfirmed(toEmail, effectiveDate string) error {
	m.cancellations = append(m.cancellations, toEmail)
	return nil
}

// fakeOfferSvc stands in for IOfferService in wizard tests so stored-offer
// lookups and accept failures can be controlled directly. StoreDeclinedOffer
// is guarded by a mutex because the consumer calls it from its own goroutine.
type fakeOfferSvc struct {
	active    *entity.Offer
	activeErr error
	acceptErr error
	accepted  []uuid.UUID

	mu     sync.Mutex
	stored []StoreOfferParams
}

func (f *fakeOfferSvc) GetActiveOffer(ctx context.Context, subscriptionID uuid.UUID) (*entity.Offer, error) {
	return f.active, f.activeErr
}
func (f *fakeOfferSvc) StoreDeclinedOffer(ctx context.Context, p StoreOfferParams) (*entity.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, p)
	return &entity.Offer{ID: uuid.New()}, nil
}

func (f *fakeOfferSvc) storedParams() []StoreOfferParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]StoreOfferParams, len(f.stored))
	copy(out, f.stored)
	return out
}
func (f *fakeOfferSvc) AcceptOffer(ctx context.Context, offerID, userID uuid.UUID) (*entity.Offer, error) {
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	f.accepted = append(f.accepted, offerID)
	return f.active, nil
}
func (f *fakeOfferSvc) ExpireStale(ctx context.Context) (int64, error) { return 0, nil }
