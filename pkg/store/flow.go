package store

import (
	"time"

	"github.com/google/uuid"
)

// FlowStep identifies the wizard position of a cancellation session.
type FlowStep string

// CancelReason is one of the fixed catalog of reason codes.
type CancelReason string

// FlowOutcome is the terminal result of a cancellation session.
type FlowOutcome string

// ConfirmMode selects how the final cancellation gate is verified.
type ConfirmMode string

const (
	StepReason     FlowStep = "reason"
	StepRetention  FlowStep = "retention"
	StepPrice      FlowStep = "price"
	StepFinalOffer FlowStep = "final_offer"
	StepConfirm    FlowStep = "confirm"

	ReasonNevermind        CancelReason = "nevermind"
	ReasonNoTime           CancelReason = "no-time"
	ReasonCantAfford       CancelReason = "cant-afford"
	ReasonNotReady         CancelReason = "not-ready"
	ReasonAlreadyMakeMoney CancelReason = "already-make-money"
	ReasonDontKnow         CancelReason = "dont-know"

	OutcomeCancelled  FlowOutcome = "cancelled"
	OutcomeRetained   FlowOutcome = "retained"
	OutcomeDiscounted FlowOutcome = "discounted"

	ConfirmModePassword ConfirmMode = "password"
	ConfirmModePhrase   ConfirmMode = "phrase"

	// ConfirmPhrase is the literal text OAuth-only accounts must type
	// instead of a password.
	ConfirmPhrase = "CANCEL"
)

// ValidReason reports whether the reason code belongs to the fixed catalog.
func ValidReason(r CancelReason) bool {
	switch r {
	case ReasonNevermind, ReasonNoTime, ReasonCantAfford,
		ReasonNotReady, ReasonAlreadyMakeMoney, ReasonDontKnow:
		return true
	}
	return false
}

// GeneratedOffer is a discount computed for the session but not yet persisted.
// All amounts are integer minor units (cents).
type GeneratedOffer struct {
	OriginalPriceCents int64 `json:"original_price_cents"`
	UserInputCents     int64 `json:"user_input_cents"`
	OfferPriceCents    int64 `json:"offer_price_cents"`
	SavingsCents       int64 `json:"savings_cents"`
	PercentOff         int   `json:"percent_off"`
}

// FlowSession is the ephemeral state of one cancellation wizard run.
// It lives only in the in-memory session store and is owned by a single
// user for the lifetime of one wizard modal.
type FlowSession struct {
	ID             string       `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Email          string       `json:"email"`
	SubscriptionID uuid.UUID    `json:"subscription_id"`
	CustomerID     string       `json:"customer_id"`     // payment provider customer
	ProviderSubID  string       `json:"provider_sub_id"` // payment provider subscription
	PlanPriceCents int64        `json:"plan_price_cents"`
	Step           FlowStep     `json:"step"`
	Reason         CancelReason `json:"reason,omitempty"`
	UserInputCents int64        `json:"user_input_cents,omitempty"`

	// Generated holds a freshly computed offer the user has not rejected yet.
	Generated *GeneratedOffer `json:"generated,omitempty"`
	// StoredOfferID is set when an existing server-side offer was found.
	StoredOfferID *uuid.UUID `json:"stored_offer_id,omitempty"`

	ConfirmMode ConfirmMode `json:"confirm_mode"`
	Outcome     FlowOutcome `json:"outcome,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
}

// Done reports whether the session reached a terminal outcome.
func (s *FlowSession) Done() bool {
	return s.Outcome != ""
}
