package dto

// Wizard DTOs. One flow session per user; every response reports the step
// the session landed on so the client can render without guessing.

type StartFlowResponse struct {
	SessionId      string   `json:"sessionId"`
	Step           string   `json:"step"`
	Reasons        []string `json:"reasons"`
	PlanPriceCents int64    `json:"planPriceCents"`
	ConfirmMode    string   `json:"confirmMode"`
}

type SelectReasonRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

type RetentionDecisionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	// Decision is one of "stay", "back", "continue".
	Decision string `json:"decision" validate:"required,oneof=stay back continue"`
}

type SubmitPriceRequest struct {
	SessionId         string `json:"sessionId" validate:"required"`
	DesiredPriceCents int64  `json:"desiredPriceCents" validate:"required"`
}

type FlowOfferView struct {
	OriginalPriceCents int64  `json:"originalPriceCents"`
	UserInputCents     int64  `json:"userInputCents"`
	OfferPriceCents    int64  `json:"offerPriceCents"`
	SavingsCents       int64  `json:"savingsCents"`
	PercentOff         int    `json:"percentOff"`
	Stored             bool   `json:"stored"`
	StoredOfferId      string `json:"storedOfferId,omitempty"`
}

type FlowStateResponse struct {
	SessionId         string         `json:"sessionId"`
	Step              string         `json:"step"`
	Outcome           string         `json:"outcome,omitempty"`
	RetentionText     string         `json:"retentionText,omitempty"`
	Offer             *FlowOfferView `json:"offer,omitempty"`
	FinalOfferCents   int64          `json:"finalOfferCents,omitempty"`
	FinalOfferPercent int            `json:"finalOfferPercent,omitempty"`
}

type FlowDecisionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
}

type ConfirmCancelRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Password  string `json:"password,omitempty"`
	Phrase    string `json:"phrase,omitempty"`
}
