package pricing

import (
	"errors"
	"math"
	"math/rand"
)

// ErrInvalidInput is returned for non-positive declared prices.
var ErrInvalidInput = errors.New("declared price must be a positive amount")

// Policy computes discount offers from a user's declared affordability.
// All amounts are integer minor units (cents); floats appear only inside
// the discount computation and are rounded before leaving this package.
type Policy struct {
	// FloorCents is the minimum price any generated offer may reach.
	FloorCents int64
	// MinDiscountPct / MaxDiscountPct bound the uniform discount draw,
	// half-open: d ∈ [Min, Max).
	MinDiscountPct float64
	MaxDiscountPct float64
	// Rand returns a value in [0,1). Injected so quotes are deterministic
	// under test. Nil falls back to math/rand.
	Rand func() float64
}

// Default returns the reference configuration: $20.00 floor, 5–10% discount.
func Default() Policy {
	return Policy{
		FloorCents:     2000,
		MinDiscountPct: 5,
		MaxDiscountPct: 10,
	}
}

// Quote is the result of applying the policy to a declared price.
type Quote struct {
	OriginalPriceCents int64
	DeclaredCents      int64
	OfferCents         int64
	SavingsCents       int64
	PercentOff         int
	// RetainAtCurrentPrice is set when the declared price covers the full
	// plan price: no discount is generated and the subscriber keeps the
	// existing price.
	RetainAtCurrentPrice bool
}

// Quote applies the pricing rules:
//
//   - declared >= original: retain at the current price, no discount.
//   - declared <= floor: the offer is the floor with zero additional discount.
//   - otherwise: a discount d ∈ [Min, Max) applied to the DECLARED price
//     (not the original), clamped to the floor.
func (p Policy) Quote(declaredCents, originalCents int64) (Quote, error) {
	if declaredCents <= 0 {
		return Quote{}, ErrInvalidInput
	}

	q := Quote{
		OriginalPriceCents: originalCents,
		DeclaredCents:      declaredCents,
	}

	if declaredCents >= originalCents {
		q.RetainAtCurrentPrice = true
		q.OfferCents = originalCents
		return q, nil
	}

	if declaredCents <= p.FloorCents {
		q.OfferCents = p.FloorCents
		q.PercentOff = 0
		q.SavingsCents = 0
		return q, nil
	}

	d := p.draw()
	offer := int64(math.Round(float64(declaredCents) * (1 - d/100)))
	if offer < p.FloorCents {
		offer = p.FloorCents
	}

	q.OfferCents = offer
	q.SavingsCents = declaredCents - offer
	q.PercentOff = int(math.Round(float64(q.SavingsCents) / float64(declaredCents) * 100))
	return q, nil
}

func (p Policy) draw() float64 {
	f := p.Rand
	if f == nil {
		f = rand.Float64
	}
	return p.MinDiscountPct + f()*(p.MaxDiscountPct-p.MinDiscountPct)
}
