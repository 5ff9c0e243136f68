package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand returns a source that always draws the same fraction.
func fixedRand(f float64) func() float64 {
	return func() float64 { return f }
}

func TestQuoteRejectsNonPositiveInput(t *testing.T) {
	p := Default()

	_, err := p.Quote(0, 15000)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Quote(-500, 15000)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteRetainsAtOrAboveFullPrice(t *testing.T) {
	p := Default()

	// User declares $200 against a $150 plan: retained, no discount.
	q, err := p.Quote(20000, 15000)
	require.NoError(t, err)
	assert.True(t, q.RetainAtCurrentPrice)
	assert.Equal(t, int64(15000), q.OfferCents)
	assert.Equal(t, 0, q.PercentOff)

	// Exactly the full price also retains.
	q, err = p.Quote(15000, 15000)
	require.NoError(t, err)
	assert.True(t, q.RetainAtCurrentPrice)
}

func TestQuoteFloorShortCircuit(t *testing.T) {
	p := Default()

	// $10 declared: offer is the $20.00 floor with zero additional discount.
	q, err := p.Quote(1000, 15000)
	require.NoError(t, err)
	assert.False(t, q.RetainAtCurrentPrice)
	assert.Equal(t, int64(2000), q.OfferCents)
	assert.Equal(t, 0, q.PercentOff)
	assert.Equal(t, int64(0), q.SavingsCents)

	// Exactly at the floor behaves the same.
	q, err = p.Quote(2000, 15000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), q.OfferCents)
	assert.Equal(t, 0, q.PercentOff)
}

func TestQuoteKnownDraw(t *testing.T) {
	p := Default()
	// d = 5 + 0.6*(10-5) = 8%
	p.Rand = fixedRand(0.6)

	// $100 declared at 8%: offer $92.00, savings $8.00, 8% off.
	q, err := p.Quote(10000, 15000)
	require.NoError(t, err)
	assert.Equal(t, int64(9200), q.OfferCents)
	assert.Equal(t, int64(800), q.SavingsCents)
	assert.Equal(t, 8, q.PercentOff)
}

func TestQuoteDeterministicUnderInjectedSource(t *testing.T) {
	p := Default()
	p.Rand = fixedRand(0.25)

	first, err := p.Quote(9900, 15000)
	require.NoError(t, err)
	second, err := p.Quote(9900, 15000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteBounds(t *testing.T) {
	p := Default()
	src := rand.New(rand.NewSource(42))
	p.Rand = src.Float64

	// For any declared price strictly between floor and full price the
	// offer must land in [floor, declared).
	for declared := int64(2001); declared < 15000; declared += 97 {
		q, err := p.Quote(declared, 15000)
		require.NoError(t, err)
		assert.False(t, q.RetainAtCurrentPrice)
		assert.GreaterOrEqual(t, q.OfferCents, p.FloorCents, "declared=%d", declared)
		assert.Less(t, q.OfferCents, declared, "declared=%d", declared)
		assert.Equal(t, declared-q.OfferCents, q.SavingsCents)
	}
}

func TestQuoteDiscountAppliesToDeclaredNotOriginal(t *testing.T) {
	p := Default()
	p.Rand = fixedRand(0) // d = 5%

	q, err := p.Quote(8000, 15000)
	require.NoError(t, err)
	// 5% off the declared $80, not off the $150 plan price.
	assert.Equal(t, int64(7600), q.OfferCents)
	assert.Equal(t, 5, q.PercentOff)
}
