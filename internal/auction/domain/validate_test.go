package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func englishAuction(now time.Time) *Auction {
	return NewAuction(uuid.New(), validParams(now), now)
}

func acceptedBid(auctionID uuid.UUID, amount int64, at time.Time) *Bid {
	return NewBid(uuid.New(), auctionID, "bidder-1", "Bidder One", decimal.NewFromInt(amount), at)
}

func TestValidateBidClosedPhase(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)
	a.Phase = PhaseClosed

	rej := ValidateBid(a, nil, decimal.NewFromInt(2000), now)
	require.NotNil(t, rej)
	assert.Equal(t, RejectAuctionClosed, rej.Reason)
}

func TestValidateBidPastEndTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)

	// Phase still says Active, but the window has passed.
	rej := ValidateBid(a, nil, decimal.NewFromInt(2000), a.EndTime.Add(time.Second))
	require.NotNil(t, rej)
	assert.Equal(t, RejectAuctionClosed, rej.Reason)
}

func TestValidateBidInvalidAmount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		rej := ValidateBid(a, nil, amount, now)
		require.NotNil(t, rej)
		assert.Equal(t, RejectInvalidAmount, rej.Reason)
	}
}

func TestValidateBidBelowMinimum(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)

	rej := ValidateBid(a, nil, decimal.NewFromInt(999), now)
	require.NotNil(t, rej)
	assert.Equal(t, RejectBelowMinimum, rej.Reason)
	assert.True(t, rej.Minimum.Equal(decimal.NewFromInt(1000)))
	assert.Contains(t, rej.Message, "$1000.00")
}

func TestValidateBidIncrementLaw(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)
	a.MinBid = decimal.NewFromInt(100)
	a.BidIncrement = decimal.NewFromInt(5)
	prior := []*Bid{acceptedBid(a.ID, 100, now)}

	// $104 fails: needs highest ($100) + increment ($5) = $105.
	rej := ValidateBid(a, prior, decimal.NewFromInt(104), now)
	require.NotNil(t, rej)
	assert.Equal(t, RejectBelowIncrement, rej.Reason)
	assert.True(t, rej.Minimum.Equal(decimal.NewFromInt(105)))
	assert.Contains(t, rej.Message, "$105.00")

	// Exactly $105 is accepted.
	assert.Nil(t, ValidateBid(a, prior, decimal.NewFromInt(105), now))
}

func TestValidateBidNoPriorBidsSkipsIncrement(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)

	// First bid only needs to meet the minimum, not minimum + increment.
	assert.Nil(t, ValidateBid(a, nil, decimal.NewFromInt(1000), now))
}

func TestValidateBidFirstFailingRuleWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := englishAuction(now)
	a.Phase = PhaseClosed

	// Amount is also invalid, but the closed check runs first.
	rej := ValidateBid(a, nil, decimal.NewFromInt(-1), now)
	require.NotNil(t, rej)
	assert.Equal(t, RejectAuctionClosed, rej.Reason)
}

func TestValidateBidSealedSameNumericRules(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := validParams(now)
	p.Type = AuctionSealedBid
	a := NewAuction(uuid.New(), p, now)
	prior := []*Bid{acceptedBid(a.ID, 1000, now)}

	rej := ValidateBid(a, prior, decimal.NewFromInt(1040), now)
	require.NotNil(t, rej)
	assert.Equal(t, RejectBelowIncrement, rej.Reason)
	assert.Nil(t, ValidateBid(a, prior, decimal.NewFromInt(1050), now))
}
