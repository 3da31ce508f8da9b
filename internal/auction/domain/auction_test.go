package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams(now time.Time) Params {
	return Params{
		LoanReference: "analysis-42",
		Type:          AuctionEnglish,
		LotSize:       decimal.NewFromInt(1_000_000),
		MinBid:        decimal.NewFromInt(1000),
		BidIncrement:  decimal.NewFromInt(50),
		ReservePrice:  decimal.NewFromInt(1200),
		StartTime:     now,
		EndTime:       now.Add(24 * time.Hour),
		CreatedBy:     "trader-1",
	}
}

func TestParamsValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validParams(now).Validate())
	})

	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"missing loan reference", func(p *Params) { p.LoanReference = "" }},
		{"missing creator", func(p *Params) { p.CreatedBy = "" }},
		{"unknown type", func(p *Params) { p.Type = "dutch" }},
		{"end before start", func(p *Params) { p.EndTime = p.StartTime.Add(-time.Hour) }},
		{"end equals start", func(p *Params) { p.EndTime = p.StartTime }},
		{"negative lot size", func(p *Params) { p.LotSize = decimal.NewFromInt(-1) }},
		{"negative min bid", func(p *Params) { p.MinBid = decimal.NewFromInt(-1) }},
		{"zero increment", func(p *Params) { p.BidIncrement = decimal.Zero }},
		{"negative reserve", func(p *Params) { p.ReservePrice = decimal.NewFromInt(-5) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams(now)
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestParseAuctionType(t *testing.T) {
	got, err := ParseAuctionType("english")
	require.NoError(t, err)
	assert.Equal(t, AuctionEnglish, got)

	got, err = ParseAuctionType("sealed_bid")
	require.NoError(t, err)
	assert.Equal(t, AuctionSealedBid, got)

	_, err = ParseAuctionType("dutch")
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestNewAuctionInitialPhase(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := validParams(now)
	p.StartTime = now.Add(time.Hour)
	p.EndTime = now.Add(25 * time.Hour)
	a := NewAuction(uuid.New(), p, now)
	assert.Equal(t, PhasePending, a.Phase)

	p = validParams(now)
	a = NewAuction(uuid.New(), p, now)
	assert.Equal(t, PhaseActive, a.Phase)
}

func TestPhaseAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := validParams(now)
	p.StartTime = now.Add(time.Hour)
	p.EndTime = now.Add(2 * time.Hour)
	a := NewAuction(uuid.New(), p, now)

	assert.Equal(t, PhasePending, a.PhaseAt(now))
	assert.Equal(t, PhaseActive, a.PhaseAt(now.Add(time.Hour)))
	assert.Equal(t, PhaseActive, a.PhaseAt(now.Add(90*time.Minute)))
	assert.Equal(t, PhaseClosed, a.PhaseAt(now.Add(2*time.Hour)))
	assert.Equal(t, PhaseClosed, a.PhaseAt(now.Add(3*time.Hour)))

	// Closed is terminal regardless of the clock.
	a.Phase = PhaseClosed
	assert.Equal(t, PhaseClosed, a.PhaseAt(now))
}
