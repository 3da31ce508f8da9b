package application

import (
	"context"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/shopspring/decimal"
)

// DefaultAuctionDuration applies when a creation request supplies neither
// an explicit end time nor a duration.
const DefaultAuctionDuration = 24 * time.Hour

// CreateAuctionInput is the DTO for auction creation. EndTime wins over
// Duration when both are set; with neither, the default duration applies
// from the start time.
type CreateAuctionInput struct {
	LoanReference string
	Type          string
	LotSize       decimal.Decimal
	MinBid        decimal.Decimal
	BidIncrement  decimal.Decimal
	ReservePrice  decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	CreatedBy     string
}

// CreateAuctionUseCase registers a new auction in the engine.
type CreateAuctionUseCase struct {
	registry *memory.Registry
	sink     audit.Sink
	clock    clock.Clock
}

func NewCreateAuctionUseCase(registry *memory.Registry, sink audit.Sink, clk clock.Clock) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{registry: registry, sink: sink, clock: clk}
}

func (uc *CreateAuctionUseCase) Execute(ctx context.Context, in CreateAuctionInput) (*AuctionView, error) {
	start := in.StartTime
	if start.IsZero() {
		start = uc.clock.Now()
	}
	end := in.EndTime
	if end.IsZero() {
		d := in.Duration
		if d <= 0 {
			d = DefaultAuctionDuration
		}
		end = start.Add(d)
	}

	auctionType, err := domain.ParseAuctionType(in.Type)
	if err != nil {
		return nil, err
	}
	params := domain.Params{
		LoanReference: in.LoanReference,
		Type:          auctionType,
		LotSize:       in.LotSize,
		MinBid:        in.MinBid,
		BidIncrement:  in.BidIncrement,
		ReservePrice:  in.ReservePrice,
		StartTime:     start,
		EndTime:       end,
		CreatedBy:     in.CreatedBy,
	}

	a, err := uc.registry.Create(params)
	if err != nil {
		return nil, err
	}

	uc.sink.Record(ctx, newEvent(audit.EventAuctionCreated, "auction", a.ID, a.CreatedBy, "create", map[string]any{
		"loan_reference": a.LoanReference,
		"auction_type":   string(a.Type),
		"min_bid":        a.MinBid.String(),
		"reserve_price":  a.ReservePrice.String(),
		"end_time":       a.EndTime,
	}, uc.clock.Now()))

	snap, err := uc.registry.Snapshot(a.ID)
	if err != nil {
		return nil, err
	}
	return newAuctionView(snap), nil
}
