package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/lock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidInput is the DTO for a bid submission. Bidder identity is opaque
// here; authenticity is the surrounding service's concern.
type PlaceBidInput struct {
	AuctionID  uuid.UUID
	BidderID   string
	BidderName string
	Amount     decimal.Decimal
}

// PlaceBidUseCase submits a bid through the per-auction serializer so that
// validate-then-accept is atomic relative to every other bid attempt on the
// same auction. Bids on different auctions proceed in parallel.
type PlaceBidUseCase struct {
	registry *memory.Registry
	locks    *lock.KeyedMutex
	sink     audit.Sink
	clock    clock.Clock
}

func NewPlaceBidUseCase(registry *memory.Registry, locks *lock.KeyedMutex, sink audit.Sink, clk clock.Clock) *PlaceBidUseCase {
	return &PlaceBidUseCase{registry: registry, locks: locks, sink: sink, clock: clk}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, in PlaceBidInput) (*BidView, error) {
	var bid *domain.Bid
	err := uc.locks.WithLock(ctx, in.AuctionID, func() error {
		var err error
		bid, err = uc.registry.PlaceBid(in.AuctionID, in.BidderID, in.BidderName, in.Amount)
		return err
	})
	if err != nil {
		if rej, ok := domain.AsRejection(err); ok {
			uc.sink.Record(ctx, newEvent(audit.EventBidRejected, "auction", in.AuctionID, in.BidderID, "place_bid", map[string]any{
				"amount":  in.Amount.String(),
				"reason":  string(rej.Reason),
				"message": rej.Message,
			}, uc.clock.Now()))
			return nil, rej
		}
		// LockTimeout or NotFound: the bid was never considered submitted,
		// so no audit record is emitted.
		if errors.Is(err, domain.ErrLockTimeout) {
			log.Warn("place bid: lock timeout",
				zap.String("auctionID", in.AuctionID.String()),
				zap.String("bidderID", in.BidderID),
			)
			return nil, err
		}
		return nil, fmt.Errorf("place bid: %w", err)
	}

	uc.sink.Record(ctx, newEvent(audit.EventBidAccepted, "bid", bid.ID, in.BidderID, "place_bid", map[string]any{
		"auction_id": in.AuctionID.String(),
		"amount":     bid.Amount.String(),
	}, uc.clock.Now()))

	return newBidView(bid), nil
}
