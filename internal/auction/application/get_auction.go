package application

import (
	"context"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/google/uuid"
)

// GetAuctionUseCase reads the current auction state. Reads run outside any
// critical section: a reader may see a state slightly older than an
// in-flight write, but never a torn one.
type GetAuctionUseCase struct {
	registry *memory.Registry
}

func NewGetAuctionUseCase(registry *memory.Registry) *GetAuctionUseCase {
	return &GetAuctionUseCase{registry: registry}
}

func (uc *GetAuctionUseCase) Execute(_ context.Context, auctionID uuid.UUID) (*AuctionView, error) {
	snap, err := uc.registry.Snapshot(auctionID)
	if err != nil {
		return nil, err
	}
	return newAuctionView(snap), nil
}

// ListBids returns accepted bids in acceptance order. While a sealed-bid
// auction is Active the amounts are withheld; after close they are visible.
func (uc *GetAuctionUseCase) ListBids(_ context.Context, auctionID uuid.UUID) ([]BidSummaryView, error) {
	snap, err := uc.registry.Snapshot(auctionID)
	if err != nil {
		return nil, err
	}
	withAmount := !(snap.Auction.Type == domain.AuctionSealedBid && snap.Auction.Phase != domain.PhaseClosed)
	out := make([]BidSummaryView, 0, len(snap.Bids))
	for _, b := range snap.Bids {
		out = append(out, newBidSummary(b, withAmount))
	}
	return out, nil
}

// LeaderboardUseCase computes the top-N current-leader view. English
// auctions expose it at any phase; sealed-bid auctions only after close.
type LeaderboardUseCase struct {
	registry *memory.Registry
	size     int
}

func NewLeaderboardUseCase(registry *memory.Registry, size int) *LeaderboardUseCase {
	if size <= 0 {
		size = domain.DefaultLeaderboardSize
	}
	return &LeaderboardUseCase{registry: registry, size: size}
}

func (uc *LeaderboardUseCase) Execute(_ context.Context, auctionID uuid.UUID) ([]LeaderEntryView, error) {
	snap, err := uc.registry.Snapshot(auctionID)
	if err != nil {
		return nil, err
	}
	if snap.Auction.Type == domain.AuctionSealedBid && snap.Auction.Phase != domain.PhaseClosed {
		return []LeaderEntryView{}, nil
	}
	entries := domain.Leaderboard(snap.Bids, uc.size)
	out := make([]LeaderEntryView, len(entries))
	for i, e := range entries {
		out[i] = LeaderEntryView{
			Rank:        e.Rank,
			BidderName:  e.BidderName,
			Amount:      e.Amount,
			SubmittedAt: e.SubmittedAt,
		}
	}
	return out, nil
}
