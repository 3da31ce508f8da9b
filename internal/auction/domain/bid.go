package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an accepted bid. A rejected submission never becomes a Bid and is
// never assigned an ID. SubmittedAt is the acceptance instant inside the
// per-auction critical section, which makes it a total order per auction.
type Bid struct {
	ID          uuid.UUID
	AuctionID   uuid.UUID
	BidderID    string
	BidderName  string
	Amount      decimal.Decimal
	SubmittedAt time.Time
	IsWinning   bool
}

// NewBid creates an accepted bid stamped at the given instant.
func NewBid(id, auctionID uuid.UUID, bidderID, bidderName string, amount decimal.Decimal, submittedAt time.Time) *Bid {
	return &Bid{
		ID:          id,
		AuctionID:   auctionID,
		BidderID:    bidderID,
		BidderName:  bidderName,
		Amount:      amount,
		SubmittedAt: submittedAt,
	}
}

// HighestBid returns the accepted bid with the maximum amount, ties broken
// by earliest SubmittedAt. Nil when the list is empty.
func HighestBid(bids []*Bid) *Bid {
	var best *Bid
	for _, b := range bids {
		if best == nil {
			best = b
			continue
		}
		switch b.Amount.Cmp(best.Amount) {
		case 1:
			best = b
		case 0:
			if b.SubmittedAt.Before(best.SubmittedAt) {
				best = b
			}
		}
	}
	return best
}
