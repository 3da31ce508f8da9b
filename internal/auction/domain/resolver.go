package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome classifies how an auction resolved at close.
type Outcome string

const (
	// OutcomeWon means the highest bid met or exceeded the reserve price.
	OutcomeWon Outcome = "won"
	// OutcomeReserveNotMet means bids existed but none reached the reserve;
	// no bid is marked winning.
	OutcomeReserveNotMet Outcome = "reserve_not_met"
	// OutcomeNoBids means the auction closed without any accepted bid.
	OutcomeNoBids Outcome = "no_bids"
)

// Resolution is the terminal record of an auction. It is computed exactly
// once; later close calls return the stored value unchanged.
type Resolution struct {
	AuctionID     uuid.UUID
	Outcome       Outcome
	WinningBidID  *uuid.UUID
	WinningBidder string
	WinningAmount decimal.Decimal
	TotalBids     int
	// RevealedBids is the full bid list for sealed-bid auctions, disclosed
	// only at close. Nil for English auctions, whose bids were public all
	// along through the leaderboard.
	RevealedBids []*Bid
	ClosedAt     time.Time
}

// Resolve determines the winner for an auction from its accepted bids. It
// is pure: the winning flag and the auction's winning-bid reference are
// written by the registry inside the same critical section that stores the
// resolution. The switch over auction types is exhaustive; an unknown type
// is a programming error, not an input error.
func Resolve(a *Auction, bids []*Bid, now time.Time) *Resolution {
	switch a.Type {
	case AuctionEnglish:
		return resolveHighest(a, bids, now)
	case AuctionSealedBid:
		res := resolveHighest(a, bids, now)
		res.RevealedBids = bids
		return res
	default:
		panic(fmt.Sprintf("unreachable auction type %q", a.Type))
	}
}

// resolveHighest applies the shared highest-bid rule: maximum amount wins,
// ties broken by earliest acceptance, reserve price enforced.
func resolveHighest(a *Auction, bids []*Bid, now time.Time) *Resolution {
	res := &Resolution{
		AuctionID: a.ID,
		TotalBids: len(bids),
		ClosedAt:  now,
	}
	highest := HighestBid(bids)
	if highest == nil {
		res.Outcome = OutcomeNoBids
		return res
	}
	if highest.Amount.LessThan(a.ReservePrice) {
		res.Outcome = OutcomeReserveNotMet
		return res
	}
	winID := highest.ID
	res.Outcome = OutcomeWon
	res.WinningBidID = &winID
	res.WinningBidder = highest.BidderName
	res.WinningAmount = highest.Amount
	return res
}
