package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateBid checks a candidate amount against an auction snapshot and the
// previously accepted bids. It is a pure function: the caller is responsible
// for holding the per-auction lock so the snapshot cannot move underneath
// the decision.
//
// Rules apply in order and the first failure wins, so callers can rely on
// the reason to be the earliest violated rule:
//
//  1. stored phase Closed            -> AuctionClosed
//  2. now past end_time              -> AuctionClosed (even if the phase
//     field has not been refreshed yet)
//  3. amount <= 0                    -> InvalidAmount
//  4. amount < min_bid               -> BelowMinimum
//  5. amount < highest + increment   -> BelowIncrement (only when prior
//     accepted bids exist)
//
// Returns nil when the bid is acceptable.
func ValidateBid(a *Auction, prior []*Bid, amount decimal.Decimal, now time.Time) *Rejection {
	if a.Phase == PhaseClosed {
		return &Rejection{
			Reason:  RejectAuctionClosed,
			Message: "auction is closed",
		}
	}
	if now.After(a.EndTime) {
		return &Rejection{
			Reason:  RejectAuctionClosed,
			Message: "auction has closed",
		}
	}
	if !amount.IsPositive() {
		return &Rejection{
			Reason:  RejectInvalidAmount,
			Message: "bid amount must be greater than zero",
		}
	}
	if amount.LessThan(a.MinBid) {
		return &Rejection{
			Reason:  RejectBelowMinimum,
			Message: fmt.Sprintf("bid must be at least $%s", a.MinBid.StringFixed(2)),
			Minimum: a.MinBid,
		}
	}
	if highest := HighestBid(prior); highest != nil {
		required := highest.Amount.Add(a.BidIncrement)
		if amount.LessThan(required) {
			return &Rejection{
				Reason: RejectBelowIncrement,
				Message: fmt.Sprintf("bid must be at least $%s (current highest $%s + increment $%s)",
					required.StringFixed(2), highest.Amount.StringFixed(2), a.BidIncrement.StringFixed(2)),
				Minimum: required,
			}
		}
	}
	return nil
}
