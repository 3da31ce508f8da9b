package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrInvalidParameters = errors.New("invalid auction parameters")
	// ErrLockTimeout means the per-auction lock could not be acquired within
	// the bounded wait. The bid was never considered submitted; the caller
	// may safely retry the same bid.
	ErrLockTimeout = errors.New("timed out waiting for auction lock")
)

// RejectionReason is a closed variant of bid-rejection causes. Rejections
// are client errors, never retried automatically by the engine.
type RejectionReason string

const (
	RejectAuctionClosed  RejectionReason = "auction_closed"
	RejectInvalidAmount  RejectionReason = "invalid_amount"
	RejectBelowMinimum   RejectionReason = "below_minimum"
	RejectBelowIncrement RejectionReason = "below_increment"
)

// Rejection is the result type for a refused bid. It is an error value so
// it travels through the usual return path, but callers are expected to
// branch on Reason rather than treat it as a fault. Minimum carries the
// numeric threshold that was violated (zero for AuctionClosed and
// InvalidAmount) so the bidder can correct and resubmit.
type Rejection struct {
	Reason  RejectionReason
	Message string
	Minimum decimal.Decimal
}

func (r *Rejection) Error() string { return r.Message }

// AsRejection unwraps a *Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
