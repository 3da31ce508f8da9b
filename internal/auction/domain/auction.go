package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionType is a closed variant: only the two sale formats below exist.
type AuctionType string

const (
	AuctionEnglish   AuctionType = "english"
	AuctionSealedBid AuctionType = "sealed_bid"
)

// ParseAuctionType maps the wire representation to the variant.
func ParseAuctionType(s string) (AuctionType, error) {
	switch AuctionType(s) {
	case AuctionEnglish:
		return AuctionEnglish, nil
	case AuctionSealedBid:
		return AuctionSealedBid, nil
	default:
		return "", fmt.Errorf("%w: unknown auction type %q", ErrInvalidParameters, s)
	}
}

// Phase is the lifecycle stage of an auction. Transitions are monotonic:
// Pending -> Active -> Closed, and Closed is terminal.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseActive  Phase = "active"
	PhaseClosed  Phase = "closed"
)

// Params carries the creation input for an auction. All monetary
// quantities are fixed-precision decimals, never floats.
type Params struct {
	LoanReference string
	Type          AuctionType
	LotSize       decimal.Decimal
	MinBid        decimal.Decimal
	BidIncrement  decimal.Decimal
	ReservePrice  decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	CreatedBy     string
}

// Validate checks the creation rules. Every violation wraps
// ErrInvalidParameters so callers can classify with errors.Is.
func (p Params) Validate() error {
	if p.LoanReference == "" {
		return fmt.Errorf("%w: loan_reference is required", ErrInvalidParameters)
	}
	if p.CreatedBy == "" {
		return fmt.Errorf("%w: created_by is required", ErrInvalidParameters)
	}
	if _, err := ParseAuctionType(string(p.Type)); err != nil {
		return err
	}
	if !p.EndTime.After(p.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrInvalidParameters)
	}
	if p.LotSize.IsNegative() {
		return fmt.Errorf("%w: lot_size cannot be negative", ErrInvalidParameters)
	}
	if p.MinBid.IsNegative() {
		return fmt.Errorf("%w: min_bid cannot be negative", ErrInvalidParameters)
	}
	if !p.BidIncrement.IsPositive() {
		return fmt.Errorf("%w: bid_increment must be positive", ErrInvalidParameters)
	}
	if p.ReservePrice.IsNegative() {
		return fmt.Errorf("%w: reserve_price cannot be negative", ErrInvalidParameters)
	}
	return nil
}

// Auction is the aggregate root for one timed sale of a loan position.
// The engine never dereferences LoanReference; it is an opaque key owned
// by the analysis pipeline around the engine.
type Auction struct {
	ID            uuid.UUID
	LoanReference string
	Type          AuctionType
	LotSize       decimal.Decimal
	MinBid        decimal.Decimal
	BidIncrement  decimal.Decimal
	ReservePrice  decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	Phase         Phase
	WinningBidID  *uuid.UUID
	CreatedBy     string
	CreatedAt     time.Time
}

// NewAuction builds an auction from validated params. The initial phase is
// Pending when the start time is still in the future, otherwise Active.
func NewAuction(id uuid.UUID, p Params, now time.Time) *Auction {
	phase := PhaseActive
	if p.StartTime.After(now) {
		phase = PhasePending
	}
	return &Auction{
		ID:            id,
		LoanReference: p.LoanReference,
		Type:          p.Type,
		LotSize:       p.LotSize,
		MinBid:        p.MinBid,
		BidIncrement:  p.BidIncrement,
		ReservePrice:  p.ReservePrice,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		Phase:         phase,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     now,
	}
}

// PhaseAt returns the effective phase at the given instant. A stored
// Closed phase is sticky; otherwise the phase derives from the auction
// window. Real instant comparison only, never string prefixes.
func (a *Auction) PhaseAt(now time.Time) Phase {
	if a.Phase == PhaseClosed {
		return PhaseClosed
	}
	if !now.Before(a.EndTime) {
		return PhaseClosed
	}
	if !now.Before(a.StartTime) {
		return PhaseActive
	}
	return PhasePending
}
