package application

import (
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionView is the output DTO for an auction. CurrentLeader is populated
// only for Active English auctions; Winner only once the auction is closed
// and resolved.
type AuctionView struct {
	ID            uuid.UUID       `json:"id"`
	LoanReference string          `json:"loan_reference"`
	Type          string          `json:"auction_type"`
	LotSize       decimal.Decimal `json:"lot_size"`
	MinBid        decimal.Decimal `json:"min_bid"`
	BidIncrement  decimal.Decimal `json:"bid_increment"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Phase         string          `json:"phase"`
	BidCount      int             `json:"bid_count"`
	CurrentLeader *LeaderView     `json:"current_leader,omitempty"`
	Winner        *WinnerView     `json:"winner,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LeaderView is the visible current leader of an Active English auction.
type LeaderView struct {
	BidderName  string          `json:"bidder_name"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// WinnerView is the resolved winner of a Closed auction.
type WinnerView struct {
	BidID      uuid.UUID       `json:"bid_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// BidView is the output DTO for the bidder's own accepted bid.
type BidView struct {
	ID          uuid.UUID       `json:"id"`
	AuctionID   uuid.UUID       `json:"auction_id"`
	BidderID    string          `json:"bidder_id"`
	BidderName  string          `json:"bidder_name"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// BidSummaryView lists an accepted bid. Amount is nil while a sealed-bid
// auction is still Active: no bid amount other than the bidder's own leaves
// the engine before close.
type BidSummaryView struct {
	ID          uuid.UUID        `json:"id"`
	BidderID    string           `json:"bidder_id"`
	BidderName  string           `json:"bidder_name"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	IsWinning   bool             `json:"is_winning"`
}

// LeaderEntryView is one leaderboard row.
type LeaderEntryView struct {
	Rank        int             `json:"rank"`
	BidderName  string          `json:"bidder_name"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// ResolutionView is the output DTO of a close call. Bids carries the
// revealed bid list for sealed auctions. AlreadyClosed marks the idempotent
// replay of a resolution fixed by an earlier close.
type ResolutionView struct {
	AuctionID     uuid.UUID        `json:"auction_id"`
	Outcome       string           `json:"outcome"`
	WinningBidID  *uuid.UUID       `json:"winning_bid_id,omitempty"`
	WinningBidder string           `json:"winning_bidder,omitempty"`
	WinningAmount *decimal.Decimal `json:"winning_amount,omitempty"`
	TotalBids     int              `json:"total_bids"`
	Bids          []BidSummaryView `json:"bids,omitempty"`
	AlreadyClosed bool             `json:"already_closed"`
	ClosedAt      time.Time        `json:"closed_at"`
}

func newBidView(b *domain.Bid) *BidView {
	return &BidView{
		ID:          b.ID,
		AuctionID:   b.AuctionID,
		BidderID:    b.BidderID,
		BidderName:  b.BidderName,
		Amount:      b.Amount,
		SubmittedAt: b.SubmittedAt,
	}
}

func newBidSummary(b *domain.Bid, withAmount bool) BidSummaryView {
	v := BidSummaryView{
		ID:          b.ID,
		BidderID:    b.BidderID,
		BidderName:  b.BidderName,
		SubmittedAt: b.SubmittedAt,
		IsWinning:   b.IsWinning,
	}
	if withAmount {
		amount := b.Amount
		v.Amount = &amount
	}
	return v
}

func newAuctionView(snap memory.Snap) *AuctionView {
	a := snap.Auction
	view := &AuctionView{
		ID:            a.ID,
		LoanReference: a.LoanReference,
		Type:          string(a.Type),
		LotSize:       a.LotSize,
		MinBid:        a.MinBid,
		BidIncrement:  a.BidIncrement,
		ReservePrice:  a.ReservePrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Phase:         string(a.Phase),
		BidCount:      len(snap.Bids),
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
	if a.Type == domain.AuctionEnglish && a.Phase == domain.PhaseActive {
		if leader := domain.HighestBid(snap.Bids); leader != nil {
			view.CurrentLeader = &LeaderView{
				BidderName:  leader.BidderName,
				Amount:      leader.Amount,
				SubmittedAt: leader.SubmittedAt,
			}
		}
	}
	if a.Phase == domain.PhaseClosed && snap.Resolution != nil && snap.Resolution.Outcome == domain.OutcomeWon {
		for _, b := range snap.Bids {
			if b.IsWinning {
				view.Winner = &WinnerView{
					BidID:      b.ID,
					BidderName: b.BidderName,
					Amount:     b.Amount,
				}
				break
			}
		}
	}
	return view
}

func newResolutionView(res *domain.Resolution, alreadyClosed bool) *ResolutionView {
	view := &ResolutionView{
		AuctionID:     res.AuctionID,
		Outcome:       string(res.Outcome),
		TotalBids:     res.TotalBids,
		AlreadyClosed: alreadyClosed,
		ClosedAt:      res.ClosedAt,
	}
	if res.Outcome == domain.OutcomeWon {
		view.WinningBidID = res.WinningBidID
		view.WinningBidder = res.WinningBidder
		amount := res.WinningAmount
		view.WinningAmount = &amount
	}
	for _, b := range res.RevealedBids {
		view.Bids = append(view.Bids, newBidSummary(b, true))
	}
	return view
}
