package postgres

import (
	"context"
	"fmt"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Archiver persists closed auctions and their bids for downstream
// reporting. The engine remains the source of truth while an auction is
// live; rows land here only after resolution.
type Archiver struct {
	pool *pgxpool.Pool
}

func NewArchiver(pool *pgxpool.Pool) *Archiver {
	return &Archiver{pool: pool}
}

// ArchiveClosed writes the auction, its resolution and every accepted bid
// in one transaction. Re-archiving the same auction is a no-op update, so a
// replayed close cannot duplicate rows.
func (r *Archiver) ArchiveClosed(ctx context.Context, a domain.Auction, bids []*domain.Bid, res *domain.Resolution) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	auctionQuery := `
        INSERT INTO archived_auctions
            (id, loan_reference, auction_type, lot_size, min_bid, bid_increment, reserve_price,
             start_time, end_time, outcome, winning_bid_id, total_bids, created_by, created_at, closed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (id) DO UPDATE
        SET
            outcome = EXCLUDED.outcome,
            winning_bid_id = EXCLUDED.winning_bid_id,
            total_bids = EXCLUDED.total_bids,
            closed_at = EXCLUDED.closed_at;
    `
	_, err = tx.Exec(ctx, auctionQuery,
		a.ID,
		a.LoanReference,
		string(a.Type),
		a.LotSize,
		a.MinBid,
		a.BidIncrement,
		a.ReservePrice,
		a.StartTime,
		a.EndTime,
		string(res.Outcome),
		a.WinningBidID,
		res.TotalBids,
		a.CreatedBy,
		a.CreatedAt,
		res.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("archive: insert auction %s: %w", a.ID, err)
	}

	bidQuery := `
        INSERT INTO archived_bids (id, auction_id, bidder_id, bidder_name, amount, submitted_at, is_winning)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE
        SET is_winning = EXCLUDED.is_winning;
    `
	for _, b := range bids {
		_, err = tx.Exec(ctx, bidQuery,
			b.ID,
			b.AuctionID,
			b.BidderID,
			b.BidderName,
			b.Amount,
			b.SubmittedAt,
			b.IsWinning,
		)
		if err != nil {
			return fmt.Errorf("archive: insert bid %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	return nil
}
