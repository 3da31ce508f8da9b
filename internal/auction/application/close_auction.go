package application

import (
	"context"
	"fmt"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/lock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archiver hands a resolved auction off to external storage for reporting.
// Best effort: failures are logged, never surfaced to the close caller.
type Archiver interface {
	ArchiveClosed(ctx context.Context, a domain.Auction, bids []*domain.Bid, res *domain.Resolution) error
}

// NopArchiver discards the hand-off. Used when no archive store is wired.
type NopArchiver struct{}

func (NopArchiver) ArchiveClosed(context.Context, domain.Auction, []*domain.Bid, *domain.Resolution) error {
	return nil
}

// CloseAuctionUseCase resolves the winner inside the same serialized scope
// that accepts bids, so a late bid can never race the close. Idempotent:
// closing a closed auction replays the stored resolution.
type CloseAuctionUseCase struct {
	registry *memory.Registry
	locks    *lock.KeyedMutex
	sink     audit.Sink
	archiver Archiver
	clock    clock.Clock
}

func NewCloseAuctionUseCase(registry *memory.Registry, locks *lock.KeyedMutex, sink audit.Sink, archiver Archiver, clk clock.Clock) *CloseAuctionUseCase {
	if archiver == nil {
		archiver = NopArchiver{}
	}
	return &CloseAuctionUseCase{registry: registry, locks: locks, sink: sink, archiver: archiver, clock: clk}
}

func (uc *CloseAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID, closedBy string) (*ResolutionView, error) {
	var (
		res           *domain.Resolution
		alreadyClosed bool
	)
	err := uc.locks.WithLock(ctx, auctionID, func() error {
		var err error
		res, alreadyClosed, err = uc.registry.Close(auctionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("close auction %s: %w", auctionID, err)
	}

	if !alreadyClosed {
		uc.sink.Record(ctx, newEvent(audit.EventAuctionClosed, "auction", auctionID, closedBy, "close", map[string]any{
			"outcome":    string(res.Outcome),
			"total_bids": res.TotalBids,
		}, uc.clock.Now()))
		uc.handOffArchive(auctionID)
	}

	return newResolutionView(res, alreadyClosed), nil
}

// handOffArchive snapshots the closed auction outside the lock and writes
// it to the archive store in the background.
func (uc *CloseAuctionUseCase) handOffArchive(auctionID uuid.UUID) {
	snap, err := uc.registry.Snapshot(auctionID)
	if err != nil {
		log.Error("archive hand-off: snapshot failed",
			zap.String("auctionID", auctionID.String()),
			zap.Error(err),
		)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.archiver.ArchiveClosed(ctx, snap.Auction, snap.Bids, snap.Resolution); err != nil {
			log.Error("archive hand-off failed",
				zap.String("auctionID", auctionID.String()),
				zap.Error(err),
			)
		}
	}()
}
