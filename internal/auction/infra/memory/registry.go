package memory

import (
	"sync"
	"sync/atomic"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// state is one immutable snapshot of an auction: the auction value, its
// accepted bids in acceptance order, and the resolution once closed.
// Writers build a fresh state and publish it with a single pointer swap, so
// readers never observe a torn write.
type state struct {
	auction    domain.Auction
	bids       []*domain.Bid
	resolution *domain.Resolution
}

type record struct {
	state atomic.Pointer[state]
}

// Snap is the read view handed out by the registry. Bids and Resolution
// are shared immutable data; callers must not mutate them.
type Snap struct {
	Auction    domain.Auction
	Bids       []*domain.Bid
	Resolution *domain.Resolution
}

// Registry is the single source of truth for auction and bid state. It is
// an explicit store object created at service start and passed by
// reference; there is no ambient process-wide table.
//
// Mutations (PlaceBid, Close) must run inside the caller's per-auction
// critical section. Acceptance order therefore equals lock-acquisition
// order, which may differ from network arrival order across concurrent
// senders; that is the documented guarantee, not a defect.
type Registry struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*record
	clock   clock.Clock
}

// NewRegistry builds an empty registry driven by the given clock.
func NewRegistry(clk clock.Clock) *Registry {
	return &Registry{
		records: make(map[uuid.UUID]*record),
		clock:   clk,
	}
}

// Create validates params and registers a new auction. Initial phase is
// Pending when the start time is in the future, Active otherwise.
func (r *Registry) Create(p domain.Params) (*domain.Auction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := r.clock.Now()
	a := domain.NewAuction(uuid.New(), p, now)

	rec := &record{}
	rec.state.Store(&state{auction: *a})

	r.mu.Lock()
	r.records[a.ID] = rec
	r.mu.Unlock()

	log.Info("auction created",
		zap.String("auctionID", a.ID.String()),
		zap.String("loanReference", a.LoanReference),
		zap.String("type", string(a.Type)),
		zap.String("phase", string(a.Phase)),
		zap.Time("endTime", a.EndTime),
	)
	return a, nil
}

func (r *Registry) record(id uuid.UUID) (*record, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return rec, nil
}

// Snapshot returns the current state with the phase refreshed against the
// clock. The refresh is derived on read; the stored phase only advances on
// the next write. A time-based flip to Closed blocks further bids but never
// resolves a winner, that happens only through Close.
func (r *Registry) Snapshot(id uuid.UUID) (Snap, error) {
	rec, err := r.record(id)
	if err != nil {
		return Snap{}, err
	}
	s := rec.state.Load()
	a := s.auction
	a.Phase = a.PhaseAt(r.clock.Now())
	return Snap{Auction: a, Bids: s.bids, Resolution: s.resolution}, nil
}

// ListBids returns the accepted bids in acceptance order. A fresh read each
// call, not a live stream.
func (r *Registry) ListBids(id uuid.UUID) ([]*domain.Bid, error) {
	snap, err := r.Snapshot(id)
	if err != nil {
		return nil, err
	}
	return snap.Bids, nil
}

// PlaceBid validates the candidate amount against the current snapshot and,
// on success, appends the accepted bid and publishes the new state. Must be
// called while holding the auction's lock; validate-then-accept is one
// atomic unit only under that serialization.
func (r *Registry) PlaceBid(id uuid.UUID, bidderID, bidderName string, amount decimal.Decimal) (*domain.Bid, error) {
	rec, err := r.record(id)
	if err != nil {
		return nil, err
	}
	s := rec.state.Load()
	now := r.clock.Now()

	a := s.auction
	a.Phase = a.PhaseAt(now)
	if rej := domain.ValidateBid(&a, s.bids, amount, now); rej != nil {
		log.Warn("bid rejected",
			zap.String("auctionID", id.String()),
			zap.String("bidderID", bidderID),
			zap.String("amount", amount.String()),
			zap.String("reason", string(rej.Reason)),
		)
		return nil, rej
	}

	bid := domain.NewBid(uuid.New(), id, bidderID, bidderName, amount, now)
	bids := make([]*domain.Bid, len(s.bids), len(s.bids)+1)
	copy(bids, s.bids)
	bids = append(bids, bid)

	rec.state.Store(&state{auction: a, bids: bids, resolution: s.resolution})

	log.Info("bid accepted",
		zap.String("auctionID", id.String()),
		zap.String("bidID", bid.ID.String()),
		zap.String("bidderID", bidderID),
		zap.String("amount", amount.String()),
		zap.Int("totalBids", len(bids)),
	)
	return bid, nil
}

// Close resolves the auction exactly once. The winning flag, the auction's
// winning-bid reference and the stored resolution are published in one
// snapshot swap, so no observable point has one without the others. Closing
// an already-closed auction returns the stored resolution unchanged with
// alreadyClosed=true. Must be called while holding the auction's lock.
func (r *Registry) Close(id uuid.UUID) (*domain.Resolution, bool, error) {
	rec, err := r.record(id)
	if err != nil {
		return nil, false, err
	}
	s := rec.state.Load()
	if s.resolution != nil {
		return s.resolution, true, nil
	}
	now := r.clock.Now()

	a := s.auction
	res := domain.Resolve(&a, s.bids, now)

	bids := s.bids
	if res.Outcome == domain.OutcomeWon {
		bids = make([]*domain.Bid, len(s.bids))
		copy(bids, s.bids)
		for i, b := range bids {
			if b.ID == *res.WinningBidID {
				won := *b
				won.IsWinning = true
				bids[i] = &won
				break
			}
		}
		a.WinningBidID = res.WinningBidID
	}
	if res.RevealedBids != nil {
		res.RevealedBids = bids
	}
	a.Phase = domain.PhaseClosed

	rec.state.Store(&state{auction: a, bids: bids, resolution: res})

	log.Info("auction closed",
		zap.String("auctionID", id.String()),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("totalBids", res.TotalBids),
	)
	return res, false, nil
}
