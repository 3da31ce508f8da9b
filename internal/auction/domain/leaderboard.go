package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLeaderboardSize matches the engine default of a top-10 view.
const DefaultLeaderboardSize = 10

// LeaderEntry is one row of the current-leader projection.
type LeaderEntry struct {
	Rank        int
	BidderName  string
	Amount      decimal.Decimal
	SubmittedAt time.Time
}

// Leaderboard projects accepted bids into a ranked top-N view: descending
// by amount, ties broken by earliest acceptance. It is recomputed on every
// call from the bid list; nothing is cached that could go stale against a
// concurrent acceptance.
func Leaderboard(bids []*Bid, n int) []LeaderEntry {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}
	sorted := make([]*Bid, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		switch sorted[i].Amount.Cmp(sorted[j].Amount) {
		case 1:
			return true
		case -1:
			return false
		}
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	entries := make([]LeaderEntry, len(sorted))
	for i, b := range sorted {
		entries[i] = LeaderEntry{
			Rank:        i + 1,
			BidderName:  b.BidderName,
			Amount:      b.Amount,
			SubmittedAt: b.SubmittedAt,
		}
	}
	return entries
}
