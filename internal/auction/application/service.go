package application

import (
	"context"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/google/uuid"
)

// Service is the engine's narrow external contract. The surrounding API
// layer (HTTP, WebSocket) talks only to this interface; no collaborator
// touches auction or bid state directly.
type Service interface {
	CreateAuction(ctx context.Context, in CreateAuctionInput) (*AuctionView, error)
	PlaceBid(ctx context.Context, in PlaceBidInput) (*BidView, error)
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]BidSummaryView, error)
	GetLeaderboard(ctx context.Context, auctionID uuid.UUID) ([]LeaderEntryView, error)
	CloseAuction(ctx context.Context, auctionID uuid.UUID, closedBy string) (*ResolutionView, error)
}

type service struct {
	createUC      *CreateAuctionUseCase
	placeBidUC    *PlaceBidUseCase
	getAuctionUC  *GetAuctionUseCase
	leaderboardUC *LeaderboardUseCase
	closeUC       *CloseAuctionUseCase
}

func NewService(
	createUC *CreateAuctionUseCase,
	placeBidUC *PlaceBidUseCase,
	getAuctionUC *GetAuctionUseCase,
	leaderboardUC *LeaderboardUseCase,
	closeUC *CloseAuctionUseCase,
) Service {
	return &service{
		createUC:      createUC,
		placeBidUC:    placeBidUC,
		getAuctionUC:  getAuctionUC,
		leaderboardUC: leaderboardUC,
		closeUC:       closeUC,
	}
}

func (s *service) CreateAuction(ctx context.Context, in CreateAuctionInput) (*AuctionView, error) {
	return s.createUC.Execute(ctx, in)
}

func (s *service) PlaceBid(ctx context.Context, in PlaceBidInput) (*BidView, error) {
	return s.placeBidUC.Execute(ctx, in)
}

func (s *service) GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error) {
	return s.getAuctionUC.Execute(ctx, auctionID)
}

func (s *service) ListBids(ctx context.Context, auctionID uuid.UUID) ([]BidSummaryView, error) {
	return s.getAuctionUC.ListBids(ctx, auctionID)
}

func (s *service) GetLeaderboard(ctx context.Context, auctionID uuid.UUID) ([]LeaderEntryView, error) {
	return s.leaderboardUC.Execute(ctx, auctionID)
}

func (s *service) CloseAuction(ctx context.Context, auctionID uuid.UUID, closedBy string) (*ResolutionView, error) {
	return s.closeUC.Execute(ctx, auctionID, closedBy)
}

func newEvent(eventType, entityType string, entityID uuid.UUID, userID, action string, details map[string]any, ts time.Time) audit.Event {
	return audit.Event{
		ID:         uuid.New(),
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Action:     action,
		Details:    details,
		Timestamp:  ts,
	}
}
