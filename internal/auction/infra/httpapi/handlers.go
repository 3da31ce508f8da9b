package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/application"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Notifier pushes a state update to the auction's live room. Nil disables
// the push; REST responses are unaffected either way.
type Notifier interface {
	BroadcastAuctionUpdate(ctx context.Context, auctionID uuid.UUID)
}

// Handler exposes the engine over REST. It owns no state; everything goes
// through the application service.
type Handler struct {
	service  application.Service
	notifier Notifier
}

func NewHandler(service application.Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

func (h *Handler) notify(ctx context.Context, auctionID uuid.UUID) {
	if h.notifier != nil {
		h.notifier.BroadcastAuctionUpdate(ctx, auctionID)
	}
}

// Register mounts the auction routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/auctions", h.createAuction)
	app.Get("/auctions/:id", h.getAuction)
	app.Post("/auctions/:id/bids", h.placeBid)
	app.Get("/auctions/:id/bids", h.listBids)
	app.Get("/auctions/:id/leaderboard", h.getLeaderboard)
	app.Post("/auctions/:id/close", h.closeAuction)
}

type createAuctionRequest struct {
	LoanReference string          `json:"loan_reference"`
	AuctionType   string          `json:"auction_type"`
	LotSize       decimal.Decimal `json:"lot_size"`
	MinBid        decimal.Decimal `json:"min_bid"`
	BidIncrement  decimal.Decimal `json:"bid_increment"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	DurationHours int             `json:"duration_hours"`
	CreatedBy     string          `json:"created_by"`
}

type placeBidRequest struct {
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

type closeAuctionRequest struct {
	ClosedBy string `json:"closed_by"`
}

type rejectionResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Minimum string `json:"minimum,omitempty"`
}

func (h *Handler) createAuction(c *fiber.Ctx) error {
	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.service.CreateAuction(c.Context(), application.CreateAuctionInput{
		LoanReference: req.LoanReference,
		Type:          req.AuctionType,
		LotSize:       req.LotSize,
		MinBid:        req.MinBid,
		BidIncrement:  req.BidIncrement,
		ReservePrice:  req.ReservePrice,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Duration:      time.Duration(req.DurationHours) * time.Hour,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *Handler) getAuction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	view, err := h.service.GetAuction(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) placeBid(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.service.PlaceBid(c.Context(), application.PlaceBidInput{
		AuctionID:  id,
		BidderID:   req.BidderID,
		BidderName: req.BidderName,
		Amount:     req.Amount,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	h.notify(c.Context(), id)
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *Handler) listBids(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	bids, err := h.service.ListBids(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(bids)
}

func (h *Handler) getLeaderboard(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	entries, err := h.service.GetLeaderboard(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(entries)
}

func (h *Handler) closeAuction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	var req closeAuctionRequest
	// Body is optional for close; an empty one closes anonymously.
	_ = c.BodyParser(&req)
	view, err := h.service.CloseAuction(c.Context(), id, req.ClosedBy)
	if err != nil {
		return h.mapError(c, err)
	}
	h.notify(c.Context(), id)
	return c.JSON(view)
}

// mapError translates engine errors to HTTP statuses: rejections are 422
// client errors carrying the violated threshold, lock timeouts are 503 and
// safe to retry, invalid parameters are 400, unknown auctions 404.
func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	if rej, ok := domain.AsRejection(err); ok {
		resp := rejectionResponse{
			Reason:  string(rej.Reason),
			Message: rej.Message,
		}
		if !rej.Minimum.IsZero() {
			resp.Minimum = rej.Minimum.StringFixed(2)
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "auction not found")
	case errors.Is(err, domain.ErrInvalidParameters):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		return fiber.NewError(fiber.StatusServiceUnavailable, "auction busy, retry the bid")
	default:
		log.Error("unhandled engine error", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
