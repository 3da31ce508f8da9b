package websocket

import (
	"context"
	"encoding/json"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/application"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler routes inbound auction-room messages to the engine and
// broadcasts state updates back to the room.
type AuctionWSHandler struct {
	service application.Service
	hub     *websocket.Hub
}

func NewAuctionWSHandler(service application.Service, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{service: service, hub: hub}
}

// ListenForMessages consumes the hub's inbound channel until ctx ends.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("auction ws handler listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("auction ws handler stopped")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch base.Type {
	case MessageTypeClientBid:
		h.handleClientBid(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBid(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format")
		return
	}
	if bidMsg.Payload.AuctionID.String() != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	_, err := h.service.PlaceBid(ctx, application.PlaceBidInput{
		AuctionID:  bidMsg.Payload.AuctionID,
		BidderID:   bidMsg.Payload.BidderID,
		BidderName: bidMsg.Payload.BidderName,
		Amount:     bidMsg.Payload.Amount,
	})
	if err != nil {
		if rej, ok := domain.AsRejection(err); ok {
			h.sendRejectionToClient(client, bidMsg.Payload.AuctionID, rej)
			return
		}
		h.sendErrorToClient(client, err.Error())
		return
	}

	h.BroadcastAuctionUpdate(ctx, bidMsg.Payload.AuctionID)
}

// BroadcastAuctionUpdate pushes the current auction state to the room. The
// view layer already withholds sealed-bid amounts while Active, so the
// update leaks nothing the REST surface would not.
func (h *AuctionWSHandler) BroadcastAuctionUpdate(ctx context.Context, auctionID uuid.UUID) {
	view, err := h.service.GetAuction(ctx, auctionID)
	if err != nil {
		log.Error("ws broadcast: failed to load auction state",
			zap.String("auctionID", auctionID.String()),
			zap.Error(err),
		)
		return
	}

	msg := ServerUpdateMessage{BaseMessage: BaseMessage{Type: MessageTypeServerUpdate}}
	msg.Payload.AuctionID = view.ID
	msg.Payload.Phase = view.Phase
	msg.Payload.BidCount = view.BidCount
	msg.Payload.EndTime = view.EndTime
	if view.CurrentLeader != nil {
		amount := view.CurrentLeader.Amount
		msg.Payload.LeaderName = view.CurrentLeader.BidderName
		msg.Payload.LeaderAmount = &amount
	}
	if view.Winner != nil {
		amount := view.Winner.Amount
		msg.Payload.WinnerName = view.Winner.BidderName
		msg.Payload.WinnerAmount = &amount
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("ws broadcast: failed to marshal update", zap.Error(err))
		return
	}
	h.hub.BroadcastToAuction(auctionID.String(), data)
}

func (h *AuctionWSHandler) sendRejectionToClient(client *websocket.Client, auctionID uuid.UUID, rej *domain.Rejection) {
	msg := ServerBidRejectedMessage{BaseMessage: BaseMessage{Type: MessageTypeServerBidRejected}}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Reason = string(rej.Reason)
	msg.Payload.Message = rej.Message
	if !rej.Minimum.IsZero() {
		msg.Payload.Minimum = rej.Minimum.StringFixed(2)
	}
	h.sendToClient(client, msg)
}

func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	msg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	msg.Payload.Error = errorMessage
	h.sendToClient(client, msg)
}

func (h *AuctionWSHandler) sendToClient(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full or closed, dropping message",
			zap.String("clientID", client.ID),
		)
	}
}
