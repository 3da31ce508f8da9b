package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageType tags every websocket frame.
type MessageType string

const (
	MessageTypeClientBid          MessageType = "client_bid"
	MessageTypeServerUpdate       MessageType = "auction_update"
	MessageTypeServerBidRejected  MessageType = "bid_rejected"
	MessageTypeServerError        MessageType = "server_error"
	MessageTypeServerInitialState MessageType = "initial_state"
)

// BaseMessage carries the type discriminator shared by all frames.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is a bid submitted over the socket.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID  uuid.UUID       `json:"auction_id"`
		BidderID   string          `json:"bidder_id"`
		BidderName string          `json:"bidder_name"`
		Amount     decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

// ServerUpdateMessage broadcasts the auction state after an accepted bid or
// a close. For sealed-bid auctions still Active, CurrentLeader and amounts
// are absent; the room only learns the bid count moved.
type ServerUpdateMessage struct {
	BaseMessage
	Payload struct {
		AuctionID     uuid.UUID        `json:"auction_id"`
		Phase         string           `json:"phase"`
		BidCount      int              `json:"bid_count"`
		EndTime       time.Time        `json:"end_time"`
		LeaderName    string           `json:"leader_name,omitempty"`
		LeaderAmount  *decimal.Decimal `json:"leader_amount,omitempty"`
		WinnerName    string           `json:"winner_name,omitempty"`
		WinnerAmount  *decimal.Decimal `json:"winner_amount,omitempty"`
	} `json:"payload"`
}

// ServerBidRejectedMessage is sent only to the bidder whose bid failed.
type ServerBidRejectedMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID `json:"auction_id"`
		Reason    string    `json:"reason"`
		Message   string    `json:"message"`
		Minimum   string    `json:"minimum,omitempty"`
	} `json:"payload"`
}

// ServerErrorMessage reports a malformed or unroutable frame.
type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
