package websocket

import (
	"context"

	shared "github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Register mounts the websocket upgrade route. Each connection joins the
// room of the auction named in the path and stays until either side closes.
func (h *AuctionWSHandler) Register(ctx context.Context, app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/auctions/:id", fiberws.New(func(conn *fiberws.Conn) {
		auctionID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			_ = conn.Close()
			return
		}
		client := &shared.Client{
			Hub:       h.hub,
			Conn:      conn,
			Send:      make(chan []byte, 32),
			AuctionID: auctionID.String(),
			ID:        uuid.NewString(),
		}
		h.hub.RegisterClient(client)
		go client.WritePump(ctx)
		// ReadPump blocks until the connection drops, keeping the fiber
		// handler alive for the lifetime of the socket.
		client.ReadPump(ctx)
	}))
}
