/*
Package chat contains the core logic of the messaging relay.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle and its read/write pumps;
all message semantics live in the Hub.
*/
package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"relaychat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound envelope.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size for message content.
	MaxContentBytes = 5000

	// sendChannelBuffer is the per-client outbound queue capacity.
	sendChannelBuffer = 256
)

// Client represents one live WebSocket connection. A connection is bound to
// at most one identity; the binding lives in the Hub's Registry, not here.
type Client struct {
	// the hub this connection is attached to.
	hub *Hub

	// underlying WebSocket connection.
	conn *websocket.Conn

	// remoteAddr is captured at construction; identity ids derive from it.
	remoteAddr string

	// send queues outbound frames for the write pump.
	send chan []byte

	// closed marks the send queue as closed. Owned by the hub goroutine;
	// enqueueing to a closed client is a silent no-op.
	closed bool

	// closeReason, when set before the send queue closes, is carried in the
	// close frame the write pump emits. Owned by the hub goroutine; the write
	// pump reads it only after observing the queue close.
	closeReason string

	logger zerolog.Logger
}

// NewClient constructs a Client around an upgraded WebSocket connection.
func NewClient(hub *Hub, wsConn *websocket.Conn) *Client {
	remoteAddr := wsConn.RemoteAddr().String()

	return &Client{
		hub:        hub,
		conn:       wsConn,
		remoteAddr: remoteAddr,
		send:       make(chan []byte, sendChannelBuffer),
		logger: logx.Logger().With().
			Str("component", "Client").
			Str("remote_addr", remoteAddr).
			Logger(),
	}
}

// ReadPump reads envelopes from the WebSocket connection and hands them to
// the hub. It handles heartbeats (Pong) and performs cleanup when the
// connection closes. Envelopes from one connection reach the hub in arrival
// order.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		select {
		case c.hub.inbound <- inboundMessage{client: c, data: messageBytes}:
		case <-c.hub.stopChan:
			return
		}
	}
}

// cleanupOnDisconnect detaches the client from the hub and closes the socket.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	select {
	case c.hub.unregister <- c:
	case <-c.hub.stopChan:
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive. It exits when the send queue is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				closeMessage := []byte{}
				if c.closeReason != "" {
					closeMessage = websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.closeReason)
				}
				if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// queue places raw bytes on the outbound queue, dropping the frame when the
// queue is full so one slow client never blocks the hub.
func (c *Client) queue(messageBytes []byte) bool {
	select {
	case c.send <- messageBytes:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
		return false
	}
}

// Kick records the close reason to carry in the connection's close frame.
// Used when a newer connection takes over this connection's identity. The
// frame itself is written by the write pump once the send queue closes, so
// there is never more than one writer on the socket.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Str("reason", reason).
		Msg("Closing connection: session taken over.")

	c.closeReason = reason
}
