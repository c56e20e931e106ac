/*
Package chat contains the core logic of the messaging relay.

This file defines the Hub, the single-owner event loop at the center of the
relay. All registry, typing, and quota state is mutated exclusively on the
Hub goroutine: connection I/O runs on per-client pumps, and the only
long-running work — the completion service call — runs in its own goroutine
and posts its result back into the loop. One envelope is processed to
completion at a time.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"relaychat/internal/app/ai"
	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/randx"
	"relaychat/internal/pkg/sanitize"
)

const (
	// inboundChannelBuffer absorbs bursts across connections; per-connection
	// ordering is preserved because each read pump sends sequentially.
	inboundChannelBuffer = 1024

	// aiResultChannelBuffer queues completion results awaiting the loop.
	aiResultChannelBuffer = 16

	// takeoverReason is the close reason sent to a superseded connection.
	takeoverReason = "superseded"
)

// inboundMessage pairs a raw envelope with the connection it arrived on.
type inboundMessage struct {
	client *Client
	data   []byte
}

// aiResult carries the outcome of a completion call back into the hub loop.
type aiResult struct {
	client   *Client
	identity user.Identity
	query    string
	reply    string
	err      error
}

// Hub routes every envelope: identity resolution, then dispatch to typing
// presence, broadcast/DM delivery, or the AI gateway.
type Hub struct {
	// registry owns the Connection ⇄ Identity association.
	registry *Registry

	// typing tracks per-identity typing targets.
	typing *TypingTracker

	// gateway applies the AI query quota and talks to the completion service.
	gateway *ai.Gateway

	// clients holds every attached connection, bound or not. Broadcasts
	// reach all of them.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
	aiResults  chan aiResult

	// stopChan signals the loop (and in-flight AI goroutines) to stop.
	stopChan chan struct{}

	// wg waits for the run loop during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub around the given AI gateway.
func NewHub(gateway *ai.Gateway) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		typing:     NewTypingTracker(),
		gateway:    gateway,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundMessage, inboundChannelBuffer),
		aiResults:  make(chan aiResult, aiResultChannelBuffer),
		stopChan:   make(chan struct{}),
		logger:     logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Start launches the hub event loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Shutdown stops the event loop and waits for it to finish. All client send
// queues are closed so write pumps drain and exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub loop...")

	close(h.stopChan)
	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}

// Attach hands a freshly upgraded connection to the hub.
func (h *Hub) Attach(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopChan:
		c.conn.Close()
	}
}

// run is the hub event loop. Everything below this point executes on the hub
// goroutine only.
func (h *Hub) run() {
	defer func() {
		for c := range h.clients {
			h.closeClient(c)
		}
		h.wg.Done()
	}()

	h.logger.Info().Msg("Hub loop started.")

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info().
				Str("remote_addr", c.remoteAddr).
				Int("total_connections", len(h.clients)).
				Msg("Connection attached.")

		case c := <-h.unregister:
			h.handleUnregister(c)

		case msg := <-h.inbound:
			h.handleInbound(msg)

		case res := <-h.aiResults:
			h.handleAIResult(res)

		case <-h.stopChan:
			h.logger.Info().Msg("Hub loop stopping.")
			return
		}
	}
}

// closeClient marks the client closed and shuts its send queue. Safe to call
// more than once; only ever called from the hub goroutine.
func (h *Hub) closeClient(c *Client) {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// handleUnregister detaches a connection. If its identity still mapped to it,
// the binding is released (vanity retained), the typing entry dropped, and a
// presence broadcast emitted.
func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	h.closeClient(c)

	identity, released := h.registry.Release(c)
	if released {
		h.typing.Drop(identity.ID)

		h.logger.Info().
			Str("identity_id", identity.ID).
			Int("total_connections", len(h.clients)).
			Msg("Connection detached; identity offline.")

		h.broadcastUserList()
		return
	}

	h.logger.Info().
		Int("total_connections", len(h.clients)).
		Msg("Connection detached.")
}

// handleInbound parses one envelope, resolves the sender identity, and
// dispatches. A malformed envelope yields a private error frame and nothing
// else; it never terminates the connection.
func (h *Hub) handleInbound(msg inboundMessage) {
	if _, ok := h.clients[msg.client]; !ok {
		// connection already detached (e.g. superseded) before this
		// envelope was processed
		return
	}

	var env Envelope
	if err := json.Unmarshal(msg.data, &env); err != nil {
		h.logger.Warn().Err(err).
			Str("remote_addr", msg.client.remoteAddr).
			Msg("Client sent malformed envelope")

		h.sendError(msg.client, errs.NewError(errs.ErrMalformedEnvelope))
		return
	}

	identity := h.resolveIdentity(msg.client, &env)

	switch env.Type {
	case TypeReconnect, TypeSetVanity:
		// fully handled by identity resolution

	case TypeTyping, TypeStoppedTyping:
		h.handleTyping(msg.client, identity, &env)

	case TypeChat:
		h.handleChat(msg.client, identity, &env)

	case TypeDM:
		h.handleDM(msg.client, identity, &env)

	case TypeAIQuery:
		h.handleAIQuery(msg.client, identity, &env)

	default:
		h.logger.Warn().
			Str("envelope_type", string(env.Type)).
			Msg("Client sent unsupported envelope type")

		h.sendError(msg.client, errs.NewError(errs.ErrUnsupportedEnvelopeType))
	}
}

// resolveIdentity determines the identity to use for this connection for the
// duration of envelope processing, mutating registry state as needed.
//
// Precedence per processing cycle: an explicit reconnect takes over its prior
// identity; setVanity on an unbound connection mints a fresh identity with
// the requested vanity; any still-unbound connection gets a fresh identity
// with a generated vanity; otherwise the existing binding is reused.
func (h *Hub) resolveIdentity(c *Client, env *Envelope) user.Identity {
	if env.Type == TypeReconnect && env.ID != "" {
		return h.takeOver(c, env)
	}

	if env.Type == TypeSetVanity {
		if _, bound := h.registry.IdentityOf(c); !bound {
			id := randx.IdentityID(c.remoteAddr)

			vanity := sanitize.Vanity(env.Vanity)
			if vanity == "" {
				vanity = randx.DefaultVanity(id)
			}

			return h.bindAndAnnounce(c, id, vanity)
		}
	}

	if identity, bound := h.registry.IdentityOf(c); bound {
		return identity
	}

	id := randx.IdentityID(c.remoteAddr)

	return h.bindAndAnnounce(c, id, randx.DefaultVanity(id))
}

// takeOver binds a previously issued identity id to this connection,
// force-closing any other connection currently holding it. Possession of the
// id is the only credential; presenting it claims the identity.
func (h *Hub) takeOver(c *Client, env *Envelope) user.Identity {
	if old := h.registry.ClientFor(env.ID); old != nil && old != c {
		h.logger.Warn().
			Str("identity_id", env.ID).
			Str("old_remote_addr", old.remoteAddr).
			Str("new_remote_addr", c.remoteAddr).
			Msg("Identity reclaimed by new connection. Closing old connection.")

		old.Kick(takeoverReason)
		delete(h.clients, old)
		h.closeClient(old)
	}

	vanity := sanitize.Vanity(env.Vanity)
	if vanity == "" {
		vanity = h.registry.RetainedVanity(env.ID)
	}
	if vanity == "" {
		vanity = randx.DefaultVanity(env.ID)
	}

	return h.bindAndAnnounce(c, env.ID, vanity)
}

// bindAndAnnounce records the binding, confirms the id to the connection, and
// broadcasts the refreshed presence snapshot to everyone.
func (h *Hub) bindAndAnnounce(c *Client, id, vanity string) user.Identity {
	h.registry.Bind(c, id, vanity)

	h.deliver(c, Frame{Type: TypeUserID, ID: id, Vanity: vanity})
	h.broadcastUserList()

	return user.Identity{ID: id, Vanity: vanity}
}

// handleTyping updates the typing set and routes the signal: public targets
// broadcast to everyone but the sender, directed targets go only to the
// recipient's live connection (offline recipient is a no-op).
func (h *Hub) handleTyping(c *Client, identity user.Identity, env *Envelope) {
	target := env.Recipient
	if target == "" {
		target = PublicTarget
	}

	if env.Type == TypeTyping {
		h.typing.Start(identity.ID, target)
	} else {
		h.typing.Stop(identity.ID, target)
	}

	frame := Frame{
		Type:         env.Type,
		Sender:       identity.ID,
		SenderVanity: identity.Vanity,
	}

	if target == PublicTarget {
		h.broadcast(frame, c)
		return
	}

	frame.Recipient = target
	h.deliver(h.registry.ClientFor(target), frame)
}

// handleChat sanitizes and broadcasts a public message to every connection
// except the sender's. The resolved identity is stamped on the frame; any
// sender fields the client supplied never reach other clients.
func (h *Hub) handleChat(c *Client, identity user.Identity, env *Envelope) {
	if len(env.Content) > MaxContentBytes {
		h.sendError(c, errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	h.broadcast(Frame{
		Type:         TypeChat,
		MsgID:        randx.MessageID(),
		Sender:       identity.ID,
		SenderVanity: identity.Vanity,
		Content:      sanitize.Text(env.Content),
		Timestamp:    time.Now().UnixMilli(),
	}, c)
}

// handleDM sanitizes and delivers a direct message to the recipient's current
// connection. An offline recipient drops the message silently; the sender is
// not told. Best-effort by design.
func (h *Hub) handleDM(c *Client, identity user.Identity, env *Envelope) {
	if len(env.Content) > MaxContentBytes {
		h.sendError(c, errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	recipient := h.registry.ClientFor(env.Recipient)
	if recipient == nil {
		h.logger.Debug().
			Str("recipient_id", env.Recipient).
			Msg("DM dropped: recipient has no live connection.")
		return
	}

	h.deliver(recipient, Frame{
		Type:         TypeDM,
		MsgID:        randx.MessageID(),
		Sender:       identity.ID,
		SenderVanity: identity.Vanity,
		Recipient:    env.Recipient,
		Content:      sanitize.Text(env.Content),
		Timestamp:    time.Now().UnixMilli(),
	})
}

// handleAIQuery charges the quota and, when accepted, launches the completion
// call without blocking the loop. The result re-enters the loop through the
// aiResults channel; other connections' envelopes are processed while the
// call is in flight.
func (h *Hub) handleAIQuery(c *Client, identity user.Identity, env *Envelope) {
	if len(env.Content) > MaxContentBytes {
		h.sendError(c, errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	if !h.gateway.Consume(identity.ID) {
		notice := errs.NewError(errs.ErrAIQuotaExceeded, h.gateway.Limit())
		h.deliver(c, Frame{
			Type:         TypeChat,
			MsgID:        randx.MessageID(),
			Sender:       AssistantIdentity.ID,
			SenderVanity: AssistantIdentity.Vanity,
			Content:      notice.Message,
			Timestamp:    time.Now().UnixMilli(),
		})
		return
	}

	query := env.Content

	go func() {
		reply, err := h.gateway.Complete(context.Background(), query)

		select {
		case h.aiResults <- aiResult{client: c, identity: identity, query: query, reply: reply, err: err}:
		case <-h.stopChan:
		}
	}()
}

// handleAIResult finishes an AI query once the completion call resolves. On
// success the sender's question and the assistant's reply are broadcast to
// everyone, in that order, regardless of whether the requester is still
// connected. On failure only the requester is notified; the quota slot stays
// consumed.
func (h *Hub) handleAIResult(res aiResult) {
	if res.err != nil {
		h.logger.Error().Err(res.err).
			Str("identity_id", res.identity.ID).
			Msg("Completion service call failed.")

		h.sendError(res.client, errs.NewError(errs.ErrAIServiceFailure))
		return
	}

	now := time.Now().UnixMilli()

	h.broadcast(Frame{
		Type:         TypeChat,
		MsgID:        randx.MessageID(),
		Sender:       res.identity.ID,
		SenderVanity: res.identity.Vanity,
		Content:      sanitize.Text("@ai " + res.query),
		Timestamp:    now,
	}, nil)

	h.broadcast(Frame{
		Type:         TypeChat,
		MsgID:        randx.MessageID(),
		Sender:       AssistantIdentity.ID,
		SenderVanity: AssistantIdentity.Vanity,
		Content:      sanitize.Text(res.reply),
		Timestamp:    now,
	}, nil)
}

// broadcastUserList sends the full presence snapshot to every connection,
// including the one that triggered the change.
func (h *Hub) broadcastUserList() {
	h.broadcast(Frame{
		Type:  TypeUserList,
		Users: h.registry.Snapshot(),
	}, nil)
}

// broadcast delivers the frame to every attached connection except exclude.
// A failed or full queue on one peer never prevents delivery to the rest.
func (h *Hub) broadcast(frame Frame, exclude *Client) {
	messageBytes, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).
			Str("frame_type", string(frame.Type)).
			Msg("Error marshaling frame for broadcast.")
		return
	}

	for c := range h.clients {
		if c == exclude || c.closed {
			continue
		}
		c.queue(messageBytes)
	}
}

// deliver sends one frame to one connection. A nil or already-closed
// connection is a no-op, which is what makes disconnects during in-flight AI
// calls harmless.
func (h *Hub) deliver(c *Client, frame Frame) {
	if c == nil || c.closed {
		return
	}

	messageBytes, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).
			Str("frame_type", string(frame.Type)).
			Msg("Error marshaling frame for delivery.")
		return
	}

	c.queue(messageBytes)
}

// sendError delivers a private error frame to the connection.
func (h *Hub) sendError(c *Client, customErr *errs.CustomError) {
	h.deliver(c, Frame{
		Type:    TypeError,
		Code:    customErr.Code,
		Content: customErr.Message,
	})
}
