/*
Package chat contains the core logic of the messaging relay.

This file defines the Registry, which owns the bidirectional association
between live connections and durable identities. Both directions are
maintained together so takeover and direct delivery are O(1) lookups rather
than scans over all connections. Vanities are retained after disconnect so a
reconnecting identity gets its display name back.

The Registry has no internal locking: the Hub goroutine is its single owner
and performs every mutation from the event loop.
*/
package chat

import (
	"sort"

	"github.com/rs/zerolog"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/logx"
)

// Registry owns the Connection ⇄ Identity association.
type Registry struct {
	// byConn maps each live connection to its bound identity id.
	byConn map[*Client]string

	// byID maps each identity id to its current live connection.
	// An identity has at most one live connection at a time.
	byID map[string]*Client

	// vanities retains the display name of every identity ever bound,
	// surviving disconnects. Identities are never deleted.
	vanities map[string]string

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn:   make(map[*Client]string),
		byID:     make(map[string]*Client),
		vanities: make(map[string]string),
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Bind associates the connection with the identity and records its vanity.
// Any prior binding of either the connection or the identity is cleared
// first, preserving the one-connection-per-identity invariant.
func (reg *Registry) Bind(c *Client, id, vanity string) {
	if prevID, ok := reg.byConn[c]; ok && prevID != id {
		delete(reg.byID, prevID)
	}

	if prevConn, ok := reg.byID[id]; ok && prevConn != c {
		delete(reg.byConn, prevConn)
	}

	reg.byConn[c] = id
	reg.byID[id] = c
	reg.vanities[id] = vanity

	reg.logger.Info().
		Str("identity_id", id).
		Str("vanity", vanity).
		Msg("Identity bound to connection.")
}

// IdentityOf returns the identity currently bound to the connection.
func (reg *Registry) IdentityOf(c *Client) (user.Identity, bool) {
	id, ok := reg.byConn[c]
	if !ok {
		return user.Identity{}, false
	}

	return user.Identity{ID: id, Vanity: reg.vanities[id]}, true
}

// ClientFor returns the live connection bound to the identity id, or nil.
func (reg *Registry) ClientFor(id string) *Client {
	return reg.byID[id]
}

// RetainedVanity returns the last known vanity for the identity id, which may
// outlive any connection. Empty when the id has never been seen.
func (reg *Registry) RetainedVanity(id string) string {
	return reg.vanities[id]
}

// Release clears the connection→identity binding if the identity still maps
// to exactly this connection, returning the released identity. The vanity is
// retained for reconnection. A connection whose identity was taken over by a
// newer connection releases nothing.
func (reg *Registry) Release(c *Client) (user.Identity, bool) {
	id, ok := reg.byConn[c]
	if !ok {
		return user.Identity{}, false
	}

	delete(reg.byConn, c)

	if reg.byID[id] != c {
		return user.Identity{}, false
	}

	delete(reg.byID, id)

	reg.logger.Info().
		Str("identity_id", id).
		Msg("Identity released; vanity retained.")

	return user.Identity{ID: id, Vanity: reg.vanities[id]}, true
}

// Snapshot returns one (id, vanity) entry per identity with a live
// connection, sorted by id for stable output.
func (reg *Registry) Snapshot() []user.Identity {
	snapshot := make([]user.Identity, 0, len(reg.byID))

	for id := range reg.byID {
		snapshot = append(snapshot, user.Identity{ID: id, Vanity: reg.vanities[id]})
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].ID < snapshot[j].ID
	})

	return snapshot
}
