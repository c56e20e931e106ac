/*
Package user defines the durable identity of a chat participant.

An Identity outlives any single connection: its id is issued once and never
changes, while the vanity (display name) may be updated by the client and is
retained across disconnects.
*/
package user

// Identity is the durable (id, vanity) pair representing a participant.
type Identity struct {
	// ID is the opaque, immutable identifier issued on first contact.
	ID string `json:"id"`

	// Vanity is the mutable display name chosen by the client.
	Vanity string `json:"vanity"`
}
