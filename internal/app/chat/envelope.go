/*
Package chat contains the core logic of the messaging relay: session
registration, message routing, typing presence, and broadcasting.

This file defines the wire protocol: the Envelope read from clients and the
Frame written back to them. A single type field selects handling on both
directions.
*/
package chat

import (
	"relaychat/internal/app/user"
)

// EnvelopeType selects how an envelope or frame is handled.
type EnvelopeType string

// Client-to-server envelope types.
const (
	// TypeReconnect re-binds a previously issued identity to this connection.
	TypeReconnect EnvelopeType = "reconnect"

	// TypeSetVanity claims a display name; on a fresh connection it also
	// triggers identity creation.
	TypeSetVanity EnvelopeType = "setVanity"

	// TypeTyping and TypeStoppedTyping carry typing-presence signals.
	TypeTyping        EnvelopeType = "typing"
	TypeStoppedTyping EnvelopeType = "stoppedTyping"

	// TypeDM is a direct message to a single recipient identity.
	TypeDM EnvelopeType = "dm"

	// TypeChat is a public broadcast message.
	TypeChat EnvelopeType = "chat"

	// TypeAIQuery requests a reply from the completion service.
	TypeAIQuery EnvelopeType = "aiQuery"
)

// Server-to-client frame types. Chat, DM, and typing frames are echoed with
// the same type strings as their inbound counterparts.
const (
	// TypeUserID confirms the identity bound to the receiving connection.
	TypeUserID EnvelopeType = "userId"

	// TypeUserList is the full presence snapshot.
	TypeUserList EnvelopeType = "userList"

	// TypeError is a private error notice.
	TypeError EnvelopeType = "error"
)

// PublicTarget is the typing target denoting "typing in the public room".
const PublicTarget = "public"

// AssistantIdentity is the fixed synthetic identity that completion service
// replies are attributed to.
var AssistantIdentity = user.Identity{ID: "ai-assistant", Vanity: "AI"}

// Envelope is a message received from a client. Which fields are meaningful
// depends on Type; unknown fields are ignored.
type Envelope struct {
	Type EnvelopeType `json:"type"`

	// ID is the prior identity id presented with a reconnect.
	ID string `json:"id,omitempty"`

	// Vanity is the display name presented with reconnect or setVanity.
	Vanity string `json:"vanity,omitempty"`

	// Recipient is the target identity id for dm and directed typing signals.
	Recipient string `json:"recipient,omitempty"`

	// Content is the user-authored text of chat, dm, and aiQuery envelopes.
	Content string `json:"content,omitempty"`
}

// Frame is a message sent to a client. The server is the source of truth for
// Sender and SenderVanity; any sender fields the client supplied are
// discarded before relaying.
type Frame struct {
	Type EnvelopeType `json:"type"`

	// MsgID uniquely identifies a relayed chat or dm message.
	MsgID string `json:"msgId,omitempty"`

	// ID and Vanity are set on userId confirmation frames.
	ID     string `json:"id,omitempty"`
	Vanity string `json:"vanity,omitempty"`

	// Users is the presence snapshot carried by userList frames.
	Users []user.Identity `json:"users,omitempty"`

	// Sender and SenderVanity identify the originating identity.
	Sender       string `json:"sender,omitempty"`
	SenderVanity string `json:"senderVanity,omitempty"`

	// Recipient is echoed on dm and directed typing frames.
	Recipient string `json:"recipient,omitempty"`

	// Content is the (sanitized) message text, or an error notice.
	Content string `json:"content,omitempty"`

	// Code carries the business error code on error frames.
	Code int `json:"code,omitempty"`

	// Timestamp is the server receive time in unix milliseconds.
	Timestamp int64 `json:"timestamp,omitempty"`
}
