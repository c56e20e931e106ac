/*
Package randx generates identifiers used by the relay: durable identity ids,
deterministic default display names, and unique message ids.
*/
package randx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// IdentityIDPrefix is the fixed prefix of every identity id.
	IdentityIDPrefix = "user-"

	// IdentityHashLength is the length of the hex hash portion of an identity id.
	IdentityHashLength = 8

	// DefaultVanityPrefix is the prefix used for generated display names.
	DefaultVanityPrefix = "User_"
)

// IdentityID derives a durable identity id from the connection's remote
// address and the current time, rendered as a short hex hash with the
// "user-" prefix. Collision-resistant enough for session continuity; it is
// not a security credential, any holder of the id may reclaim the identity.
func IdentityID(remoteAddr string) string {
	seed := fmt.Sprintf("%s|%d", remoteAddr, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))

	return IdentityIDPrefix + hex.EncodeToString(sum[:])[:IdentityHashLength]
}

// DefaultVanity derives a deterministic display name from an identity id.
func DefaultVanity(id string) string {
	suffix := strings.TrimPrefix(id, IdentityIDPrefix)
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}

	return DefaultVanityPrefix + suffix
}

// IsValidIdentityID reports whether the given string has the shape of an
// identity id issued by this server.
func IsValidIdentityID(id string) bool {
	if !strings.HasPrefix(id, IdentityIDPrefix) {
		return false
	}

	raw := id[len(IdentityIDPrefix):]
	if len(raw) != IdentityHashLength {
		return false
	}

	for _, char := range raw {
		if !strings.ContainsRune("0123456789abcdef", char) {
			return false
		}
	}

	return true
}

// MessageID generates a UUID v4 string used as the unique id of a relayed message.
func MessageID() string {
	return uuid.New().String()
}
