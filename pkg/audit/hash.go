package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Hasher computes the integrity checksum of an event.
type Hasher interface {
	Hash(event Event) string
}

type sha256Hasher struct{}

// NewSHA256Hasher returns a Hasher over every field except ID and Checksum.
func NewSHA256Hasher() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Hash(event Event) string {
	var meta strings.Builder
	for _, k := range slices.Sorted(maps.Keys(event.Metadata)) {
		fmt.Fprintf(&meta, "%s=%v;", k, event.Metadata[k])
	}

	data := fmt.Sprintf(
		"%s|%s|%s|%s|%s|%s|%s|%s|%s",
		event.AssociationID,
		event.ActorID,
		event.Action,
		event.Resource,
		event.ResourceID,
		event.Result,
		event.Error,
		event.CreatedAt.UTC().Format(time.RFC3339Nano),
		meta.String(),
	)

	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the checksum of event with h.
func Verify(h Hasher, event Event) error {
	if h.Hash(event) != event.Checksum {
		return fmt.Errorf("%w: event %s", ErrChecksumMismatch, event.ID)
	}
	return nil
}
