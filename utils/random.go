package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// IdentifierGenerator produces opaque unique image identifiers.
// Swappable in tests with a deterministic implementation.
type IdentifierGenerator func() string

// NewIdentifier returns a 32 character lowercase hex identifier.
func NewIdentifier() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
