package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random identifier.
func NewID() string {
	return uuid.NewString()
}

// PlaceholderName returns a display name for accounts registered without one.
func PlaceholderName() string {
	return "member-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
