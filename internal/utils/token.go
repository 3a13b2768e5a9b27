package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewShareToken returns a short random identifier for share links. The token
// is the only credential for the link, so it must come from a CSPRNG; it is
// not a signature over the link contents.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
