package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idPrefix namespaces generated record identifiers.
const idPrefix = "gen"

// NewRequestID builds a request identifier of the form
// {prefix}-request-{unixMilli}-{random}. The random suffix is the first
// eight hex characters of a UUID, enough to disambiguate requests
// created in the same millisecond.
func NewRequestID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-request-%d-%s", idPrefix, now.UnixMilli(), random)
}
