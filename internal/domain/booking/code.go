package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const codePrefix = "BK"

// NewBookingCode combines the creation time in milliseconds with 32 random
// bits. Uniqueness is still enforced by the ledger's index.
func NewBookingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return codePrefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
