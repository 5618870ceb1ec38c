// Package idgen generates timestamped identifiers for sessions and messages.
package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 6

// New returns "<prefix>-<unixSeconds>-<hex>". Collisions are unlikely but not impossible.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

// NewAt is New with an explicit timestamp.
func NewAt(prefix string, t time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", prefix, t.Unix(), hex[:suffixLen])
}
