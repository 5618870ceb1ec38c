package idgen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	id := New("msg")
	assert.Regexp(t, regexp.MustCompile(`^msg-\d+-[0-9a-f]{6}$`), id)
}

func TestNewAtUsesTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	id := NewAt("session", ts)
	assert.Regexp(t, `^session-1700000000-[0-9a-f]{6}$`, id)
}

func TestNewDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := New("sys")
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
