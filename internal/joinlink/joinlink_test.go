package joinlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	link, err := Build("https://lecture-chat.example.com", "session-1700000000-abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://lecture-chat.example.com?session=session-1700000000-abc123", link)
}

func TestBuildKeepsExistingQuery(t *testing.T) {
	link, err := Build("https://example.com/chat?lang=ko", "s1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/chat?lang=ko&session=s1", link)
}

func TestBuildRejectsRelative(t *testing.T) {
	_, err := Build("not a url", "s1")
	assert.Error(t, err)
}

func TestSessionID(t *testing.T) {
	tests := []struct {
		name  string
		link  string
		want  string
		found bool
	}{
		{"full link", "https://example.com?session=s1", "s1", true},
		{"raw query", "session=s2", "s2", true},
		{"leading question mark", "?session=s3", "s3", true},
		{"repeated param", "https://example.com?session=&session=s4&session=s5", "s4", true},
		{"missing", "https://example.com?other=1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SessionID(tt.link)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildThenParse(t *testing.T) {
	link, err := Build("http://localhost:8501", "session-1-ffffff")
	require.NoError(t, err)
	id, ok := SessionID(link)
	assert.True(t, ok)
	assert.Equal(t, "session-1-ffffff", id)
}
