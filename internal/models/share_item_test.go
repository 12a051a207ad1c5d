package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindValid(t *testing.T) {
	t.Parallel()
	for _, kind := range Kinds {
		assert.True(t, kind.Valid(), string(kind))
	}
	assert.False(t, Kind("playlist").Valid())
	assert.False(t, Kind("").Valid())
}

func TestAllowedEmoji(t *testing.T) {
	t.Parallel()
	for _, emoji := range ReactionEmojis {
		assert.True(t, AllowedEmoji(emoji), emoji)
	}
	assert.False(t, AllowedEmoji("🤡"))
	assert.False(t, AllowedEmoji(""))
	assert.False(t, AllowedEmoji("👍🔥"))
}

func TestZeroReactions(t *testing.T) {
	t.Parallel()
	counters := ZeroReactions()
	assert.Len(t, counters, len(ReactionEmojis))
	for _, emoji := range ReactionEmojis {
		count, ok := counters[emoji]
		assert.True(t, ok, emoji)
		assert.Zero(t, count)
	}
}
