package models

import "time"

// ReactionEmojis is the fixed emoji alphabet items can be reacted with.
var ReactionEmojis = []string{"👍", "🔥", "❤️", "🎵", "💩"}

// AllowedEmoji reports whether e belongs to the reaction alphabet.
func AllowedEmoji(e string) bool {
	for _, known := range ReactionEmojis {
		if e == known {
			return true
		}
	}
	return false
}

// ZeroReactions returns a counter map with every emoji set to zero, the
// shape new items are created with.
func ZeroReactions() map[string]int64 {
	m := make(map[string]int64, len(ReactionEmojis))
	for _, e := range ReactionEmojis {
		m[e] = 0
	}
	return m
}

// Reaction is the per-identity reaction record stored under
// uploads/{itemId}/reactions/{userId}. At most one active emoji per
// (item, identity) pair.
type Reaction struct {
	Emoji     string    `json:"emoji" firestore:"emoji"`
	UserName  string    `json:"userName" firestore:"userName"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
