package models

// ShareLinkRequest represents the request body for sharing a link.
type ShareLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// SetReactionRequest represents the request body for toggling a reaction.
type SetReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// SaveNicknameRequest represents the request body for updating the display nickname.
type SaveNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

// FeedViewRequest carries the filter parameters for a derived feed view.
type FeedViewRequest struct {
	Kind      string `form:"kind"`      // "all" or one of the item kinds
	DateRange string `form:"dateRange"` // "1", "7", "30" or "all"
}
