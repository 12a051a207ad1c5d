package api

import "mixtape-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FeedItemResponse is one feed entry with the uploader's display name
// resolved through the name cache (the stored snapshot is the fallback).
type FeedItemResponse struct {
	*models.ShareItem
	OwnerDisplayName string `json:"ownerDisplayName"`
}

// FeedResponse is a page of the materialized feed.
type FeedResponse struct {
	Items      []FeedItemResponse `json:"items"`
	HasMore    bool               `json:"hasMore"`
	TailActive bool               `json:"tailActive"`
}

// InviteResponse carries a freshly issued invite.
type InviteResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}
