package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/models"
)

// FeedHandler handles API endpoints for the shared-item feed.
type FeedHandler struct {
	feed   *core.FeedSynchronizer
	names  core.NameResolver
	logger *zap.Logger
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed *core.FeedSynchronizer, names core.NameResolver, logger *zap.Logger) *FeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedHandler{feed: feed, names: names, logger: logger}
}

// GetFeed handles GET /feed. The first call performs the initial bounded
// fetch and establishes the tail subscription; later calls return the
// current materialized view.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	err := h.feed.LoadInitialPage(c.Request.Context())
	if err != nil && !errors.Is(err, core.ErrInitialLoadDone) {
		h.logger.Error("Initial feed load failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to load the feed"})
		return
	}

	c.JSON(http.StatusOK, h.feedResponse(c, h.feed.Items()))
}

// LoadMore handles POST /feed/next: forward-only pagination.
func (h *FeedHandler) LoadMore(c *gin.Context) {
	if err := h.feed.LoadNextPage(c.Request.Context()); err != nil {
		h.logger.Error("Feed page load failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to load more items"})
		return
	}

	c.JSON(http.StatusOK, h.feedResponse(c, h.feed.Items()))
}

// GetFilteredView handles GET /feed/view: a derived, filtered view of the
// already-materialized feed. No store read is performed.
func (h *FeedHandler) GetFilteredView(c *gin.Context) {
	var req models.FeedViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid filter parameters", Details: err.Error()})
		return
	}
	if req.Kind != "" && req.Kind != "all" && !models.Kind(req.Kind).Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown item kind", Details: req.Kind})
		return
	}

	filter := core.Filter{Kind: req.Kind, DateRange: req.DateRange}
	c.JSON(http.StatusOK, h.feedResponse(c, h.feed.Filtered(filter)))
}

// feedResponse attaches resolved display names to the items, using each
// item's creation-time name snapshot as the fallback.
func (h *FeedHandler) feedResponse(c *gin.Context, items []*models.ShareItem) FeedResponse {
	ids := make([]string, 0, len(items))
	fallbacks := make(map[string]string, len(items))
	for _, item := range items {
		ids = append(ids, item.OwnerID)
		if _, ok := fallbacks[item.OwnerID]; !ok {
			fallbacks[item.OwnerID] = item.OwnerName
		}
	}
	names := h.names.ResolveMany(c.Request.Context(), ids, fallbacks)

	out := make([]FeedItemResponse, 0, len(items))
	for _, item := range items {
		name := names[item.OwnerID]
		if name == "" {
			name = item.OwnerName
		}
		out = append(out, FeedItemResponse{ShareItem: item, OwnerDisplayName: name})
	}
	return FeedResponse{
		Items:      out,
		HasMore:    !h.feed.Exhausted(),
		TailActive: h.feed.TailActive(),
	}
}
