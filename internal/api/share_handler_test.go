package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/models"
)

// stubShareService returns canned results for handler tests.
type stubShareService struct {
	item        *models.ShareItem
	err         error
	gotFileName string
	gotSize     int64
	gotURL      string
	gotEmoji    string
	gotItemID   string
}

func (s *stubShareService) UploadFile(ctx context.Context, owner models.Identity, fileName string, size int64, r io.Reader) (*models.ShareItem, error) {
	s.gotFileName = fileName
	s.gotSize = size
	_, _ = io.Copy(io.Discard, r)
	return s.item, s.err
}

func (s *stubShareService) ShareLink(ctx context.Context, owner models.Identity, rawURL string) (*models.ShareItem, error) {
	s.gotURL = rawURL
	return s.item, s.err
}

func (s *stubShareService) SetReaction(ctx context.Context, itemID string, user models.Identity, emoji string) error {
	s.gotItemID = itemID
	s.gotEmoji = emoji
	return s.err
}

func (s *stubShareService) DeleteItem(ctx context.Context, itemID, requesterID string) error {
	s.gotItemID = itemID
	return s.err
}

func testIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", models.Identity{UID: "uid-1", Email: "user@example.com", DisplayName: "User"})
	}
}

func newShareRouter(svc core.ShareService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewShareHandler(svc, nil)
	authed := router.Group("", testIdentity())
	authed.POST("/uploads", handler.UploadFile)
	authed.POST("/links", handler.ShareLink)
	authed.DELETE("/uploads/:itemId", handler.DeleteItem)
	authed.PUT("/uploads/:itemId/reaction", handler.SetReaction)
	return router
}

func TestUploadFileEndpoint(t *testing.T) {
	svc := &stubShareService{item: &models.ShareItem{ID: "item-1", Kind: models.KindAudio, FileName: "track.mp3"}}
	router := newShareRouter(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "track.mp3")
	require.NoError(t, err)
	_, err = fw.Write([]byte("audio bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "track.mp3", svc.gotFileName)
	assert.Equal(t, int64(len("audio bytes")), svc.gotSize)

	var got models.ShareItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "item-1", got.ID)
}

func TestUploadFileEndpoint_MissingFile(t *testing.T) {
	router := newShareRouter(&stubShareService{})

	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareLinkEndpoint(t *testing.T) {
	svc := &stubShareService{item: &models.ShareItem{ID: "item-2", Kind: models.KindLink}}
	router := newShareRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/links", strings.NewReader(`{"url":"https://example.com/song"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://example.com/song", svc.gotURL)
}

func TestShareErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", core.ErrInvalidEmoji, http.StatusBadRequest},
		{"not found", core.ErrItemNotFound, http.StatusNotFound},
		{"forbidden", core.ErrForbiddenAccess, http.StatusForbidden},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newShareRouter(&stubShareService{err: tc.err})

			req := httptest.NewRequest(http.MethodPut, "/uploads/item-1/reaction", strings.NewReader(`{"emoji":"👍"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestDeleteItemEndpoint(t *testing.T) {
	svc := &stubShareService{}
	router := newShareRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/uploads/item-9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "item-9", svc.gotItemID)
}
