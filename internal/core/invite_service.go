package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// inviteService implements the InviteService interface.
type inviteService struct {
	invites    db.InviteRepository
	appBaseURL string
	logger     *zap.Logger
	now        func() time.Time
}

// NewInviteService creates a new InviteService. appBaseURL is the origin
// the shareable invite link points at.
func NewInviteService(invites db.InviteRepository, appBaseURL string, logger *zap.Logger) InviteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inviteService{
		invites:    invites,
		appBaseURL: appBaseURL,
		logger:     logger,
		now:        time.Now,
	}
}

// IssueInvite creates a single-use invite token and returns the record
// plus a shareable link embedding it. Tokens are valid until redeemed; no
// expiry is applied.
func (s *inviteService) IssueInvite(ctx context.Context, issuer models.Identity) (*models.InviteToken, string, error) {
	token, err := s.newToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	invite := &models.InviteToken{
		Token:          token,
		CreatedBy:      issuer.UID,
		CreatedByEmail: issuer.Email,
		CreatedByName:  issuer.DisplayName,
		Used:           false,
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, "", fmt.Errorf("failed to store invite: %w", err)
	}

	link := fmt.Sprintf("%s?invite=%s", s.appBaseURL, token)
	return invite, link, nil
}

// newToken produces an unguessable token: random bytes hex-encoded plus a
// base-36 millisecond timestamp suffix. Not cryptographically reviewed;
// sufficient against enumeration at this trust level.
func (s *inviteService) newToken() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b) + strconv.FormatInt(s.now().UnixMilli(), 36), nil
}
