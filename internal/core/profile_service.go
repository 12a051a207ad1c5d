package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// maxNicknameLength is the nickname limit in characters.
const maxNicknameLength = 30

// Validation sentinels for nickname updates.
var (
	ErrEmptyNickname   = fmt.Errorf("%w: nickname cannot be empty", ErrValidation)
	ErrNicknameTooLong = fmt.Errorf("%w: nickname exceeds %d characters", ErrValidation, maxNicknameLength)
)

// profileService implements the ProfileService interface.
type profileService struct {
	profiles db.ProfileRepository
	names    NameResolver
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService. The name resolver is
// updated on every successful nickname save so the new name is visible
// immediately, ahead of the cache TTL.
func NewProfileService(profiles db.ProfileRepository, names NameResolver, logger *zap.Logger) ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &profileService{profiles: profiles, names: names, logger: logger}
}

// Load returns the stored profile, synthesizing one from the identity's
// default name when no document exists yet.
func (s *profileService) Load(ctx context.Context, identity models.Identity) (*models.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &models.UserProfile{
				UID:          identity.UID,
				Email:        identity.Email,
				Nickname:     identity.DisplayName,
				OriginalName: identity.DisplayName,
			}, nil
		}
		return nil, fmt.Errorf("failed to load profile for '%s': %w", identity.UID, err)
	}
	if profile.Nickname == "" {
		profile.Nickname = identity.DisplayName
	}
	return profile, nil
}

// SaveNickname validates and persists the nickname, then overwrites the
// cached display name. Validation failures are rejected before any I/O.
func (s *profileService) SaveNickname(ctx context.Context, identity models.Identity, nickname string) (*models.UserProfile, error) {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return nil, ErrEmptyNickname
	}
	if utf8.RuneCountInString(trimmed) > maxNicknameLength {
		return nil, ErrNicknameTooLong
	}

	profile := &models.UserProfile{
		UID:          identity.UID,
		Email:        identity.Email,
		Nickname:     trimmed,
		OriginalName: identity.DisplayName,
	}
	if err := s.profiles.Save(ctx, identity.UID, profile); err != nil {
		return nil, fmt.Errorf("failed to save nickname for '%s': %w", identity.UID, err)
	}

	if s.names != nil {
		s.names.Set(identity.UID, trimmed)
	}
	return profile, nil
}
