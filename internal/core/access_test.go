package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixtape-backend-go/internal/models"
)

var redeemer = models.Identity{UID: "uid-new", Email: "new@example.com", DisplayName: "New User"}

func TestAccessGate_AllowlistedIdentityPasses(t *testing.T) {
	t.Parallel()
	gate := NewAccessGate(newMemInviteRepo(), newMemAllowlistRepo("new@example.com"), &countingRevoker{}, nil)

	require.NoError(t, gate.Authorize(context.Background(), &redeemer, ""))
	assert.Equal(t, StateAllowed, gate.State())
}

func TestAccessGate_DenialRevokesSessions(t *testing.T) {
	t.Parallel()
	revoker := &countingRevoker{}
	gate := NewAccessGate(newMemInviteRepo(), newMemAllowlistRepo(), revoker, nil)

	err := gate.Authorize(context.Background(), &redeemer, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, StateDenied, gate.State())
	assert.Equal(t, []string{"uid-new"}, revoker.revoked)
}

func TestAccessGate_InviteRedemptionGrantsAccess(t *testing.T) {
	t.Parallel()
	invites := newMemInviteRepo()
	require.NoError(t, invites.Create(context.Background(), &models.InviteToken{
		Token:          "tok-1",
		CreatedBy:      "uid-issuer",
		CreatedByEmail: "issuer@example.com",
	}))
	allowlist := newMemAllowlistRepo()
	gate := NewAccessGate(invites, allowlist, &countingRevoker{}, nil)

	require.NoError(t, gate.Authorize(context.Background(), &redeemer, "tok-1"))
	assert.Equal(t, StateAllowed, gate.State())

	invite, err := invites.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, invite.Used)
	assert.Equal(t, "uid-new", invite.UsedBy)
	assert.Equal(t, "new@example.com", invite.UsedByEmail)
	require.NotNil(t, invite.UsedAt)

	entry := allowlist.get("new@example.com")
	require.NotNil(t, entry)
	assert.True(t, entry.Invited)
	assert.Equal(t, "issuer@example.com", entry.InvitedBy)
	assert.Equal(t, "tok-1", entry.InviteToken)
}

func TestAccessGate_UsedInviteGrantsNothing(t *testing.T) {
	t.Parallel()
	invites := newMemInviteRepo()
	require.NoError(t, invites.Create(context.Background(), &models.InviteToken{Token: "tok-1", Used: true, UsedBy: "uid-first"}))
	revoker := &countingRevoker{}
	gate := NewAccessGate(invites, newMemAllowlistRepo(), revoker, nil)

	err := gate.Authorize(context.Background(), &redeemer, "tok-1")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 1, revoker.count())

	// The redemption attempt left the original record untouched.
	invite, getErr := invites.Get(context.Background(), "tok-1")
	require.NoError(t, getErr)
	assert.Equal(t, "uid-first", invite.UsedBy)
}

func TestAccessGate_UnknownInviteGrantsNothing(t *testing.T) {
	t.Parallel()
	gate := NewAccessGate(newMemInviteRepo(), newMemAllowlistRepo(), &countingRevoker{}, nil)

	err := gate.Authorize(context.Background(), &redeemer, "no-such-token")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAccessGate_AllowlistFailureFailsClosed(t *testing.T) {
	t.Parallel()
	allowlist := newMemAllowlistRepo("new@example.com")
	allowlist.existsErr = errors.New("store unavailable")
	revoker := &countingRevoker{}
	gate := NewAccessGate(newMemInviteRepo(), allowlist, revoker, nil)

	err := gate.Authorize(context.Background(), &redeemer, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, StateDenied, gate.State())
	assert.Equal(t, 1, revoker.count())
}

func TestAccessGate_NilIdentity(t *testing.T) {
	t.Parallel()
	gate := NewAccessGate(newMemInviteRepo(), newMemAllowlistRepo(), &countingRevoker{}, nil)

	assert.Error(t, gate.Authorize(context.Background(), nil, ""))
	assert.Equal(t, StateUnauthenticated, gate.State())
}
