package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// GateState is the access gate's per-session state.
type GateState string

const (
	StateUnauthenticated GateState = "unauthenticated"
	StateChecking        GateState = "checking"
	StateAllowed         GateState = "allowed"
	StateDenied          GateState = "denied"
)

// AccessGate decides, per authenticated identity, whether the session may
// proceed: allowlist membership or redemption of a valid single-use
// invite. Denied identities have their sessions revoked so no
// authenticated session persists without authorization.
type AccessGate struct {
	invites   db.InviteRepository
	allowlist db.AllowlistRepository
	revoker   db.AuthRevoker
	logger    *zap.Logger

	mu    sync.Mutex
	state GateState
}

// NewAccessGate creates an access gate over the invite and allowlist
// repositories. revoker may be nil in tests.
func NewAccessGate(invites db.InviteRepository, allowlist db.AllowlistRepository, revoker db.AuthRevoker, logger *zap.Logger) *AccessGate {
	if invites == nil || allowlist == nil {
		panic("AccessGate requires non-nil invite and allowlist repositories")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessGate{
		invites:   invites,
		allowlist: allowlist,
		revoker:   revoker,
		logger:    logger,
		state:     StateUnauthenticated,
	}
}

// State returns the gate's current state.
func (g *AccessGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset transitions back to Unauthenticated on sign-out or a null session.
func (g *AccessGate) Reset() {
	g.setState(StateUnauthenticated)
}

func (g *AccessGate) setState(s GateState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// Authorize runs the gate for one authentication event. If inviteToken is
// non-empty it is redeemed first (idempotently: an already-used or unknown
// token has no effect and grants nothing by itself); then allowlist
// membership is checked. Any lookup failure is treated as denial (fail
// closed). On denial the identity's sessions are revoked and
// ErrAccessDenied is returned.
func (g *AccessGate) Authorize(ctx context.Context, identity *models.Identity, inviteToken string) error {
	if identity == nil {
		g.setState(StateUnauthenticated)
		return errors.New("no identity to authorize")
	}
	g.setState(StateChecking)

	redeemed := g.redeemInvite(ctx, *identity, inviteToken)

	allowed, err := g.allowlist.Exists(ctx, identity.Email)
	if err != nil {
		g.logger.Error("Allowlist check failed, denying access",
			zap.String("email", identity.Email), zap.Error(err))
		g.deny(ctx, identity.UID)
		return fmt.Errorf("%w: allowlist lookup failed: %v", ErrAccessDenied, err)
	}

	if allowed || redeemed {
		g.setState(StateAllowed)
		return nil
	}

	g.deny(ctx, identity.UID)
	return ErrAccessDenied
}

// redeemInvite processes a one-time invite token. It reports whether a
// fresh allowlist entry was produced. Errors are logged and treated as
// non-redemption; an already-used token is a no-op.
func (g *AccessGate) redeemInvite(ctx context.Context, redeemer models.Identity, token string) bool {
	if token == "" {
		return false
	}

	invite, err := g.invites.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			g.logger.Warn("Invite lookup failed during redemption",
				zap.String("token", token), zap.Error(err))
		}
		return false
	}
	if invite.Used {
		return false
	}

	if err := g.invites.MarkUsed(ctx, token, redeemer); err != nil {
		g.logger.Warn("Failed to mark invite used",
			zap.String("token", token), zap.Error(err))
		return false
	}

	entry := &models.AllowlistEntry{
		Email:       redeemer.Email,
		Invited:     true,
		InvitedBy:   invite.CreatedByEmail,
		InviteToken: token,
	}
	if err := g.allowlist.Put(ctx, entry); err != nil {
		g.logger.Error("Failed to create allowlist entry after invite redemption",
			zap.String("email", redeemer.Email), zap.Error(err))
		return false
	}
	return true
}

func (g *AccessGate) deny(ctx context.Context, userID string) {
	g.setState(StateDenied)
	if g.revoker == nil {
		return
	}
	if err := g.revoker.RevokeSessions(ctx, userID); err != nil {
		g.logger.Warn("Failed to revoke sessions for denied identity",
			zap.String("userID", userID), zap.Error(err))
	}
}
