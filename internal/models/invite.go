package models

import "time"

// InviteToken is a single-use invitation. The token string itself is the
// document ID under the invites collection. Used transitions to true exactly
// once; UsedBy/UsedAt are set with that transition. Tokens do not expire.
type InviteToken struct {
	Token          string     `json:"token" firestore:"-"` // Document ID
	CreatedBy      string     `json:"createdBy" firestore:"createdBy"`
	CreatedByEmail string     `json:"createdByEmail" firestore:"createdByEmail"`
	CreatedByName  string     `json:"createdByName,omitempty" firestore:"createdByName,omitempty"`
	CreatedAt      time.Time  `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Used           bool       `json:"used" firestore:"used"`
	UsedBy         string     `json:"usedBy,omitempty" firestore:"usedBy,omitempty"`
	UsedByEmail    string     `json:"usedByEmail,omitempty" firestore:"usedByEmail,omitempty"`
	UsedByName     string     `json:"usedByName,omitempty" firestore:"usedByName,omitempty"`
	UsedAt         *time.Time `json:"usedAt,omitempty" firestore:"usedAt,omitempty"`
}

// AllowlistEntry marks a contact address as permitted to use the system,
// keyed by the identity's email under the allowlist collection. Created by
// invite redemption or provisioned out-of-band.
type AllowlistEntry struct {
	Email       string    `json:"email" firestore:"-"` // Document ID
	Invited     bool      `json:"invited" firestore:"invited"`
	InvitedBy   string    `json:"invitedBy,omitempty" firestore:"invitedBy,omitempty"` // Issuer's contact address
	InviteToken string    `json:"inviteToken,omitempty" firestore:"inviteToken,omitempty"`
	Timestamp   time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
