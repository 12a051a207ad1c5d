package models

import "time"

// UserProfile holds a user's optional display nickname, keyed by the
// Firebase Auth UID. The nickname overrides the identity's default name
// wherever that user is rendered.
type UserProfile struct {
	UID          string    `json:"uid" firestore:"uid"`
	Email        string    `json:"email" firestore:"email"`
	Nickname     string    `json:"nickname" firestore:"nickname"`
	OriginalName string    `json:"originalName,omitempty" firestore:"originalName,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Identity is the authenticated principal as reported by Firebase Auth.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}
