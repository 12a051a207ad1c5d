package models

import "time"

// Kind classifies a shared item.
type Kind string

const (
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindLink     Kind = "link"
	KindOther    Kind = "other"
)

// Kinds lists every valid item kind.
var Kinds = []Kind{KindAudio, KindVideo, KindImage, KindDocument, KindLink, KindOther}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ShareItem is one shared artifact in the feed: an uploaded file or a link.
// CreatedAt is assigned server-side and is the sole feed sort key. It may be
// the zero value on a record the local client just created, before the store
// echoes back the authoritative timestamp.
type ShareItem struct {
	ID        string    `json:"id" firestore:"-"` // Document ID
	OwnerID   string    `json:"userId" firestore:"userId"`
	OwnerName string    `json:"userName" firestore:"userName"` // Display name snapshot at creation time
	CreatedAt time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Kind      Kind      `json:"type" firestore:"type"`

	// File payload (all kinds except link).
	FileName string `json:"fileName,omitempty" firestore:"fileName,omitempty"`
	FileURL  string `json:"fileUrl,omitempty" firestore:"fileUrl,omitempty"`
	FilePath string `json:"-" firestore:"filePath,omitempty"` // Storage object path, for cleanup on delete
	FileSize int64  `json:"fileSize,omitempty" firestore:"fileSize,omitempty"`

	// Link payload (kind == link).
	LinkURL         string `json:"linkUrl,omitempty" firestore:"linkUrl,omitempty"`
	LinkTitle       string `json:"linkTitle,omitempty" firestore:"linkTitle,omitempty"`
	LinkDescription string `json:"linkDescription,omitempty" firestore:"linkDescription,omitempty"`
	LinkImage       string `json:"linkImage,omitempty" firestore:"linkImage,omitempty"`
	LinkDomain      string `json:"linkDomain,omitempty" firestore:"linkDomain,omitempty"`
	LinkType        string `json:"linkType,omitempty" firestore:"linkType,omitempty"` // "link", "video", "music"

	// Reactions maps each emoji of the fixed alphabet to a non-negative
	// counter, mutated via atomic increments.
	Reactions map[string]int64 `json:"reactions" firestore:"reactions"`
}
