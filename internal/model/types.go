package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the media category. Each kind has its own interaction state.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindPhoto, KindVideo}

// Slug is the plural form used in routes and persisted resource names.
func (k Kind) Slug() string {
	switch k {
	case KindPhoto:
		return "photos"
	case KindVideo:
		return "videos"
	}
	return string(k)
}

func (k Kind) Valid() bool { return k == KindPhoto || k == KindVideo }

// ParseKind accepts either the singular or the plural spelling.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "photo", "photos":
		return KindPhoto, nil
	case "video", "videos":
		return KindVideo, nil
	}
	return "", NewValidationError("kind", fmt.Sprintf("unknown media kind %q", s))
}

// MediaItem is a photo or video row owned by the data source.
type MediaItem struct {
	ID       int64     `json:"id"`
	Kind     Kind      `json:"kind"`
	FilePath string    `json:"filePath"`
	AddedOn  time.Time `json:"addedOn"`
}

// DisplayItem is a media item resolved to a servable URL.
type DisplayItem struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	SourceURL string    `json:"sourceUrl"`
	AddedOn   time.Time `json:"addedOn"`
	Liked     bool      `json:"liked"`
}

// TagAssociation links a photo to a tag with a classifier score.
type TagAssociation struct {
	PhotoID int64   `json:"photoId"`
	Tag     string  `json:"tag"`
	Score   float64 `json:"score"`
}

// PhotoTag is a tag as surfaced on a photo.
type PhotoTag struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// MessageSnapshot is the most recent message that shared a photo.
type MessageSnapshot struct {
	MessageID int64      `json:"messageId"`
	ChannelID *int64     `json:"channelId,omitempty"`
	SentDate  *time.Time `json:"sentDate,omitempty"`
	Text      *string    `json:"text,omitempty"`
	UserID    *int64     `json:"userId,omitempty"`
	Username  *string    `json:"username,omitempty"`
	FirstName *string    `json:"firstName,omitempty"`
	LastName  *string    `json:"lastName,omitempty"`
}

// DisplayName picks the friendliest available author label.
func (m *MessageSnapshot) DisplayName() string {
	if m == nil {
		return "Unknown"
	}
	if m.Username != nil && strings.TrimSpace(*m.Username) != "" {
		return "@" + strings.TrimSpace(*m.Username)
	}
	var parts []string
	for _, p := range []*string{m.FirstName, m.LastName} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if m.UserID != nil {
		return fmt.Sprintf("User %d", *m.UserID)
	}
	return "Unknown"
}

// TagCandidateRow is one qualifying photo returned by a tag query.
type TagCandidateRow struct {
	PhotoID      int64
	PhotoPath    string
	PhotoAddedOn time.Time
	Tag          string
	Score        float64
	Message      *MessageSnapshot
}

// TaggedPhoto is a qualifying photo ready for presentation.
type TaggedPhoto struct {
	PhotoID     int64            `json:"photoId"`
	Path        string           `json:"path"`
	AddedOn     time.Time        `json:"addedOn"`
	BestTag     PhotoTag         `json:"bestTag"`
	Tags        []PhotoTag       `json:"tags"`
	Message     *MessageSnapshot `json:"message,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
}

// TagSummary counts photos per tag.
type TagSummary struct {
	Tag        string `json:"tag"`
	PhotoCount int    `json:"photoCount"`
}

// Page is one trimmed page of results.
type Page[T any] struct {
	Items       []T  `json:"items"`
	PageNumber  int  `json:"pageNumber"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}
