package store

import (
	"context"
	"time"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// Store exposes the read-only media catalog consumed by the feeds and the tag resolver.
// Implementations live under internal/store/ (sqlstore, driven by postgres or sqlite).
type Store interface {
	Media() Media
	Tags() Tags
}

type Media interface {
	// RandomBatch returns up to n items in source-chosen random order.
	RandomBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error)
	// LatestBatch returns up to n items ordered by added desc, id desc.
	LatestBatch(ctx context.Context, kind model.Kind, n int) ([]model.MediaItem, error)
	// ByIDs ignores duplicate and non-positive ids; output is added desc, id desc.
	ByIDs(ctx context.Context, kind model.Kind, ids []int64) ([]model.MediaItem, error)
	List(ctx context.Context, kind model.Kind, offset, limit int) ([]model.MediaItem, error)
}

type Tags interface {
	Candidates(ctx context.Context, plan tagquery.Plan, offset, limit int) ([]model.TagCandidateRow, error)
	// ForPhoto returns a photo's tags ordered by score desc, tag asc.
	ForPhoto(ctx context.Context, photoID int64, offset, limit int) ([]model.PhotoTag, error)
	// Summaries counts photos per tag, most used first.
	Summaries(ctx context.Context, offset, limit int) ([]model.TagSummary, error)
}

// UserRecord is a message author.
type UserRecord struct {
	ID        int64
	Username  *string
	FirstName *string
	LastName  *string
}

// MessageRecord is a channel message that may share a photo or video.
type MessageRecord struct {
	ChannelID int64
	MessageID int64
	UserID    *int64
	SentDate  time.Time
	Text      *string
	PhotoID   *int64
	VideoID   *int64
}

// Loader writes catalog rows. The catalog is normally filled by an external
// ingester; Loader serves local seeding and tests.
type Loader interface {
	PutMedia(ctx context.Context, item model.MediaItem) error
	PutTag(ctx context.Context, a model.TagAssociation) error
	PutUser(ctx context.Context, u UserRecord) error
	PutMessage(ctx context.Context, m MessageRecord) error
}
