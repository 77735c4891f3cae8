package sqlstore

import (
	"context"
	"fmt"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

func (s *Store) PutMedia(ctx context.Context, item model.MediaItem) error {
	tbl, err := table(item.Kind)
	if err != nil {
		return err
	}
	b := s.binder()
	q := fmt.Sprintf(`INSERT INTO %s (id, file_path, added_on) VALUES (%s, %s, %s)
ON CONFLICT (id) DO UPDATE SET file_path = excluded.file_path, added_on = excluded.added_on`,
		tbl, b.Bind(item.ID), b.Bind(item.FilePath), b.Bind(item.AddedOn.UTC()))
	if _, err := s.db.ExecContext(ctx, q, b.Args()...); err != nil {
		return fmt.Errorf("put %s %d: %w", tbl, item.ID, err)
	}
	return nil
}

func (s *Store) PutTag(ctx context.Context, a model.TagAssociation) error {
	b := s.binder()
	q := fmt.Sprintf(`INSERT INTO photo_tags (photo_id, tag, tag_key, score) VALUES (%s, %s, %s, %s)
ON CONFLICT (photo_id, tag) DO UPDATE SET tag_key = excluded.tag_key, score = excluded.score`,
		b.Bind(a.PhotoID), b.Bind(a.Tag), b.Bind(tagquery.Key(a.Tag)), b.Bind(a.Score))
	if _, err := s.db.ExecContext(ctx, q, b.Args()...); err != nil {
		return fmt.Errorf("put tag %q on photo %d: %w", a.Tag, a.PhotoID, err)
	}
	return nil
}

func (s *Store) PutUser(ctx context.Context, u store.UserRecord) error {
	b := s.binder()
	q := fmt.Sprintf(`INSERT INTO users (id, username, first_name, last_name) VALUES (%s, %s, %s, %s)
ON CONFLICT (id) DO UPDATE SET username = excluded.username, first_name = excluded.first_name, last_name = excluded.last_name`,
		b.Bind(u.ID), b.Bind(u.Username), b.Bind(u.FirstName), b.Bind(u.LastName))
	if _, err := s.db.ExecContext(ctx, q, b.Args()...); err != nil {
		return fmt.Errorf("put user %d: %w", u.ID, err)
	}
	return nil
}

func (s *Store) PutMessage(ctx context.Context, m store.MessageRecord) error {
	b := s.binder()
	q := fmt.Sprintf(`INSERT INTO messages (channel_id, message_id, user_id, sent_date, message_text, photo_id, video_id)
VALUES (%s, %s, %s, %s, %s, %s, %s)
ON CONFLICT (channel_id, message_id) DO UPDATE SET
  user_id = excluded.user_id, sent_date = excluded.sent_date, message_text = excluded.message_text,
  photo_id = excluded.photo_id, video_id = excluded.video_id`,
		b.Bind(m.ChannelID), b.Bind(m.MessageID), b.Bind(m.UserID), b.Bind(m.SentDate.UTC()),
		b.Bind(m.Text), b.Bind(m.PhotoID), b.Bind(m.VideoID))
	if _, err := s.db.ExecContext(ctx, q, b.Args()...); err != nil {
		return fmt.Errorf("put message %d/%d: %w", m.ChannelID, m.MessageID, err)
	}
	return nil
}
