package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/paging"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

type tags struct{ s *Store }

func (t *tags) Candidates(ctx context.Context, plan tagquery.Plan, offset, limit int) ([]model.TagCandidateRow, error) {
	q, args := tagquery.Render(plan, t.s.dialect, paging.NormalizeOffset(offset), paging.NormalizeLimit(limit))
	rows, err := t.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tag candidates: %w", err)
	}
	defer rows.Close()

	var out []model.TagCandidateRow
	for rows.Next() {
		var (
			r                                   model.TagCandidateRow
			path                                sql.NullString
			added, sent                         timeValue
			msgID, channelID, userID            sql.NullInt64
			text, username, firstName, lastName sql.NullString
		)
		if err := rows.Scan(
			&r.PhotoID, &path, &added, &r.Tag, &r.Score,
			&msgID, &channelID, &sent, &text,
			&userID, &username, &firstName, &lastName,
		); err != nil {
			return nil, fmt.Errorf("scan tag candidate: %w", err)
		}
		r.PhotoPath = path.String
		r.PhotoAddedOn = added.Time
		if msgID.Valid {
			r.Message = &model.MessageSnapshot{
				MessageID: msgID.Int64,
				ChannelID: nullInt(channelID),
				SentDate:  sent.ptr(),
				Text:      nullString(text),
				UserID:    nullInt(userID),
				Username:  nullString(username),
				FirstName: nullString(firstName),
				LastName:  nullString(lastName),
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag candidates: %w", err)
	}
	return out, nil
}

func (t *tags) ForPhoto(ctx context.Context, photoID int64, offset, limit int) ([]model.PhotoTag, error) {
	b := t.s.binder()
	q := fmt.Sprintf(`SELECT tag, score FROM photo_tags WHERE photo_id = %s ORDER BY score DESC, tag ASC LIMIT %s OFFSET %s`,
		b.Bind(photoID), b.Bind(paging.NormalizeLimit(limit)), b.Bind(paging.NormalizeOffset(offset)))
	rows, err := t.s.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query photo tags: %w", err)
	}
	defer rows.Close()

	var out []model.PhotoTag
	for rows.Next() {
		var pt model.PhotoTag
		if err := rows.Scan(&pt.Tag, &pt.Score); err != nil {
			return nil, fmt.Errorf("scan photo tag: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (t *tags) Summaries(ctx context.Context, offset, limit int) ([]model.TagSummary, error) {
	b := t.s.binder()
	q := fmt.Sprintf(`SELECT tag, COUNT(DISTINCT photo_id) AS photo_count
FROM photo_tags
GROUP BY tag
ORDER BY photo_count DESC, tag ASC
LIMIT %s OFFSET %s`, b.Bind(paging.NormalizeLimit(limit)), b.Bind(paging.NormalizeOffset(offset)))
	rows, err := t.s.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query tag summaries: %w", err)
	}
	defer rows.Close()

	var out []model.TagSummary
	for rows.Next() {
		var ts model.TagSummary
		if err := rows.Scan(&ts.Tag, &ts.PhotoCount); err != nil {
			return nil, fmt.Errorf("scan tag summary: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
