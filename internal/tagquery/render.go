package tagquery

import (
	"fmt"
	"strings"
)

// Dialect selects placeholder syntax for rendered SQL.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Binder accumulates bind arguments and hands out matching placeholders.
type Binder struct {
	dialect Dialect
	args    []any
}

func NewBinder(d Dialect) *Binder { return &Binder{dialect: d} }

// Bind records v and returns its placeholder.
func (b *Binder) Bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// List binds every value and returns a comma separated placeholder list.
func (b *Binder) List(values []string) string {
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = b.Bind(v)
	}
	return strings.Join(marks, ", ")
}

func (b *Binder) Args() []any { return b.args }

// CandidateColumns is the column order of every row produced by Render.
var CandidateColumns = []string{
	"photo_id", "file_path", "added_on", "tag", "score",
	"message_id", "channel_id", "sent_date", "message_text",
	"user_id", "username", "first_name", "last_name",
}

// Render turns a plan into one ranked query: qualifying photos, their best
// tag, their latest message, newest first, windowed by offset/limit.
// Tags are compared on photo_tags.tag_key, which holds Key(tag).
func Render(p Plan, d Dialect, offset, limit int) (string, []any) {
	b := NewBinder(d)
	var sb strings.Builder

	sb.WriteString("WITH qualifying AS (\n")
	sb.WriteString("  SELECT pt.photo_id\n  FROM photo_tags pt\n  GROUP BY pt.photo_id\n")
	var having []string
	if n := len(p.Include.Tags); n > 0 {
		having = append(having, fmt.Sprintf(
			"COUNT(DISTINCT CASE WHEN pt.tag_key IN (%s) THEN pt.tag_key END) = %s",
			b.List(p.Include.Tags), b.Bind(n)))
	}
	if len(p.Exclude.Tags) > 0 {
		having = append(having, fmt.Sprintf(
			"SUM(CASE WHEN pt.tag_key IN (%s) THEN 1 ELSE 0 END) = 0",
			b.List(p.Exclude.Tags)))
	}
	if len(having) > 0 {
		sb.WriteString("  HAVING " + strings.Join(having, "\n     AND ") + "\n")
	}
	sb.WriteString("),\n")

	order := "pt.score DESC, pt.tag ASC"
	if len(p.Include.Tags) > 0 {
		order = fmt.Sprintf("CASE WHEN pt.tag_key IN (%s) THEN 0 ELSE 1 END, %s", b.List(p.Include.Tags), order)
	}
	sb.WriteString("best AS (\n")
	sb.WriteString("  SELECT pt.photo_id, pt.tag, pt.score,\n")
	sb.WriteString("         ROW_NUMBER() OVER (PARTITION BY pt.photo_id ORDER BY " + order + ") AS rn\n")
	sb.WriteString("  FROM photo_tags pt\n  JOIN qualifying q ON q.photo_id = pt.photo_id\n),\n")

	sb.WriteString("latest AS (\n")
	sb.WriteString("  SELECT m.photo_id, m.message_id, m.channel_id, m.sent_date, m.message_text, m.user_id,\n")
	sb.WriteString("         ROW_NUMBER() OVER (PARTITION BY m.photo_id ORDER BY m.sent_date DESC, m.message_id DESC) AS rn\n")
	sb.WriteString("  FROM messages m\n  JOIN qualifying q ON q.photo_id = m.photo_id\n)\n")

	sb.WriteString("SELECT p.id, p.file_path, p.added_on, b.tag, b.score,\n")
	sb.WriteString("       l.message_id, l.channel_id, l.sent_date, l.message_text,\n")
	sb.WriteString("       l.user_id, u.username, u.first_name, u.last_name\n")
	sb.WriteString("FROM qualifying q\n")
	sb.WriteString("JOIN photos p ON p.id = q.photo_id\n")
	sb.WriteString("JOIN best b ON b.photo_id = q.photo_id AND b.rn = 1\n")
	sb.WriteString("LEFT JOIN latest l ON l.photo_id = q.photo_id AND l.rn = 1\n")
	sb.WriteString("LEFT JOIN users u ON u.id = l.user_id\n")
	sb.WriteString("ORDER BY p.added_on DESC, p.id DESC\n")
	sb.WriteString(fmt.Sprintf("LIMIT %s OFFSET %s", b.Bind(limit), b.Bind(offset)))

	return sb.String(), b.Args()
}
