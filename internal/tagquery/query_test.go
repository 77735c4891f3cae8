package tagquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

func TestNewQuery_Normalization(t *testing.T) {
	q := NewQuery([]string{"Sunset", "sunset", " Beach "}, []string{"sunset"})
	assert.Equal(t, []string{"Sunset", "Beach"}, q.Include)
	assert.Equal(t, []string{}, q.Exclude)
}

func TestNormalize_DropsBlanks(t *testing.T) {
	assert.Equal(t, []string{"a", "B"}, Normalize([]string{"", "  ", "a", "A ", "B", "b"}))
	assert.Empty(t, Normalize(nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", " c"}, SplitList([]string{"a,b", " c"}))
}

func TestPlan_Matches(t *testing.T) {
	cases := []struct {
		name             string
		include, exclude []string
		tags             []string
		want             bool
	}{
		{"exclusion wins over include", []string{"A"}, []string{"B"}, []string{"A", "B"}, false},
		{"all includes required", []string{"A", "C"}, nil, []string{"A", "B"}, false},
		{"all includes present", []string{"a", "c"}, nil, []string{"A", "B", "C"}, true},
		{"empty include matches tagged photo", nil, []string{"x"}, []string{"y"}, true},
		{"untagged photo never matches", nil, nil, nil, false},
		{"case-insensitive exclude", nil, []string{"Beach"}, []string{"BEACH"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := NewQuery(c.include, c.exclude).Plan()
			assert.Equal(t, c.want, plan.Matches(c.tags))
		})
	}
}

func TestBestTag(t *testing.T) {
	tags := []model.PhotoTag{
		{Tag: "sky", Score: 0.99},
		{Tag: "beach", Score: 0.40},
		{Tag: "Sunset", Score: 0.40},
	}

	best, ok := BestTag(tags, []string{"sunset", "beach"})
	require.True(t, ok)
	assert.Equal(t, "Sunset", best.Tag, "included tags tie on score, lexical order breaks it")

	best, ok = BestTag(tags, nil)
	require.True(t, ok)
	assert.Equal(t, "sky", best.Tag)

	_, ok = BestTag(nil, nil)
	assert.False(t, ok)
}

func TestRender_PlaceholdersPerDialect(t *testing.T) {
	plan := NewQuery([]string{"Sunset", "Beach"}, []string{"night"}).Plan()

	sqlPG, argsPG := Render(plan, Postgres, 40, 21)
	assert.Contains(t, sqlPG, "$1")
	assert.NotContains(t, sqlPG, "?")
	assert.Equal(t, []any{"sunset", "beach", 2, "night", "sunset", "beach", 21, 40}, argsPG)
	assert.True(t, strings.HasSuffix(sqlPG, "LIMIT $7 OFFSET $8"))

	sqlLite, argsLite := Render(plan, SQLite, 40, 21)
	assert.NotContains(t, sqlLite, "$1")
	assert.Equal(t, len(argsLite), strings.Count(sqlLite, "?"))
}

func TestRender_EmptyPlanHasNoHaving(t *testing.T) {
	sql, args := Render(Plan{}, SQLite, 0, 5)
	assert.NotContains(t, sql, "HAVING")
	assert.Contains(t, sql, "ORDER BY p.added_on DESC, p.id DESC")
	assert.Equal(t, []any{5, 0}, args)
}

func TestKey_MatchesPlanFolding(t *testing.T) {
	assert.Equal(t, "été", Key(" Été "))
	assert.Equal(t, "straße", Key("STRAßE"))

	plan := NewQuery([]string{"ÉTÉ"}, []string{"Ğece"}).Plan()
	assert.Equal(t, []string{Key("été")}, plan.Include.Tags)
	assert.Equal(t, []string{Key("ğece")}, plan.Exclude.Tags)
	assert.True(t, plan.Matches([]string{"Été"}))
	assert.False(t, plan.Matches([]string{"été", "ĞECE"}))
}

func TestRender_ComparesStoredKeys(t *testing.T) {
	plan := NewQuery([]string{"Été"}, []string{"night"}).Plan()
	sql, args := Render(plan, SQLite, 0, 5)
	assert.NotContains(t, sql, "LOWER(")
	assert.Contains(t, sql, "pt.tag_key IN (?)")
	assert.Equal(t, "été", args[0])
}
