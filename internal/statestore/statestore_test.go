package statestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

func TestResourceName(t *testing.T) {
	assert.Equal(t, "viewed-photos", ResourceName(Viewed, model.KindPhoto))
	assert.Equal(t, "liked-videos", ResourceName(Liked, model.KindVideo))
}

func TestSet(t *testing.T) {
	s := NewSet(9, 3, 3, 5)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
	assert.Equal(t, []int64{3, 5, 9}, s.Sorted())
}
