package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFeedCall(t *testing.T) {
	served := testutil.ToFloat64(FeedServed.WithLabelValues("photos"))
	exhausted := testutil.ToFloat64(FeedExhausted.WithLabelValues("photos"))

	RecordFeedCall("photos", 1, true)
	RecordFeedCall("photos", 5, false)

	assert.Equal(t, served+1, testutil.ToFloat64(FeedServed.WithLabelValues("photos")))
	assert.Equal(t, exhausted+1, testutil.ToFloat64(FeedExhausted.WithLabelValues("photos")))
}

func TestRecordStateOp(t *testing.T) {
	before := testutil.ToFloat64(StateOperations.WithLabelValues("videos", "add_liked", "error"))
	RecordStateOp("videos", "add_liked", errors.New("disk full"))
	RecordStateOp("videos", "add_liked", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(StateOperations.WithLabelValues("videos", "add_liked", "error")))
}

func TestRecordTagQuery(t *testing.T) {
	before := testutil.ToFloat64(TagQueryErrors)
	RecordTagQuery(2, 1, 3*time.Millisecond, nil)
	RecordTagQuery(1, 0, time.Millisecond, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(TagQueryErrors))
}
