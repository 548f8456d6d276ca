package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchIDIsSortable(t *testing.T) {
	a := NewBatchID()
	b := NewBatchID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestBatchTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := BatchTime(NewBatchID())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = BatchTime("not-a-ulid")
	assert.Error(t, err)
}
