package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	Track("a")()
	Track("a")()
	Track("b")()

	assert.Equal(t, 2, Calls("a"))
	assert.Equal(t, 1, Calls("b"))
	assert.Len(t, Snapshot(), 2)

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Zero(t, Calls("a"))
}

func TestTopNOrdersBySlowest(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["fast"] = 1 * time.Millisecond
	frameTotals["slow"] = 4200 * time.Microsecond
	frameTotals["mid"] = 2 * time.Millisecond
	mu.Unlock()

	assert.Equal(t, "slow:4.2ms, mid:2ms", TopN(2))
	assert.Equal(t, "slow:4.2ms, mid:2ms, fast:1ms", TopN(10))
	ResetFrame()
}
