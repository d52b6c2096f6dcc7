package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardEdges(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusReceived))
	assert.True(t, CanTransition(StatusReceived, StatusPreparing))
	assert.True(t, CanTransition(StatusPreparing, StatusDelivered))
	assert.True(t, CanTransition(StatusDelivered, StatusCompleted))
}

func TestCanTransition_CancelFromAnyPreTerminal(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusReceived, StatusPreparing, StatusDelivered} {
		assert.True(t, CanTransition(from, StatusCancelled), "from %s", from)
	}
}

func TestCanTransition_NeverBackward(t *testing.T) {
	assert.False(t, CanTransition(StatusReceived, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusPreparing))
}

func TestCanTransition_TerminalAbsorbs(t *testing.T) {
	all := []Status{StatusPending, StatusReceived, StatusPreparing, StatusDelivered, StatusCompleted, StatusCancelled}
	for _, to := range all {
		assert.False(t, CanTransition(StatusCompleted, to), "completed -> %s", to)
		assert.False(t, CanTransition(StatusCancelled, to), "cancelled -> %s", to)
	}
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusPreparing))
	assert.False(t, CanTransition(StatusReceived, StatusCompleted))
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusDelivered.Terminal())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPreparing.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestValidPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusPending}, ValidPredecessors(StatusReceived))
	assert.ElementsMatch(t, []Status{StatusDelivered}, ValidPredecessors(StatusCompleted))
	assert.ElementsMatch(t,
		[]Status{StatusPending, StatusReceived, StatusPreparing, StatusDelivered},
		ValidPredecessors(StatusCancelled))
	assert.Empty(t, ValidPredecessors(StatusPending))
}

func TestStatusTable_CoversAllStatuses(t *testing.T) {
	for s := range validNext {
		info, ok := StatusTable[s]
		assert.True(t, ok, "missing presentation for %s", s)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Tag)
	}
}
