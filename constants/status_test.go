package constants

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to ProcessingStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusProcessing, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusFailed, StatusFailed, true},
		{ProcessingStatus("bogus"), StatusProcessing, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusNeverRegresses(t *testing.T) {
	statuses := []ProcessingStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}
	genStatus := gen.OneConstOf(statuses[0], statuses[1], statuses[2], statuses[3])

	properties := gopter.NewProperties(nil)

	properties.Property("allowed transitions never lower the rank", prop.ForAll(
		func(from, to ProcessingStatus) bool {
			if !CanTransition(from, to) {
				return true
			}
			return statusRank[to] >= statusRank[from]
		},
		genStatus, genStatus,
	))

	properties.Property("terminal states admit only self-transitions", prop.ForAll(
		func(from, to ProcessingStatus) bool {
			if from != StatusCompleted && from != StatusFailed {
				return true
			}
			return CanTransition(from, to) == (from == to)
		},
		genStatus, genStatus,
	))

	properties.Property("transition chains of any length stay monotonic", prop.ForAll(
		func(chain []ProcessingStatus) bool {
			current := StatusPending
			for _, next := range chain {
				if !CanTransition(current, next) {
					continue
				}
				if statusRank[next] < statusRank[current] {
					return false
				}
				current = next
			}
			return true
		},
		gen.SliceOf(genStatus),
	))

	properties.TestingRun(t)
}

func TestJobStageTerminal(t *testing.T) {
	assert.True(t, StageDone.Terminal())
	assert.True(t, StageFailed.Terminal())
	assert.False(t, StageQueued.Terminal())
	assert.False(t, StageFinalizing.Terminal())
}
