package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusInProgress, StatusCompleted, StatusCancelled, StatusDeleted} {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusActive, StatusInProgress, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusDeleted, true},
		{StatusActive, StatusCompleted, false},
		{StatusActive, StatusActive, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusActive, false},
		{StatusInProgress, StatusDeleted, false},

		{StatusCancelled, StatusActive, true},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusDeleted, false},

		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusDeleted, false},

		{StatusDeleted, StatusActive, false},
		{StatusDeleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusMutable(t *testing.T) {
	assert.True(t, StatusActive.Mutable())
	assert.True(t, StatusInProgress.Mutable())
	assert.True(t, StatusDeleted.Mutable())
	assert.False(t, StatusCompleted.Mutable())
	assert.False(t, StatusCancelled.Mutable())
}
