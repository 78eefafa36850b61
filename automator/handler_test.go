package automator

import (
	"context"
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/transition"
)

func setWithTransitions(trs ...transition.StateTransition) *transition.StateTransitions {
	set := transition.NewStateTransitions(1, "Home")
	for _, tr := range trs {
		set.Add(tr)
	}

	return set
}

func TestDefaultStateHandlerExecutesFirstTransition(t *testing.T) {
	t.Parallel()

	var firstRan, secondRan bool

	first := transition.NewCodeTransition(func() bool { firstRan = true; return true })
	second := transition.NewCodeTransition(func() bool { secondRan = true; return true })

	h := NewDefaultStateHandler(slogt.New(t))

	ok, err := h.HandleState(context.Background(), state.New(1, "Home"), setWithTransitions(first, second))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, firstRan)
	assert.False(t, secondRan)
}

func TestDefaultStateHandlerSuccessCounter(t *testing.T) {
	t.Parallel()

	t.Run("incremented on success", func(t *testing.T) {
		t.Parallel()

		tr := transition.NewCodeTransition(func() bool { return true })
		h := NewDefaultStateHandler(slogt.New(t))

		ok, err := h.HandleState(context.Background(), state.New(1, "Home"), setWithTransitions(tr))

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(1), tr.TimesSuccessful())
	})

	t.Run("untouched on failure", func(t *testing.T) {
		t.Parallel()

		tr := transition.NewCodeTransition(func() bool { return false })
		h := NewDefaultStateHandler(slogt.New(t))

		ok, err := h.HandleState(context.Background(), state.New(1, "Home"), setWithTransitions(tr))

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, tr.TimesSuccessful())
	})
}

func TestDefaultStateHandlerEmptySet(t *testing.T) {
	t.Parallel()

	h := NewDefaultStateHandler(slogt.New(t))

	ok, err := h.HandleState(context.Background(), state.New(1, "Home"), setWithTransitions())

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultStateHandlerNilLogger(t *testing.T) {
	t.Parallel()

	h := NewDefaultStateHandler(nil)

	assert.NotPanics(t, h.OnNoTransitionFound)
}

func TestLoggingStateHandlerPassesResultsThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  bool
		err     error
		wantErr error
	}{
		{name: "success", result: true},
		{name: "declined", result: false},
		{name: "failure", err: errors.New("boom"), wantErr: errors.New("boom")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			inner := &fakeHandler{result: tc.result, err: tc.err}
			h := NewLoggingStateHandler(inner, slogt.New(t))

			ok, err := h.HandleState(context.Background(), state.New(1, "Home"), setWithTransitions())

			if tc.wantErr != nil {
				require.EqualError(t, err, tc.wantErr.Error())
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.result, ok)
			assert.Equal(t, []state.ID{1}, inner.handledIDs())
		})
	}
}

func TestLoggingStateHandlerForwardsNoTransitionFound(t *testing.T) {
	t.Parallel()

	inner := &fakeHandler{}
	h := NewLoggingStateHandler(inner, slogt.New(t))

	h.OnNoTransitionFound()
	h.OnNoTransitionFound()

	assert.Equal(t, 2, inner.noTransitionCount())
}
