package votes

import (
	"fmt"
	"slices"
	"testing"

	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func empty() State {
	return State{LikedBy: []string{}, DislikedBy: []string{}}
}

func TestParseValue(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		v, err := ParseValue(n)
		require.NoError(t, err)
		assert.Equal(t, Value(n), v)
	}
	for _, n := range []int{-2, 2, 5, 100} {
		_, err := ParseValue(n)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.InvalidVoteValue), "value %d", n)
	}
}

func TestReconcile_TransitionTable(t *testing.T) {
	neutral := State{Likes: 1, Dislikes: 1, LikedBy: []string{"a"}, DislikedBy: []string{"b"}}
	liked := State{Likes: 2, Dislikes: 1, LikedBy: []string{"a", "u1"}, DislikedBy: []string{"b"}}
	disliked := State{Likes: 1, Dislikes: 2, LikedBy: []string{"a"}, DislikedBy: []string{"b", "u1"}}

	tests := []struct {
		name       string
		start      State
		vote       Value
		changed    bool
		likedBy    []string
		dislikedBy []string
		fields     Field
	}{
		{"neutral like", neutral, Like, true, []string{"a", "u1"}, []string{"b"}, FieldUsersLiked | FieldLikes},
		{"neutral neutral", neutral, Neutral, false, []string{"a"}, []string{"b"}, 0},
		{"neutral dislike", neutral, Dislike, true, []string{"a"}, []string{"b", "u1"}, FieldUsersDisliked | FieldDislikes},
		{"liked like", liked, Like, false, []string{"a", "u1"}, []string{"b"}, 0},
		{"liked neutral", liked, Neutral, true, []string{"a"}, []string{"b"}, FieldUsersLiked | FieldLikes},
		{"liked dislike", liked, Dislike, true, []string{"a"}, []string{"b", "u1"}, FieldUsersLiked | FieldLikes | FieldUsersDisliked | FieldDislikes},
		{"disliked like", disliked, Like, true, []string{"a", "u1"}, []string{"b"}, FieldUsersLiked | FieldLikes | FieldUsersDisliked | FieldDislikes},
		{"disliked neutral", disliked, Neutral, true, []string{"a"}, []string{"b"}, FieldUsersDisliked | FieldDislikes},
		{"disliked dislike", disliked, Dislike, false, []string{"a"}, []string{"b", "u1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Reconcile(tt.start, "u1", tt.vote)
			require.NoError(t, err)

			assert.Equal(t, tt.changed, out.Changed)
			assert.ElementsMatch(t, tt.likedBy, out.State.LikedBy)
			assert.ElementsMatch(t, tt.dislikedBy, out.State.DislikedBy)
			assert.Equal(t, len(tt.likedBy), out.State.Likes)
			assert.Equal(t, len(tt.dislikedBy), out.State.Dislikes)
			assert.Equal(t, tt.fields, out.Fields)
			assert.True(t, out.State.Consistent())
		})
	}
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	start := State{Likes: 1, Dislikes: 0, LikedBy: []string{"u1"}, DislikedBy: []string{}}
	likedBefore := slices.Clone(start.LikedBy)

	out, err := Reconcile(start, "u1", Dislike)
	require.NoError(t, err)
	require.True(t, out.Changed)

	assert.Equal(t, likedBefore, start.LikedBy)
	assert.Empty(t, start.DislikedBy)
	assert.Equal(t, 1, start.Likes)
}

func TestReconcile_FirstLike(t *testing.T) {
	out, err := Reconcile(empty(), "u1", Like)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Equal(t, 1, out.State.Likes)
	assert.Equal(t, 0, out.State.Dislikes)
	assert.Equal(t, []string{"u1"}, out.State.LikedBy)
	assert.Empty(t, out.State.DislikedBy)
}

func TestReconcile_RepeatLikeIsUnchanged(t *testing.T) {
	first, err := Reconcile(empty(), "u1", Like)
	require.NoError(t, err)

	second, err := Reconcile(first.State, "u1", Like)
	require.NoError(t, err)

	assert.False(t, second.Changed)
	assert.Zero(t, second.Fields)
	assert.Equal(t, first.State, second.State)
}

func TestReconcile_LikedToDisliked(t *testing.T) {
	start := State{Likes: 1, LikedBy: []string{"u1"}, DislikedBy: []string{}}

	out, err := Reconcile(start, "u1", Dislike)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Equal(t, 0, out.State.Likes)
	assert.Equal(t, 1, out.State.Dislikes)
	assert.Empty(t, out.State.LikedBy)
	assert.Equal(t, []string{"u1"}, out.State.DislikedBy)
}

func TestReconcile_InvalidValueLeavesStateAlone(t *testing.T) {
	start := State{Likes: 1, LikedBy: []string{"u1"}, DislikedBy: []string{}}

	out, err := Reconcile(start, "u2", Value(5))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidVoteValue))
	assert.Equal(t, Outcome{}, out)
	assert.Equal(t, []string{"u1"}, start.LikedBy)
}

func TestReconcile_CorruptStateFails(t *testing.T) {
	corrupt := State{Likes: 1, Dislikes: 1, LikedBy: []string{"u1"}, DislikedBy: []string{"u1"}}

	for _, v := range []Value{Like, Neutral, Dislike} {
		t.Run(fmt.Sprintf("vote %d", v), func(t *testing.T) {
			out, err := Reconcile(corrupt, "u1", v)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.DataConsistency))
			assert.False(t, out.Changed)
		})
	}

	// Other voters are unaffected by u1's corruption.
	out, err := Reconcile(corrupt, "u2", Like)
	require.NoError(t, err)
	assert.True(t, out.Changed)
}

func TestReconcile_EmptyVoter(t *testing.T) {
	_, err := Reconcile(empty(), "", Like)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))
}

func TestReconcile_RepairsStaleCounts(t *testing.T) {
	// Documents created before counts were initialised may carry zero counts
	// with non-empty sets.
	stale := State{Likes: 0, Dislikes: 0, LikedBy: []string{"a", "b"}, DislikedBy: []string{}}

	out, err := Reconcile(stale, "u1", Dislike)
	require.NoError(t, err)

	assert.Equal(t, 2, out.State.Likes)
	assert.Equal(t, 1, out.State.Dislikes)
	assert.True(t, out.Fields.Has(FieldLikes), "repaired count must be persisted")
	assert.True(t, out.State.Consistent())
}

// reachableStates enumerates every consistent state over a small voter pool.
func reachableStates(voters []string) []State {
	states := []State{empty()}
	for _, v := range voters {
		var next []State
		for _, s := range states {
			next = append(next,
				s,
				State{Likes: s.Likes + 1, Dislikes: s.Dislikes, LikedBy: append(slices.Clone(s.LikedBy), v), DislikedBy: slices.Clone(s.DislikedBy)},
				State{Likes: s.Likes, Dislikes: s.Dislikes + 1, LikedBy: slices.Clone(s.LikedBy), DislikedBy: append(slices.Clone(s.DislikedBy), v)},
			)
		}
		states = next
	}
	return states
}

var allValues = []Value{Dislike, Neutral, Like}

func TestReconcile_Properties(t *testing.T) {
	voters := []string{"u1", "u2", "u3"}
	states := reachableStates(voters)
	require.Len(t, states, 27)

	for _, s := range states {
		require.True(t, s.Consistent())
		for _, voter := range voters {
			for _, v := range allValues {
				first, err := Reconcile(s, voter, v)
				require.NoError(t, err)

				// Invariants hold after every reconciliation.
				assert.True(t, first.State.Consistent(), "state %+v voter %s vote %d", s, voter, v)

				// The voter ends up where they asked to be.
				status, err := StatusOf(first.State, voter)
				require.NoError(t, err)
				assert.Equal(t, statusFor(v), status)

				// Idempotence: the same request again is a no-op.
				second, err := Reconcile(first.State, voter, v)
				require.NoError(t, err)
				assert.False(t, second.Changed, "state %+v voter %s vote %d", s, voter, v)
			}
		}
	}
}

func mirror(s State) State {
	return State{Likes: s.Dislikes, Dislikes: s.Likes, LikedBy: s.DislikedBy, DislikedBy: s.LikedBy}
}

func apply(t *testing.T, s State, voter string, vs ...Value) State {
	t.Helper()
	for _, v := range vs {
		out, err := Reconcile(s, voter, v)
		require.NoError(t, err)
		s = out.State
	}
	return s
}

func TestReconcile_Symmetry(t *testing.T) {
	for _, s := range reachableStates([]string{"a", "b"}) {
		got := mirror(apply(t, s, "u1", Like, Dislike))
		want := apply(t, mirror(s), "u1", Dislike, Like)

		assert.Equal(t, want.Likes, got.Likes)
		assert.Equal(t, want.Dislikes, got.Dislikes)
		assert.ElementsMatch(t, want.LikedBy, got.LikedBy)
		assert.ElementsMatch(t, want.DislikedBy, got.DislikedBy)
	}
}

func TestReconcile_NeutralRoundTrip(t *testing.T) {
	for _, s := range reachableStates([]string{"a", "b"}) {
		for _, v := range []Value{Like, Dislike} {
			got := apply(t, s, "u1", v, Neutral)

			assert.Equal(t, s.Likes, got.Likes)
			assert.Equal(t, s.Dislikes, got.Dislikes)
			assert.Equal(t, s.LikedBy, got.LikedBy)
			assert.Equal(t, s.DislikedBy, got.DislikedBy)
		}
	}
}
