// Package votes reconciles a voter's requested like/dislike against the
// current vote state of a sauce. Everything here is pure: callers load the
// state, call Reconcile, and persist the Outcome when it reports a change.
//
// A requested vote is the voter's desired final position, not a delta:
//
//	current \ requested   like(1)          neutral(0)       dislike(-1)
//	neutral               +likedBy         no-op            +dislikedBy
//	liked                 no-op            -likedBy         likedBy->dislikedBy
//	disliked              dislikedBy->     -dislikedBy      no-op
//	                      likedBy
//
// Counts in the resulting state are always the sizes of the resulting sets.
package votes

import (
	"slices"

	"github.com/rohits-web03/piiquante/internal/apperr"
)

type Value int

const (
	Dislike Value = -1
	Neutral Value = 0
	Like    Value = 1
)

func (v Value) Valid() bool {
	return v == Dislike || v == Neutral || v == Like
}

// ParseValue validates a raw "like" field from a request body.
func ParseValue(n int) (Value, error) {
	v := Value(n)
	if !v.Valid() {
		return 0, apperr.New(apperr.InvalidVoteValue, "The like value must be -1, 0 or 1")
	}
	return v, nil
}

// Status is where a voter currently stands on a sauce.
type Status int

const (
	StatusNeutral Status = iota
	StatusLiked
	StatusDisliked
)

func (s Status) String() string {
	switch s {
	case StatusLiked:
		return "liked"
	case StatusDisliked:
		return "disliked"
	default:
		return "neutral"
	}
}

func statusFor(v Value) Status {
	switch v {
	case Like:
		return StatusLiked
	case Dislike:
		return StatusDisliked
	default:
		return StatusNeutral
	}
}

// State is the vote-related part of a sauce.
type State struct {
	Likes      int
	Dislikes   int
	LikedBy    []string
	DislikedBy []string
}

// Consistent reports whether s satisfies the vote invariants: disjoint sets,
// counts equal to set sizes, and non-negative counts.
func (s State) Consistent() bool {
	if s.Likes < 0 || s.Dislikes < 0 {
		return false
	}
	if s.Likes != len(s.LikedBy) || s.Dislikes != len(s.DislikedBy) {
		return false
	}
	for _, id := range s.LikedBy {
		if slices.Contains(s.DislikedBy, id) {
			return false
		}
	}
	return true
}

// Field names a persisted vote field.
type Field uint8

const (
	FieldLikes Field = 1 << iota
	FieldDislikes
	FieldUsersLiked
	FieldUsersDisliked
)

func (f Field) Has(other Field) bool {
	return f&other != 0
}

// Outcome is the result of a reconciliation. When Changed is false the
// request was a no-op and nothing must be written. Fields lists exactly the
// fields that differ from the input state.
type Outcome struct {
	Changed bool
	State   State
	Fields  Field
}

// StatusOf reports where voterID stands in s. A voter present in both sets
// means the stored state is corrupt and yields a DataConsistency error.
func StatusOf(s State, voterID string) (Status, error) {
	liked := slices.Contains(s.LikedBy, voterID)
	disliked := slices.Contains(s.DislikedBy, voterID)
	switch {
	case liked && disliked:
		return StatusNeutral, apperr.New(apperr.DataConsistency, "Vote data is inconsistent for this sauce")
	case liked:
		return StatusLiked, nil
	case disliked:
		return StatusDisliked, nil
	default:
		return StatusNeutral, nil
	}
}

// Reconcile computes the vote state after voterID requests the final position
// requested. The input state is never modified.
func Reconcile(current State, voterID string, requested Value) (Outcome, error) {
	if !requested.Valid() {
		return Outcome{}, apperr.New(apperr.InvalidVoteValue, "The like value must be -1, 0 or 1")
	}
	if voterID == "" {
		return Outcome{}, apperr.New(apperr.InvalidInput, "A voter identity is required")
	}

	status, err := StatusOf(current, voterID)
	if err != nil {
		return Outcome{}, err
	}
	if status == statusFor(requested) {
		return Outcome{Changed: false, State: current}, nil
	}

	next := State{LikedBy: current.LikedBy, DislikedBy: current.DislikedBy}
	var fields Field

	switch status {
	case StatusLiked:
		next.LikedBy = without(current.LikedBy, voterID)
		fields |= FieldUsersLiked
	case StatusDisliked:
		next.DislikedBy = without(current.DislikedBy, voterID)
		fields |= FieldUsersDisliked
	}

	switch requested {
	case Like:
		next.LikedBy = with(next.LikedBy, voterID)
		fields |= FieldUsersLiked
	case Dislike:
		next.DislikedBy = with(next.DislikedBy, voterID)
		fields |= FieldUsersDisliked
	}

	next.Likes = len(next.LikedBy)
	next.Dislikes = len(next.DislikedBy)
	if next.Likes != current.Likes {
		fields |= FieldLikes
	}
	if next.Dislikes != current.Dislikes {
		fields |= FieldDislikes
	}

	return Outcome{Changed: true, State: next, Fields: fields}, nil
}

func without(set []string, id string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func with(set []string, id string) []string {
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	return append(out, id)
}
