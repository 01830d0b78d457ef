package repositories

import (
	"context"
	"errors"
	"io"

	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/votes"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrDuplicateEmail  = errors.New("duplicate email")
)

// SauceRepository is the document store for sauces.
//
// UpdateVotes is a conditional write: it only applies when the stored version
// still equals expectedVersion, writes only the fields named by out.Fields,
// and bumps the version. A lost race returns ErrVersionConflict.
type SauceRepository interface {
	List(ctx context.Context) ([]models.Sauce, error)
	Get(ctx context.Context, id string) (*models.Sauce, error)
	Create(ctx context.Context, sauce *models.Sauce) error
	Update(ctx context.Context, sauce *models.Sauce) error
	UpdateVotes(ctx context.Context, id string, expectedVersion int64, out votes.Outcome) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// BlobStore keeps sauce images and hands back a public URL for each.
type BlobStore interface {
	Store(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, url string) error
}

// voteColumns maps the fields of a vote outcome to their values.
func voteColumns(out votes.Outcome, names [4]string) map[string]any {
	cols := make(map[string]any, 4)
	if out.Fields.Has(votes.FieldLikes) {
		cols[names[0]] = out.State.Likes
	}
	if out.Fields.Has(votes.FieldDislikes) {
		cols[names[1]] = out.State.Dislikes
	}
	if out.Fields.Has(votes.FieldUsersLiked) {
		cols[names[2]] = nonNil(out.State.LikedBy)
	}
	if out.Fields.Has(votes.FieldUsersDisliked) {
		cols[names[3]] = nonNil(out.State.DislikedBy)
	}
	return cols
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
