package mongostore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/sauces"
	"github.com/rohits-web03/piiquante/internal/votes"
)

// newTestDatabase connects to MONGO_TEST_URI and drops the database when the
// test ends.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, uri, "piiquante_test_"+sauces.NewID(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestSauceRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewSauceRepository(db)
	ctx := context.Background()

	s := models.NewSauce("aaaaaaaaaaaaaaaaaaaaaaaa", sauces.Input{
		Name: "Sriracha", Manufacturer: "Huy Fong", Description: "Hot", MainPepper: "Jalapeno", Heat: 4,
	}, "http://localhost/images/a.png")
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sriracha", got.Name)
	assert.Empty(t, got.UsersLiked)

	out, err := votes.Reconcile(got.VoteState(), "u1", votes.Like)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateVotes(ctx, s.ID, got.Version, out))
	assert.ErrorIs(t, repo.UpdateVotes(ctx, s.ID, got.Version, out), repositories.ErrVersionConflict)
	assert.ErrorIs(t, repo.UpdateVotes(ctx, sauces.NewID(), 0, out), repositories.ErrNotFound)

	got, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, []string{"u1"}, []string(got.UsersLiked))

	got.Name = "Tabasco"
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Tabasco", all[0].Name)

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), repositories.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Email: "alice@example.com", Password: "digest"}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &models.User{Email: "alice@example.com"}), repositories.ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, sauces.NewID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
