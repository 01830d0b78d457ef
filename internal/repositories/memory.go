package repositories

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/votes"
)

// MemorySauceRepository keeps sauces in process memory. It honours the same
// version check as the database implementations.
type MemorySauceRepository struct {
	mu     sync.RWMutex
	sauces map[string]models.Sauce
}

func NewMemorySauceRepository() *MemorySauceRepository {
	return &MemorySauceRepository{sauces: make(map[string]models.Sauce)}
}

func cloneSauce(s models.Sauce) *models.Sauce {
	s.UsersLiked = slices.Clone(s.UsersLiked)
	s.UsersDisliked = slices.Clone(s.UsersDisliked)
	s.Normalize()
	return &s
}

func (m *MemorySauceRepository) List(ctx context.Context) ([]models.Sauce, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Sauce, 0, len(m.sauces))
	for _, s := range m.sauces {
		out = append(out, *cloneSauce(s))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemorySauceRepository) Get(ctx context.Context, id string) (*models.Sauce, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sauces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSauce(s), nil
}

func (m *MemorySauceRepository) Create(ctx context.Context, sauce *models.Sauce) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sauce.Prepare()
	now := time.Now()
	sauce.CreatedAt, sauce.UpdatedAt = now, now
	m.sauces[sauce.ID] = *cloneSauce(*sauce)
	return nil
}

func (m *MemorySauceRepository) Update(ctx context.Context, sauce *models.Sauce) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sauces[sauce.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = sauce.Name
	cur.Manufacturer = sauce.Manufacturer
	cur.Description = sauce.Description
	cur.MainPepper = sauce.MainPepper
	cur.Heat = sauce.Heat
	cur.ImageURL = sauce.ImageURL
	cur.Version++
	cur.UpdatedAt = time.Now()
	m.sauces[sauce.ID] = cur
	return nil
}

func (m *MemorySauceRepository) UpdateVotes(ctx context.Context, id string, expectedVersion int64, out votes.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sauces[id]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != expectedVersion {
		return ErrVersionConflict
	}
	if out.Fields.Has(votes.FieldLikes) {
		cur.Likes = out.State.Likes
	}
	if out.Fields.Has(votes.FieldDislikes) {
		cur.Dislikes = out.State.Dislikes
	}
	if out.Fields.Has(votes.FieldUsersLiked) {
		cur.UsersLiked = slices.Clone(nonNil(out.State.LikedBy))
	}
	if out.Fields.Has(votes.FieldUsersDisliked) {
		cur.UsersDisliked = slices.Clone(nonNil(out.State.DislikedBy))
	}
	cur.Version++
	cur.UpdatedAt = time.Now()
	m.sauces[id] = cur
	return nil
}

func (m *MemorySauceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sauces[id]; !ok {
		return ErrNotFound
	}
	delete(m.sauces, id)
	return nil
}

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (m *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	user.Prepare()
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
