package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rohits-web03/piiquante/internal/sauces"
	"github.com/rohits-web03/piiquante/internal/votes"
)

type Sauce struct {
	ID            string                      `json:"_id" bson:"_id" gorm:"type:char(24);primaryKey"`
	UserID        string                      `json:"userId" bson:"userId" gorm:"type:char(24);index;not null"` // owner, immutable
	Name          string                      `json:"name" bson:"name" gorm:"not null"`
	Manufacturer  string                      `json:"manufacturer" bson:"manufacturer" gorm:"not null"`
	Description   string                      `json:"description" bson:"description" gorm:"not null"`
	MainPepper    string                      `json:"mainPepper" bson:"mainPepper" gorm:"not null"`
	ImageURL      string                      `json:"imageUrl" bson:"imageUrl" gorm:"not null"`
	Heat          int                         `json:"heat" bson:"heat" gorm:"not null"`
	Likes         int                         `json:"likes" bson:"likes" gorm:"not null"`
	Dislikes      int                         `json:"dislikes" bson:"dislikes" gorm:"not null"`
	UsersLiked    datatypes.JSONSlice[string] `json:"usersLiked" bson:"usersLiked" gorm:"column:users_liked"`
	UsersDisliked datatypes.JSONSlice[string] `json:"usersDisliked" bson:"usersDisliked" gorm:"column:users_disliked"`
	Version       int64                       `json:"-" bson:"version" gorm:"not null"` // bumped on every write
	CreatedAt     time.Time                   `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime"`
}

// Prepare fills the fields every new sauce starts with: an id, zero counts
// and empty vote sets.
func (s *Sauce) Prepare() {
	if s.ID == "" {
		s.ID = sauces.NewID()
	}
	s.Normalize()
}

// Normalize replaces nil vote sets with empty ones so they serialize as [].
func (s *Sauce) Normalize() {
	if s.UsersLiked == nil {
		s.UsersLiked = datatypes.JSONSlice[string]{}
	}
	if s.UsersDisliked == nil {
		s.UsersDisliked = datatypes.JSONSlice[string]{}
	}
}

func (s *Sauce) BeforeCreate(tx *gorm.DB) error {
	s.Prepare()
	return nil
}

func (s *Sauce) VoteState() votes.State {
	return votes.State{
		Likes:      s.Likes,
		Dislikes:   s.Dislikes,
		LikedBy:    []string(s.UsersLiked),
		DislikedBy: []string(s.UsersDisliked),
	}
}

func (s *Sauce) ApplyVotes(st votes.State) {
	s.Likes = st.Likes
	s.Dislikes = st.Dislikes
	s.UsersLiked = datatypes.JSONSlice[string](st.LikedBy)
	s.UsersDisliked = datatypes.JSONSlice[string](st.DislikedBy)
	s.Normalize()
}

// ApplyInput copies the owner-editable fields.
func (s *Sauce) ApplyInput(in sauces.Input) {
	s.Name = in.Name
	s.Manufacturer = in.Manufacturer
	s.Description = in.Description
	s.MainPepper = in.MainPepper
	s.Heat = in.Heat
}

// NewSauce builds a sauce owned by ownerID with no votes.
func NewSauce(ownerID string, in sauces.Input, imageURL string) *Sauce {
	s := &Sauce{UserID: ownerID, ImageURL: imageURL}
	s.ApplyInput(in)
	s.Prepare()
	return s
}
