package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/rohits-web03/piiquante/internal/sauces"
)

type User struct {
	ID        string    `json:"id" bson:"_id" gorm:"type:char(24);primaryKey"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" bson:"password" gorm:"not null"` // bcrypt digest; empty for Google accounts
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime"`
}

// Prepare assigns an id to a new user.
func (u *User) Prepare() {
	if u.ID == "" {
		u.ID = sauces.NewID()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Prepare()
	return nil
}
