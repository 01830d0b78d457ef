package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/votes"
)

type GormSauceRepository struct {
	db *gorm.DB
}

func NewSauceRepository(db *gorm.DB) *GormSauceRepository {
	return &GormSauceRepository{db: db}
}

func (r *GormSauceRepository) List(ctx context.Context) ([]models.Sauce, error) {
	out := []models.Sauce{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (r *GormSauceRepository) Get(ctx context.Context, id string) (*models.Sauce, error) {
	var s models.Sauce
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Normalize()
	return &s, nil
}

func (r *GormSauceRepository) Create(ctx context.Context, sauce *models.Sauce) error {
	if err := r.db.WithContext(ctx).Create(sauce).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update writes the owner-editable fields and the image URL.
func (r *GormSauceRepository) Update(ctx context.Context, sauce *models.Sauce) error {
	res := r.db.WithContext(ctx).
		Model(&models.Sauce{}).
		Where("id = ?", sauce.ID).
		Updates(map[string]any{
			"name":         sauce.Name,
			"manufacturer": sauce.Manufacturer,
			"description":  sauce.Description,
			"main_pepper":  sauce.MainPepper,
			"heat":         sauce.Heat,
			"image_url":    sauce.ImageURL,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSauceRepository) UpdateVotes(ctx context.Context, id string, expectedVersion int64, out votes.Outcome) error {
	cols := voteColumns(out, [4]string{"likes", "dislikes", "users_liked", "users_disliked"})
	for _, name := range []string{"users_liked", "users_disliked"} {
		if v, ok := cols[name]; ok {
			cols[name] = datatypes.JSONSlice[string](v.([]string))
		}
	}
	cols["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).
		Model(&models.Sauce{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Sauce{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func (r *GormSauceRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Sauce{})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
