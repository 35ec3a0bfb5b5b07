package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whatwillyoucook/backend/internal/models"
)

var ErrSavedNotFound = errors.New("saved recipe not found")

// SavedRecipeService manages per-user recipe bookmarks.
type SavedRecipeService struct {
	db *gorm.DB
}

func NewSavedRecipeService(db *gorm.DB) *SavedRecipeService {
	return &SavedRecipeService{db: db}
}

// Save bookmarks a recipe. Repeated saves return the existing record: the
// insert is an ON CONFLICT DO NOTHING on the (user, recipe) unique index,
// so two concurrent saves cannot both insert.
func (s *SavedRecipeService) Save(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	saved := models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&saved).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Re-read so the caller always gets the canonical row, whether this
	// request inserted it or lost the race to another.
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Toggle flips the bookmark state. A duplicate-key conflict from a
// concurrent save means the desired "on" state already holds, so it is
// reported as success rather than an error.
func (s *SavedRecipeService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (bool, *models.SavedRecipe, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return false, nil, err
	}

	var existing models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Delete(&models.SavedRecipe{}, "id = ?", existing.ID).Error; err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, err
	}

	saved := models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	err = s.db.WithContext(ctx).Create(&saved).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			First(&saved).Error
	}
	if err != nil {
		return false, nil, err
	}
	return true, &saved, nil
}

// List returns the bookmarked recipes, most recently saved first. Bookmarks
// whose recipe no longer exists are filtered out by the inner join.
func (s *SavedRecipeService) List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", userID).
		Order("saved_recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Delete removes a bookmark by its own id, scoped to the owner; a user can
// never delete another user's bookmark by guessing ids.
func (s *SavedRecipeService) Delete(ctx context.Context, userID, savedID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", savedID, userID).
		Delete(&models.SavedRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedNotFound
	}
	return nil
}

func (s *SavedRecipeService) requireRecipe(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
