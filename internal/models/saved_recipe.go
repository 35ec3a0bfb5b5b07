package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe is a user's bookmark of a recipe. The composite unique index
// keeps at most one row per (user, recipe); application code treats a
// duplicate-key conflict as "already saved".
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_recipe" json:"user"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_recipe" json:"recipe"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
