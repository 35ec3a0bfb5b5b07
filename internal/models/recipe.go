package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultImageURL is used when a recipe is created without an image.
const DefaultImageURL = "https://via.placeholder.com/600x400?text=No+Image"

// StringArray stores an ordered list of strings as a JSON column.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:255" json:"imageUrl"`
	Ingredients StringArray    `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       string         `gorm:"type:text" json:"steps"`
	CookingTime int            `json:"cookingTime"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"createdBy"`
	Ratings     []Rating       `gorm:"foreignKey:RecipeID" json:"ratings,omitempty"`
	Comments    []Comment      `gorm:"foreignKey:RecipeID" json:"comments,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ImageURL == "" {
		r.ImageURL = DefaultImageURL
	}
	return nil
}

// Rating is one user's 1-5 score for a recipe. The composite unique index
// backs the upsert that keeps at most one row per (recipe, user).
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"user"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Comment is append-only; UserName is a snapshot of the author's display
// name at write time.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user"`
	UserName  string    `gorm:"size:255" json:"userName"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
