package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whatwillyoucook/backend/internal/models"
)

var (
	ErrNotFound           = errors.New("recipe not found")
	ErrNameRequired       = errors.New("name is required")
	ErrNoIngredients      = errors.New("no ingredients provided")
	ErrTooManyIngredients = errors.New("too many ingredients")
	ErrRatingRange        = errors.New("rating must be between 1 and 5")
	ErrEmptyComment       = errors.New("comment text is required")
)

// MaxIngredients caps both recipe ingredient lists and search queries.
const MaxIngredients = 30

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// NormalizeIngredients converts either an ingredient array or a
// comma-separated string into lowercase, trimmed, de-duplicated tokens.
// Order of first occurrence is preserved.
func NormalizeIngredients(list []string, text string) []string {
	raw := list
	if len(raw) == 0 && text != "" {
		raw = strings.Split(text, ",")
	}

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, item := range raw {
		token := strings.ToLower(strings.TrimSpace(item))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// CreateRecipeInput carries the client-supplied recipe fields. The owner is
// always taken from the authenticated identity, never from the body.
type CreateRecipeInput struct {
	Name            string
	Description     string
	Ingredients     []string
	IngredientsText string
	Steps           string
	CookingTime     int
	ImageURL        string
}

func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, in CreateRecipeInput) (*models.Recipe, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	ingredients := NormalizeIngredients(in.Ingredients, in.IngredientsText)
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(ingredients) > MaxIngredients {
		return nil, ErrTooManyIngredients
	}

	recipe := models.Recipe{
		Name:        name,
		Description: in.Description,
		Ingredients: ingredients,
		Steps:       in.Steps,
		CookingTime: in.CookingTime,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedBy:   ownerID,
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListOwn returns the recipes created by a user, newest first, with their
// ratings and comments attached.
func (s *RecipeService) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := withChildren(s.db.WithContext(ctx)).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// withChildren loads the rating and comment rows every read endpoint
// returns alongside a recipe. Comments are ordered explicitly; without the
// ORDER BY postgres leaves row order to the planner.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ratings").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// Get fetches one recipe with its ratings and comments.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withChildren(s.db.WithContext(ctx)).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Search finds recipes by ingredient tokens. Mode "all" requires every
// queried token present; "any" (the default) requires at least one overlap.
func (s *RecipeService) Search(ctx context.Context, list []string, text, matchMode string) ([]models.Recipe, error) {
	tokens := NormalizeIngredients(list, text)
	if len(tokens) == 0 {
		return nil, ErrNoIngredients
	}
	if len(tokens) > MaxIngredients {
		return nil, ErrTooManyIngredients
	}

	all := matchMode == "all"

	if s.db.Dialector.Name() == "postgres" {
		return s.searchPostgres(ctx, tokens, all)
	}
	return s.searchScan(ctx, tokens, all)
}

// searchPostgres pushes the set match into JSONB containment checks.
func (s *RecipeService) searchPostgres(ctx context.Context, tokens []string, all bool) ([]models.Recipe, error) {
	cond := s.db.Where("ingredients @> ?", models.StringArray{tokens[0]})
	for _, token := range tokens[1:] {
		contains := s.db.Where("ingredients @> ?", models.StringArray{token})
		if all {
			cond = cond.Where(contains)
		} else {
			cond = cond.Or(contains)
		}
	}

	var recipes []models.Recipe
	if err := withChildren(s.db.WithContext(ctx)).Where(cond).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// searchScan filters in memory for stores without JSONB operators (tests).
func (s *RecipeService) searchScan(ctx context.Context, tokens []string, all bool) ([]models.Recipe, error) {
	var candidates []models.Recipe
	if err := withChildren(s.db.WithContext(ctx)).Find(&candidates).Error; err != nil {
		return nil, err
	}

	matched := make([]models.Recipe, 0, len(candidates))
	for _, recipe := range candidates {
		if matchesIngredients(recipe.Ingredients, tokens, all) {
			matched = append(matched, recipe)
		}
	}
	return matched, nil
}

func matchesIngredients(have []string, want []string, all bool) bool {
	set := make(map[string]struct{}, len(have))
	for _, ing := range have {
		set[ing] = struct{}{}
	}

	for _, token := range want {
		_, ok := set[token]
		if all && !ok {
			return false
		}
		if !all && ok {
			return true
		}
	}
	return all
}

// Feedback is the aggregate view of a recipe's ratings and comments.
type Feedback struct {
	AvgRating   float64          `json:"avgRating"`
	RatingCount int              `json:"ratingCount"`
	Comments    []models.Comment `json:"comments"`
}

func (s *RecipeService) GetFeedback(ctx context.Context, recipeID uuid.UUID) (*Feedback, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	fb := &Feedback{
		RatingCount: len(recipe.Ratings),
		Comments:    recipe.Comments,
	}
	if fb.Comments == nil {
		fb.Comments = []models.Comment{}
	}
	if fb.RatingCount > 0 {
		sum := 0
		for _, r := range recipe.Ratings {
			sum += r.Value
		}
		fb.AvgRating = float64(sum) / float64(fb.RatingCount)
	}
	return fb, nil
}

// RatingSummary is returned after a rating upsert commits.
type RatingSummary struct {
	MyRating    int     `json:"myRating"`
	AvgRating   float64 `json:"avgRating"`
	RatingCount int     `json:"ratingCount"`
}

// Rate upserts a user's rating for a recipe as a single atomic statement;
// two concurrent raters can never produce duplicate rows or lose an update.
func (s *RecipeService) Rate(ctx context.Context, recipeID, userID uuid.UUID, value int) (*RatingSummary, error) {
	if value < 1 || value > 5 {
		return nil, ErrRatingRange
	}

	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	rating := models.Rating{
		RecipeID: recipeID,
		UserID:   userID,
		Value:    value,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&rating).Error
	if err != nil {
		return nil, err
	}

	summary := RatingSummary{MyRating: value}
	row := s.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COUNT(*) AS rating_count, COALESCE(AVG(value), 0) AS avg_rating").
		Where("recipe_id = ?", recipeID).
		Row()
	if err := row.Scan(&summary.RatingCount, &summary.AvgRating); err != nil {
		return nil, err
	}

	return &summary, nil
}

// AddComment appends a comment, snapshotting the author's display name and
// escaping markup so stored text is inert wherever it is rendered.
func (s *RecipeService) AddComment(ctx context.Context, recipeID, userID uuid.UUID, userName, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		RecipeID: recipeID,
		UserID:   userID,
		UserName: userName,
		Text:     html.EscapeString(text),
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetImageURL points a recipe at a newly uploaded image.
func (s *RecipeService) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RecipeService) requireRecipe(ctx context.Context, id uuid.UUID) error {
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
