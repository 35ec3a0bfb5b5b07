package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/whatwillyoucook/backend/internal/models"
	"github.com/whatwillyoucook/backend/internal/service"
	"github.com/whatwillyoucook/backend/internal/testdb"
)

func createUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	user := models.User{Name: "Cook", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestNormalizeIngredients(t *testing.T) {
	fromArray := service.NormalizeIngredients([]string{" Egg ", "FLOUR", "egg", "", "milk"}, "")
	fromText := service.NormalizeIngredients(nil, "egg, flour ,Milk,, EGG")

	assert.Equal(t, []string{"egg", "flour", "milk"}, fromArray)
	assert.Equal(t, []string{"egg", "flour", "milk"}, fromText)
	assert.Empty(t, service.NormalizeIngredients(nil, " , ,"))
}

func TestCreateRecipeValidation(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	_, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "  ", IngredientsText: "egg",
	})
	assert.ErrorIs(t, err, service.ErrNameRequired)

	_, err = svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: " , ",
	})
	assert.ErrorIs(t, err, service.ErrNoIngredients)

	many := make([]string, 31)
	for i := range many {
		many[i] = uuid.NewString()
	}
	_, err = svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Everything Soup", Ingredients: many,
	})
	assert.ErrorIs(t, err, service.ErrTooManyIngredients)
}

func TestCreateRecipeNormalizesAndDefaults(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name:            "Omelette",
		IngredientsText: " Egg , butter, EGG ",
		Steps:           "Whisk and fry.",
		CookingTime:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string(recipe.Ingredients), []string{"egg", "butter"})
	assert.Equal(t, models.DefaultImageURL, recipe.ImageURL)
	assert.Equal(t, owner, recipe.CreatedBy)
}

func TestSearchMatchModes(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	mustCreate := func(name, ingredients string) {
		_, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
			Name: name, IngredientsText: ingredients,
		})
		require.NoError(t, err)
	}
	mustCreate("Omelette", "egg, butter")
	mustCreate("Pancakes", "egg, flour, milk")
	mustCreate("Salad", "lettuce, tomato")

	any, err := svc.Search(context.Background(), nil, "egg, lettuce", "any")
	require.NoError(t, err)
	assert.Len(t, any, 3)

	all, err := svc.Search(context.Background(), nil, "Egg, MILK", "all")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Pancakes", all[0].Name)

	// search normalizes exactly like create: array and text are equivalent
	fromArray, err := svc.Search(context.Background(), []string{" EGG ", "Milk"}, "", "all")
	require.NoError(t, err)
	assert.Len(t, fromArray, 1)

	_, err = svc.Search(context.Background(), nil, " , ", "any")
	assert.ErrorIs(t, err, service.ErrNoIngredients)
}

func TestRateUpsert(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")
	rater := createUser(t, db, "rater@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	first, err := svc.Rate(context.Background(), recipe.ID, rater, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, first.MyRating)
	assert.Equal(t, 1, first.RatingCount)

	// same user again: value replaced, no second row
	second, err := svc.Rate(context.Background(), recipe.ID, rater, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, second.RatingCount)
	assert.InDelta(t, 2.0, second.AvgRating, 1e-9)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	other := createUser(t, db, "other@example.com")
	third, err := svc.Rate(context.Background(), recipe.ID, other, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, third.RatingCount)
	assert.InDelta(t, 3.5, third.AvgRating, 1e-9)
}

func TestRateValidation(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), recipe.ID, owner, 0)
	assert.ErrorIs(t, err, service.ErrRatingRange)

	_, err = svc.Rate(context.Background(), recipe.ID, owner, 6)
	assert.ErrorIs(t, err, service.ErrRatingRange)

	_, err = svc.Rate(context.Background(), uuid.New(), owner, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestFeedbackEmptyRecipe(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	fb, err := svc.GetFeedback(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fb.AvgRating)
	assert.Equal(t, 0, fb.RatingCount)
	assert.NotNil(t, fb.Comments)
	assert.Empty(t, fb.Comments)
}

func TestAddCommentEscapesMarkup(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(context.Background(), recipe.ID, owner, "Cook", "  <script>alert(1)</script>  ")
	require.NoError(t, err)
	assert.NotContains(t, comment.Text, "<")
	assert.NotContains(t, comment.Text, ">")
	assert.Contains(t, comment.Text, "&lt;script&gt;")
	assert.Equal(t, "Cook", comment.UserName)

	_, err = svc.AddComment(context.Background(), recipe.ID, owner, "Cook", "   ")
	assert.ErrorIs(t, err, service.ErrEmptyComment)

	_, err = svc.AddComment(context.Background(), uuid.New(), owner, "Cook", "hello")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListAndSearchIncludeRatingsAndComments(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")
	rater := createUser(t, db, "rater@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), recipe.ID, rater, 4)
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), recipe.ID, rater, "Rater", "nice")
	require.NoError(t, err)

	mine, err := svc.ListOwn(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Ratings, 1)
	assert.Len(t, mine[0].Comments, 1)

	found, err := svc.Search(context.Background(), []string{"egg"}, "", "any")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Ratings, 1)
	assert.Len(t, found[0].Comments, 1)
}

func TestFeedbackCommentsKeepAppendOrder(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")

	recipe, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Omelette", IngredientsText: "egg",
	})
	require.NoError(t, err)

	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		comment, err := svc.AddComment(context.Background(), recipe.ID, owner, "Cook", text)
		require.NoError(t, err)
		// spread the timestamps out so the ordering is unambiguous
		backdated := comment.CreatedAt.Add(-time.Duration(len(texts)-i) * time.Minute)
		require.NoError(t, db.Model(comment).Update("created_at", backdated).Error)
	}

	fb, err := svc.GetFeedback(context.Background(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, fb.Comments, 3)
	for i, text := range texts {
		assert.Equal(t, text, fb.Comments[i].Text)
	}
}

func TestListOwnNewestFirst(t *testing.T) {
	db := testdb.New(t)
	svc := service.NewRecipeService(db)
	owner := createUser(t, db, "cook@example.com")
	stranger := createUser(t, db, "stranger@example.com")

	older, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "First", IngredientsText: "egg",
	})
	require.NoError(t, err)
	// push the first recipe into the past so ordering is deterministic
	require.NoError(t, db.Model(older).Update("created_at", older.CreatedAt.Add(-time.Hour)).Error)

	newer, err := svc.Create(context.Background(), owner, service.CreateRecipeInput{
		Name: "Second", IngredientsText: "flour",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), stranger, service.CreateRecipeInput{
		Name: "Not Mine", IngredientsText: "milk",
	})
	require.NoError(t, err)

	mine, err := svc.ListOwn(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
}
