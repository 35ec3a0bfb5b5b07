package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/database"
	"github.com/whatwillyoucook/backend/internal/service"
)

type seedRecipe struct {
	name        string
	description string
	ingredients string
	steps       string
	cookingTime int
}

var seedRecipes = []seedRecipe{
	{
		name:        "Classic Omelette",
		description: "A three-egg omelette with butter and herbs.",
		ingredients: "egg, butter, chives, salt, pepper",
		steps:       "Whisk the eggs with salt and pepper. Melt the butter, pour in the eggs, and fold when just set. Finish with chives.",
		cookingTime: 10,
	},
	{
		name:        "Tomato Basil Pasta",
		description: "Weeknight pasta with a quick tomato sauce.",
		ingredients: "spaghetti, tomato, garlic, basil, olive oil, parmesan",
		steps:       "Cook the spaghetti. Soften garlic in olive oil, add chopped tomatoes and simmer. Toss with pasta, basil, and parmesan.",
		cookingTime: 25,
	},
	{
		name:        "Chicken Fried Rice",
		description: "Uses up leftover rice and whatever vegetables are around.",
		ingredients: "rice, chicken, egg, soy sauce, spring onion, peas, carrot",
		steps:       "Stir-fry diced chicken, push aside and scramble the egg. Add rice, vegetables, and soy sauce. Top with spring onion.",
		cookingTime: 20,
	},
	{
		name:        "Greek Salad",
		description: "No cooking required.",
		ingredients: "cucumber, tomato, feta, olives, red onion, olive oil, oregano",
		steps:       "Chop the vegetables, crumble the feta over, and dress with olive oil and oregano.",
		cookingTime: 10,
	},
	{
		name:        "Banana Pancakes",
		description: "Sweet enough that no syrup is needed.",
		ingredients: "banana, egg, flour, milk, baking powder, butter",
		steps:       "Mash the bananas and whisk in egg, milk, flour, and baking powder. Fry spoonfuls in butter until golden on both sides.",
		cookingTime: 15,
	},
	{
		name:        "Lentil Soup",
		description: "Hearty vegetarian soup that freezes well.",
		ingredients: "lentils, carrot, onion, celery, garlic, cumin, vegetable stock",
		steps:       "Sweat the onion, carrot, and celery. Add garlic and cumin, then lentils and stock. Simmer until the lentils are tender.",
		cookingTime: 40,
	},
}

// Seeds a demo account and a handful of recipes so a fresh environment has
// something to browse. Safe to re-run: the demo account is reused if it
// already exists.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	ctx := context.Background()
	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)

	email := "demo@whatwillyoucook.example"
	password := fmt.Sprintf("demo-%d", time.Now().Unix())

	user, err := authService.Register(ctx, "Demo Cook", email, password)
	if errors.Is(err, service.ErrEmailTaken) {
		if user, err = authService.GetUserByEmail(ctx, email); err != nil {
			logrus.WithError(err).Fatal("Failed to load existing demo user")
		}
		logrus.Info("Reusing existing demo user")
	} else if err != nil {
		logrus.WithError(err).Fatal("Failed to create demo user")
	} else {
		logrus.WithField("password", password).Info("Created demo user")
	}

	created := 0
	for _, r := range seedRecipes {
		_, err := recipeService.Create(ctx, user.ID, service.CreateRecipeInput{
			Name:            r.name,
			Description:     r.description,
			IngredientsText: r.ingredients,
			Steps:           r.steps,
			CookingTime:     r.cookingTime,
		})
		if err != nil {
			logrus.WithError(err).WithField("recipe", r.name).Warn("Failed to seed recipe")
			continue
		}
		created++
	}

	logrus.WithField("count", created).Info("Seeding complete")
}
