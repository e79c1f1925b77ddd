package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/database"
	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
)

// Seeds a handful of French classics so a fresh install has something on
// the calendar from day one.

func ing(name, quantity string) models.Ingredient {
	return models.Ingredient{Name: name, Quantity: quantity}
}

var seedRecipes = []models.Recipe{
	{
		Title:       "Quiche Lorraine",
		Description: "La quiche traditionnelle aux lardons et à la crème.",
		Category:    models.CategoryPlat,
		PrepTime:    20,
		CookTime:    45,
		Servings:    6,
		Ingredients: models.IngredientList{
			ing("Pâte brisée", "1"),
			ing("Lardons fumés", "200g"),
			ing("Oeufs", "3"),
			ing("Crème fraîche", "20cl"),
			ing("Lait", "20cl"),
			ing("Muscade", "1 pincée"),
		},
		Steps: models.JSONBStringArray{
			"Préchauffer le four à 180°C.",
			"Étaler la pâte dans un moule et la piquer à la fourchette.",
			"Faire revenir les lardons sans matière grasse.",
			"Battre les oeufs avec la crème, le lait et la muscade.",
			"Répartir les lardons sur la pâte, verser l'appareil.",
			"Cuire 45 minutes jusqu'à ce que la quiche soit dorée.",
		},
		ImageHint: "quiche lorraine",
	},
	{
		Title:       "Salade de chèvre chaud",
		Description: "Toasts de chèvre gratinés sur un lit de salade aux noix.",
		Category:    models.CategoryEntree,
		PrepTime:    15,
		CookTime:    5,
		Servings:    4,
		Ingredients: models.IngredientList{
			ing("Crottins de chèvre", "2"),
			ing("Pain de campagne", "8 tranches"),
			ing("Salade verte", "1"),
			ing("Cerneaux de noix", "50g"),
			ing("Miel", "2 c. à soupe"),
		},
		Steps: models.JSONBStringArray{
			"Couper les crottins en deux et les poser sur les tranches de pain.",
			"Arroser d'un filet de miel et passer 5 minutes sous le gril.",
			"Dresser la salade avec les noix et poser les toasts dessus.",
		},
		ImageHint: "goat cheese salad",
	},
	{
		Title:       "Boeuf bourguignon",
		Description: "Le mijoté de boeuf au vin rouge, champignons et petits oignons.",
		Category:    models.CategoryPlat,
		PrepTime:    30,
		CookTime:    180,
		Servings:    6,
		Ingredients: models.IngredientList{
			ing("Boeuf à braiser", "1.2kg"),
			ing("Vin rouge de Bourgogne", "75cl"),
			ing("Lardons", "150g"),
			ing("Champignons de Paris", "250g"),
			ing("Oignons grelots", "12"),
			ing("Carottes", "3"),
			ing("Bouquet garni", "1"),
		},
		Steps: models.JSONBStringArray{
			"Faire revenir les lardons puis la viande sur toutes ses faces.",
			"Ajouter les carottes, singer et mouiller avec le vin.",
			"Ajouter le bouquet garni et mijoter 3 heures à couvert.",
			"Faire sauter champignons et oignons, les ajouter en fin de cuisson.",
		},
		ImageHint: "beef bourguignon",
	},
	{
		Title:       "Mousse au chocolat",
		Description: "Mousse aérienne au chocolat noir, sans crème.",
		Category:    models.CategoryDessert,
		PrepTime:    20,
		CookTime:    0,
		Servings:    6,
		Ingredients: models.IngredientList{
			ing("Chocolat noir", "200g"),
			ing("Oeufs", "6"),
			ing("Sucre", "30g"),
			ing("Sel", "1 pincée"),
		},
		Steps: models.JSONBStringArray{
			"Faire fondre le chocolat au bain-marie.",
			"Séparer les blancs des jaunes, mélanger les jaunes au chocolat.",
			"Monter les blancs en neige avec le sel et le sucre.",
			"Incorporer délicatement les blancs et réfrigérer 4 heures.",
		},
		ImageHint: "chocolate mousse",
	},
	{
		Title:       "Kir royal",
		Description: "L'apéritif pétillant à la crème de cassis.",
		Category:    models.CategoryBoisson,
		PrepTime:    5,
		CookTime:    0,
		Servings:    1,
		Ingredients: models.IngredientList{
			ing("Crémant ou champagne", "10cl"),
			ing("Crème de cassis", "1cl"),
		},
		Steps: models.JSONBStringArray{
			"Verser la crème de cassis dans une flûte.",
			"Compléter avec le crémant bien frais.",
		},
		ImageHint: "kir royal cocktail",
	},
	{
		Title:       "Gougères",
		Description: "Petits choux au fromage pour l'apéritif.",
		Category:    models.CategoryAperitif,
		PrepTime:    25,
		CookTime:    25,
		Servings:    8,
		Ingredients: models.IngredientList{
			ing("Eau", "25cl"),
			ing("Beurre", "80g"),
			ing("Farine", "150g"),
			ing("Oeufs", "4"),
			ing("Comté râpé", "120g"),
		},
		Steps: models.JSONBStringArray{
			"Porter l'eau et le beurre à ébullition, ajouter la farine d'un coup.",
			"Dessécher la pâte puis incorporer les oeufs un à un.",
			"Ajouter le comté, dresser des petits choux.",
			"Cuire 25 minutes à 200°C sans ouvrir le four.",
		},
		ImageHint: "cheese puffs",
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ownerID := uuid.Nil
	var owner models.User
	if err := db.Order("created_at").First(&owner).Error; err == nil {
		ownerID = owner.ID
	}

	recipeService := service.NewRecipeService(db)
	ctx := context.Background()

	seeded := 0
	for i := range seedRecipes {
		recipe := seedRecipes[i]

		var count int64
		db.Model(&models.Recipe{}).Where("title = ?", recipe.Title).Count(&count)
		if count > 0 {
			continue
		}

		recipe.UserID = ownerID
		if _, err := recipeService.CreateRecipe(ctx, &recipe); err != nil {
			log.Printf("Failed to seed %q: %v", recipe.Title, err)
			continue
		}
		seeded++
	}

	log.Printf("Seeded %d recipes", seeded)
}
