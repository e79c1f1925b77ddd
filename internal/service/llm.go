package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atable/backend/internal/models"
)

// ErrEmptyGeneration is returned when the model produced no usable output
// for a generation request.
var ErrEmptyGeneration = errors.New("model returned no output")

// LLMService talks to an OpenAI-compatible chat completion API and turns
// free-form requests into structured recipes, menus and meal plans.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(apiKey, apiURL, model string) *LLMService {
	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference, either an https URL or a data URI
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents a chat completion request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// chat sends the messages and returns the raw content of the first choice.
// Every call requests a JSON object response.
func (s *LLMService) chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	reqBody := Request{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("LLM request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyGeneration
	}
	return result.Choices[0].Message.Content, nil
}

// GeneratedIngredient is an ingredient as produced by the model
type GeneratedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// GeneratedRecipe is a full recipe as produced by the model
type GeneratedRecipe struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	PrepTime    int                   `json:"prep_time"`
	CookTime    int                   `json:"cook_time"`
	Servings    int                   `json:"servings"`
	Ingredients []GeneratedIngredient `json:"ingredients"`
	Steps       []string              `json:"steps"`
	ImageHint   string                `json:"image_hint"`
}

// ToRecipe converts a generated recipe into a storable one, applying
// defaults for anything the model left out or got wrong.
func (g *GeneratedRecipe) ToRecipe(userID uuid.UUID) *models.Recipe {
	category := g.Category
	if !models.IsValidCategory(category) {
		category = models.CategoryPlat
	}
	servings := g.Servings
	if servings < 1 {
		servings = 1
	}
	prepTime := g.PrepTime
	if prepTime < 0 {
		prepTime = 0
	}
	cookTime := g.CookTime
	if cookTime < 0 {
		cookTime = 0
	}

	ingredients := make(models.IngredientList, len(g.Ingredients))
	for i, ing := range g.Ingredients {
		ingredients[i] = models.Ingredient{
			ID:       uuid.New().String(),
			Name:     ing.Name,
			Quantity: ing.Quantity,
		}
	}

	return &models.Recipe{
		Title:       g.Title,
		Description: g.Description,
		Category:    category,
		PrepTime:    prepTime,
		CookTime:    cookTime,
		Servings:    servings,
		Ingredients: ingredients,
		Steps:       models.JSONBStringArray(g.Steps),
		ImageHint:   g.ImageHint,
		UserID:      userID,
	}
}

const recipeSchemaPrompt = `Réponds uniquement en JSON avec cette structure:
{
    "title": "Nom de la recette",
    "description": "Courte description",
    "category": "Une valeur parmi: Entrée, Plat Principal, Dessert, Boisson, Apéritif, Autre",
    "prep_time": 20,
    "cook_time": 45,
    "servings": 4,
    "ingredients": [
        {"name": "Farine", "quantity": "200g"},
        {"name": "Oeufs", "quantity": "3"}
    ],
    "steps": [
        "Mélanger les ingrédients secs",
        "Ajouter les oeufs",
        "Cuire 45 minutes à 180°C"
    ],
    "image_hint": "one or two english keywords describing the dish"
}

Les champs prep_time, cook_time et servings sont des nombres (minutes et parts).
Le champ category DOIT être une des valeurs listées.`

// GenerateRecipe generates a single recipe from a free-form description
func (s *LLMService) GenerateRecipe(ctx context.Context, query string) (*GeneratedRecipe, error) {
	messages := []Message{
		{
			Role:    "system",
			Content: "Tu es un chef cuisinier français. " + recipeSchemaPrompt,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Génère une recette pour: %s", query),
		},
	}

	content, err := s.chat(ctx, messages, 0.9)
	if err != nil {
		return nil, err
	}

	var recipe GeneratedRecipe
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse generated recipe: %w", err)
	}
	if recipe.Title == "" {
		return nil, ErrEmptyGeneration
	}
	return &recipe, nil
}

// GeneratedMenu is a coherent multi-course menu as produced by the model
type GeneratedMenu struct {
	MenuTitle       string            `json:"menu_title"`
	MenuDescription string            `json:"menu_description"`
	Recipes         []GeneratedRecipe `json:"recipes"`
}

// GenerateMenu generates a coherent menu of several courses for an
// occasion description ("repas de Noël végétarien pour 8").
func (s *LLMService) GenerateMenu(ctx context.Context, query string) (*GeneratedMenu, error) {
	messages := []Message{
		{
			Role: "system",
			Content: `Tu es un chef cuisinier français. Compose un menu cohérent de plusieurs plats pour l'occasion décrite.
Réponds uniquement en JSON avec cette structure:
{
    "menu_title": "Nom du menu",
    "menu_description": "Présentation du menu en une ou deux phrases",
    "recipes": [ ... ]
}
Chaque élément de "recipes" suit ce format:
` + recipeSchemaPrompt + `
Le menu contient typiquement une entrée, un plat principal et un dessert, adaptés à la demande.`,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Compose un menu pour: %s", query),
		},
	}

	content, err := s.chat(ctx, messages, 0.9)
	if err != nil {
		return nil, err
	}

	var menu GeneratedMenu
	if err := json.Unmarshal([]byte(content), &menu); err != nil {
		return nil, fmt.Errorf("failed to parse generated menu: %w", err)
	}
	if len(menu.Recipes) == 0 {
		return nil, ErrEmptyGeneration
	}
	return &menu, nil
}

// PlanEntry is one meal assignment of a generated plan. Exactly one of
// RecipeID and NewRecipe is set: either the model reused an existing
// recipe or it invented a new one for the slot.
type PlanEntry struct {
	Day       int              `json:"day"`
	Meal      string           `json:"meal"`
	MealType  string           `json:"meal_type"`
	RecipeID  string           `json:"recipe_id,omitempty"`
	NewRecipe *GeneratedRecipe `json:"new_recipe,omitempty"`
}

// Validate checks the structural soundness of a plan entry
func (e *PlanEntry) Validate(duration int) error {
	if e.Day < 1 || e.Day > duration {
		return fmt.Errorf("day %d outside plan of %d days", e.Day, duration)
	}
	if !models.IsValidSlot(e.Meal) {
		return fmt.Errorf("unknown meal slot %q", e.Meal)
	}
	if !models.IsValidCourse(e.MealType) {
		return fmt.Errorf("unknown course %q", e.MealType)
	}
	if (e.RecipeID == "") == (e.NewRecipe == nil) {
		return fmt.Errorf("entry for day %d must reference an existing recipe or carry a new one", e.Day)
	}
	return nil
}

// GeneratedPlan is a multi-day meal plan as produced by the model
type GeneratedPlan struct {
	EventName string      `json:"event_name"`
	Meals     []PlanEntry `json:"meals"`
}

// GeneratePlan generates a meal plan covering the given number of days,
// preferring the supplied recipes and inventing new ones only when the
// catalog has nothing suitable.
func (s *LLMService) GeneratePlan(ctx context.Context, query string, duration int, catalog []models.RecipeSummary) (*GeneratedPlan, error) {
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe catalog: %w", err)
	}

	system := fmt.Sprintf(`Tu es un chef cuisinier français qui planifie les repas d'un événement de %d jour(s).
Réponds uniquement en JSON avec cette structure:
{
    "event_name": "Nom de l'événement",
    "meals": [
        {"day": 1, "meal": "Midi", "meal_type": "Plat Principal", "recipe_id": "id d'une recette existante"},
        {"day": 1, "meal": "Soir", "meal_type": "Dessert", "new_recipe": { ... }}
    ]
}
Chaque élément de "meals" contient SOIT "recipe_id" (une recette du catalogue) SOIT "new_recipe" (suivant le format ci-dessous), jamais les deux.
` + recipeSchemaPrompt + `

Règles de planification:
- "day" va de 1 à %d et chaque jour doit être couvert.
- "meal" vaut "Midi" ou "Soir". "meal_type" vaut "Apéritif", "Entrée", "Plat Principal" ou "Dessert".
- Chaque jour comporte un Plat Principal à Midi ET au Soir.
- Privilégie les recettes du catalogue; n'invente une recette que si rien ne convient.
- Évite de répéter la même recette.

Catalogue de recettes disponibles:
%s`, duration, duration, string(catalogJSON))

	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf("Planifie les repas pour: %s", query)},
	}

	content, err := s.chat(ctx, messages, 0.7)
	if err != nil {
		return nil, err
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse generated plan: %w", err)
	}
	if len(plan.Meals) == 0 {
		return nil, ErrEmptyGeneration
	}
	return &plan, nil
}
