package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/atable/backend/internal/models"
)

// Confidence envelopes wrap an extracted value with the model's confidence
// in [0, 1] and a short justification. A field the source did not contain
// is represented by a nil pointer in ImportedRecipe, never by a zero-value
// envelope.

// ConfidenceString is a confidence-scored string value
type ConfidenceString struct {
	Value         string  `json:"value"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
}

// ConfidenceNumber is a confidence-scored numeric value
type ConfidenceNumber struct {
	Value         int     `json:"value"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
}

// ConfidenceIngredientList is a confidence-scored ingredient list
type ConfidenceIngredientList struct {
	Value         []GeneratedIngredient `json:"value"`
	Confidence    float64               `json:"confidence"`
	Justification string                `json:"justification"`
}

// ConfidenceStringList is a confidence-scored list of strings
type ConfidenceStringList struct {
	Value         []string `json:"value"`
	Confidence    float64  `json:"confidence"`
	Justification string   `json:"justification"`
}

// ImportedRecipe is the result of extracting a recipe from an external
// source. Every field is optional; the caller reviews low-confidence
// fields before the recipe is saved.
type ImportedRecipe struct {
	Title       *ConfidenceString         `json:"title,omitempty"`
	Description *ConfidenceString         `json:"description,omitempty"`
	Category    *ConfidenceString         `json:"category,omitempty"`
	PrepTime    *ConfidenceNumber         `json:"prep_time,omitempty"`
	CookTime    *ConfidenceNumber         `json:"cook_time,omitempty"`
	Servings    *ConfidenceNumber         `json:"servings,omitempty"`
	Ingredients *ConfidenceIngredientList `json:"ingredients,omitempty"`
	Steps       *ConfidenceStringList     `json:"steps,omitempty"`
}

// ToRecipe converts an imported recipe into a storable one. Absent fields
// fall back to the same defaults the generator uses.
func (imp *ImportedRecipe) ToRecipe(userID uuid.UUID) *models.Recipe {
	gen := GeneratedRecipe{}
	if imp.Title != nil {
		gen.Title = imp.Title.Value
	}
	if imp.Description != nil {
		gen.Description = imp.Description.Value
	}
	if imp.Category != nil {
		gen.Category = imp.Category.Value
	}
	if imp.PrepTime != nil {
		gen.PrepTime = imp.PrepTime.Value
	}
	if imp.CookTime != nil {
		gen.CookTime = imp.CookTime.Value
	}
	if imp.Servings != nil {
		gen.Servings = imp.Servings.Value
	}
	if imp.Ingredients != nil {
		gen.Ingredients = imp.Ingredients.Value
	}
	if imp.Steps != nil {
		gen.Steps = imp.Steps.Value
	}
	return gen.ToRecipe(userID)
}

const importSchemaPrompt = `Réponds uniquement en JSON. Chaque champ extrait est un objet {"value": ..., "confidence": 0.0 à 1.0, "justification": "courte explication"}.
OMETS ENTIÈREMENT tout champ absent de la source; n'invente jamais de valeur.
Structure:
{
    "title": {"value": "Nom de la recette", "confidence": 0.95, "justification": "titre de la page"},
    "description": {"value": "...", "confidence": 0.8, "justification": "..."},
    "category": {"value": "Une valeur parmi: Entrée, Plat Principal, Dessert, Boisson, Apéritif, Autre", "confidence": 0.7, "justification": "..."},
    "prep_time": {"value": 20, "confidence": 0.9, "justification": "..."},
    "cook_time": {"value": 45, "confidence": 0.9, "justification": "..."},
    "servings": {"value": 4, "confidence": 0.9, "justification": "..."},
    "ingredients": {"value": [{"name": "Farine", "quantity": "200g"}], "confidence": 0.85, "justification": "..."},
    "steps": {"value": ["Mélanger...", "Cuire..."], "confidence": 0.85, "justification": "..."}
}
Les temps sont en minutes. Les valeurs extraites restent dans la langue de la source.`

// ImportDraft is an extraction result held for review before it becomes a
// stored recipe.
type ImportDraft struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Source    string         `json:"source"`
	UserID    string         `json:"user_id"`
	Recipe    ImportedRecipe `json:"recipe"`
}

// ImporterService extracts recipes from web pages and photos and parks the
// results in Redis until the user confirms or discards them.
type ImporterService struct {
	llm    *LLMService
	redis  *redis.Client
	client *http.Client
}

// NewImporterService creates a new ImporterService instance
func NewImporterService(llm *LLMService, redisClient *redis.Client) *ImporterService {
	return &ImporterService{
		llm:    llm,
		redis:  redisClient,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// pageText fetches a URL and reduces the HTML to plain text. 100KB of text
// is plenty for any recipe page.
func (s *ImporterService) pageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "atable-importer/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	text := scriptRe.ReplaceAllString(string(body), " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	if len(text) > 100_000 {
		text = text[:100_000]
	}
	return strings.TrimSpace(text), nil
}

// ImportFromURL extracts a recipe from a web page
func (s *ImporterService) ImportFromURL(ctx context.Context, url string) (*ImportedRecipe, error) {
	text, err := s.pageText(ctx, url)
	if err != nil {
		return nil, err
	}

	messages := []Message{
		{
			Role:    "system",
			Content: "Tu extrais des recettes de cuisine à partir du texte d'une page web. " + importSchemaPrompt,
		},
		{
			Role:    "user",
			Content: "Extrais la recette de cette page:\n\n" + text,
		},
	}
	return s.extract(ctx, messages)
}

// ImportFromPhoto extracts a recipe from a photo, supplied as a data URI
// ("data:image/jpeg;base64,...").
func (s *ImporterService) ImportFromPhoto(ctx context.Context, photoDataURI string) (*ImportedRecipe, error) {
	if !strings.HasPrefix(photoDataURI, "data:image/") {
		return nil, fmt.Errorf("photo must be an image data URI")
	}

	messages := []Message{
		{
			Role:    "system",
			Content: "Tu extrais des recettes de cuisine à partir de photos (plat, page de livre, recette manuscrite). " + importSchemaPrompt,
		},
		{
			Role: "user",
			Content: []ContentPart{
				{Type: "text", Text: "Extrais la recette visible sur cette photo:"},
				{Type: "image_url", ImageURL: &ImageURL{URL: photoDataURI}},
			},
		},
	}
	return s.extract(ctx, messages)
}

func (s *ImporterService) extract(ctx context.Context, messages []Message) (*ImportedRecipe, error) {
	content, err := s.llm.chat(ctx, messages, 0.2)
	if err != nil {
		return nil, err
	}

	var imported ImportedRecipe
	if err := json.Unmarshal([]byte(content), &imported); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}
	if imported.Title == nil && imported.Ingredients == nil && imported.Steps == nil {
		return nil, ErrEmptyGeneration
	}
	return &imported, nil
}

// SaveDraft parks an extraction result in Redis for 24 hours
func (s *ImporterService) SaveDraft(ctx context.Context, draft *ImportDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("import:draft:%s", draft.ID)
	if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a parked extraction result
func (s *ImporterService) GetDraft(ctx context.Context, id string) (*ImportDraft, error) {
	key := fmt.Sprintf("import:draft:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft ImportDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// UpdateDraft replaces a parked extraction result, refreshing its TTL
func (s *ImporterService) UpdateDraft(ctx context.Context, draft *ImportDraft) error {
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("import:draft:%s", draft.ID)
	if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to update draft in Redis: %w", err)
	}
	return nil
}

// DeleteDraft discards a parked extraction result
func (s *ImporterService) DeleteDraft(ctx context.Context, id string) error {
	key := fmt.Sprintf("import:draft:%s", id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
