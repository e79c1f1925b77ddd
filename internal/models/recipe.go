package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Recipe categories. The application is French-facing, so the enum values
// are the labels the user sees.
const (
	CategoryEntree   = "Entrée"
	CategoryPlat     = "Plat Principal"
	CategoryDessert  = "Dessert"
	CategoryBoisson  = "Boisson"
	CategoryAperitif = "Apéritif"
	CategoryAutre    = "Autre"
)

// Categories lists every valid recipe category.
var Categories = []string{
	CategoryEntree,
	CategoryPlat,
	CategoryDessert,
	CategoryBoisson,
	CategoryAperitif,
	CategoryAutre,
}

// IsValidCategory reports whether c is one of the known recipe categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Ingredient is a single entry of a recipe's ingredient list. Quantity is a
// free-text string ("200g", "1 tasse"); it is never parsed or converted.
// The ID is unique within the owning recipe only.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// IngredientList stores the ordered ingredient list as JSONB.
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
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

	return json.Unmarshal(bytes, l)
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
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

// Recipe is a stored recipe. Ingredients and steps keep their authoring
// order as jsonb arrays.
type Recipe struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"size:50" json:"category"`
	PrepTime    int              `gorm:"not null;default:0" json:"prep_time"`
	CookTime    int              `gorm:"not null;default:0" json:"cook_time"`
	Servings    int              `gorm:"not null;default:1" json:"servings"`
	Ingredients IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	ImageURL    string           `gorm:"size:255" json:"image_url"`
	ImageHint   string           `gorm:"size:100" json:"image_hint"`
	Embedding   pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	UserID      uuid.UUID        `gorm:"type:varchar(36);not null" json:"user_id"`
}

// RecipeSummary is the compact recipe shape handed to the meal-plan
// generator.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// Summarize returns the compact shape used in generation prompts.
func (r *Recipe) Summarize() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
	}
}
