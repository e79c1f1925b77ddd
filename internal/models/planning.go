package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used throughout planning data.
const DateLayout = "2006-01-02"

// Meal slots: the two daily meal times.
const (
	SlotMidi = "Midi"
	SlotSoir = "Soir"
)

// Courses within a slot.
const (
	CourseAperitif = "Apéritif"
	CourseEntree   = "Entrée"
	CoursePlat     = "Plat Principal"
	CourseDessert  = "Dessert"
)

// Courses lists every valid course label, in serving order.
var Courses = []string{CourseAperitif, CourseEntree, CoursePlat, CourseDessert}

// IsValidSlot reports whether s is Midi or Soir.
func IsValidSlot(s string) bool {
	return s == SlotMidi || s == SlotSoir
}

// IsValidCourse reports whether c is a known course label.
func IsValidCourse(c string) bool {
	for _, known := range Courses {
		if c == known {
			return true
		}
	}
	return false
}

// PlannedRecipe assigns a recipe to a course within a planned meal.
type PlannedRecipe struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	MealType string    `json:"meal_type"`
}

// PlannedRecipeList stores a meal's recipe assignments as JSONB.
type PlannedRecipeList []PlannedRecipe

// Value implements the driver.Valuer interface
func (l PlannedRecipeList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *PlannedRecipeList) Scan(value interface{}) error {
	if value == nil {
		*l = PlannedRecipeList{}
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

// Contains reports whether the (recipeID, mealType) pair is already assigned.
func (l PlannedRecipeList) Contains(recipeID uuid.UUID, mealType string) bool {
	for _, pr := range l {
		if pr.RecipeID == recipeID && pr.MealType == mealType {
			return true
		}
	}
	return false
}

// PlannedMeal holds the recipe assignments for one (date, slot, event)
// triple. The triple is the record's identity: the same date and slot can
// carry independent assignments for different events, and a nil EventID is
// a plain calendar entry outside any event. A PlannedMeal with no recipes
// must not persist; the planning service deletes it as soon as it empties.
type PlannedMeal struct {
	ID        uuid.UUID         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Date      string            `gorm:"size:10;not null;index" json:"date"`
	Meal      string            `gorm:"size:10;not null" json:"meal"`
	Recipes   PlannedRecipeList `gorm:"type:jsonb;not null;default:'[]'" json:"recipes"`
	EventID   *uuid.UUID        `gorm:"type:varchar(36);index" json:"event_id,omitempty"`
}

// PlannedEvent is a named span of days grouping planned meals, e.g. a
// birthday weekend. Deleting an event cascades to its meals.
type PlannedEvent struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	StartDate string    `gorm:"size:10;not null" json:"start_date"`
	Duration  int       `gorm:"not null;default:1" json:"duration"`
}
