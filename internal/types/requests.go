package types

// IngredientInput is one ingredient line in a recipe payload.
type IngredientInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category" binding:"required"`
	PrepTime    int               `json:"prep_time" binding:"min=0"`
	CookTime    int               `json:"cook_time" binding:"min=0"`
	Servings    int               `json:"servings" binding:"min=1"`
	Ingredients []IngredientInput `json:"ingredients" binding:"required"`
	Steps       []string          `json:"steps" binding:"required"`
	ImageURL    string            `json:"image_url"`
	ImageHint   string            `json:"image_hint"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Updates are full-record replaces; there is no field-level patch.
type UpdateRecipeRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category" binding:"required"`
	PrepTime    int               `json:"prep_time" binding:"min=0"`
	CookTime    int               `json:"cook_time" binding:"min=0"`
	Servings    int               `json:"servings" binding:"min=1"`
	Ingredients []IngredientInput `json:"ingredients" binding:"required"`
	Steps       []string          `json:"steps" binding:"required"`
	ImageURL    string            `json:"image_url"`
	ImageHint   string            `json:"image_hint"`
}

// PlanMealRequest adds or removes one recipe assignment on the calendar.
type PlanMealRequest struct {
	Date     string  `json:"date" binding:"required"`
	Meal     string  `json:"meal" binding:"required"`
	RecipeID string  `json:"recipe_id" binding:"required"`
	MealType string  `json:"meal_type" binding:"required"`
	EventID  *string `json:"event_id,omitempty"`
}

// CreateEventRequest represents the request body for creating a planned event
type CreateEventRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	Duration  int    `json:"duration" binding:"required,min=1"`
}

// UpdateEventRequest replaces an event's mutable fields by id.
type UpdateEventRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	Duration  int    `json:"duration" binding:"required,min=1"`
}
