package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessUploadImage     = "recipe image uploaded successfully"
	MessageSuccessSurprise        = "success get surprise recipe"
	MessageNoSurpriseCandidate    = "no recipe matches the given filters"
	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedCreateRecipe     = "failed to create recipe"
	MessageFailedUpdateRecipe     = "failed to update recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedUploadImage      = "failed to upload recipe image"
	MessageFailedSurprise         = "failed to get surprise recipe"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrRecipeNotVisible    = errors.New("recipe not visible to viewer")
	ErrNotAuthor           = errors.New("only the author may modify this recipe")
	ErrInvalidTime         = errors.New("time must be a positive number of minutes")
	ErrInvalidMealType     = errors.New("unknown meal type")
	ErrInvalidTimeFilter   = errors.New("unknown time filter")
	ErrInvalidDietFilter   = errors.New("unknown diet filter")
	ErrInvalidRatingFilter = errors.New("unknown rating filter")
	ErrInvalidSortKey      = errors.New("unknown sort key")
)

// Meal types a recipe may be tagged with. The planner uses the same
// identifiers minus dessert.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
	MealTypeDessert   = "dessert"
)

var RecipeMealTypes = []string{
	MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeDessert,
}

// Diet classification derived from ingredient keywords, never stored.
const (
	DietVegan         = "vegan"
	DietVegetarian    = "veg"
	DietNonVegetarian = "non_veg"
	DietAny           = "any"
)

// Dashboard sort keys.
const (
	SortTime       = "time"
	SortNewest     = "newest"
	SortMostViewed = "most_viewed"
	SortPopularity = "popularity"
)

// TimeFilterRange is an inclusive interval in minutes. Max < 0 means unbounded.
type TimeFilterRange struct {
	Min int
	Max int
}

var TimeFilters = map[string]TimeFilterRange{
	"under_20": {Min: 0, Max: 20},
	"under_30": {Min: 0, Max: 30},
	"under_45": {Min: 0, Max: 45},
	"under_60": {Min: 0, Max: 60},
	"under_90": {Min: 0, Max: 90},
	"over_90":  {Min: 90, Max: -1},
}

// Rating filters over average rating.
var RatingFilters = map[string]float64{
	"3_plus": 3.0,
	"4_plus": 4.0,
}

type (
	CreateRecipeRequest struct {
		Title        string   `json:"title" validate:"required"`
		Description  string   `json:"description"`
		Ingredients  string   `json:"ingredients"`  // newline-separated lines
		Instructions string   `json:"instructions"` // newline-separated lines
		TimeMinutes  int      `json:"time_minutes" validate:"required,gt=0"`
		MealTypes    []string `json:"meal_types"`
		ImageURL     string   `json:"image_url,omitempty"`
	}

	UpdateRecipeRequest struct {
		Title        string   `json:"title,omitempty"`
		Description  string   `json:"description,omitempty"`
		Ingredients  *string  `json:"ingredients,omitempty"`
		Instructions *string  `json:"instructions,omitempty"`
		TimeMinutes  int      `json:"time_minutes,omitempty"`
		MealTypes    []string `json:"meal_types,omitempty"`
	}

	// DashboardQuery carries the optional, conjunctive dashboard filters.
	DashboardQuery struct {
		MealTypes     []string
		TimeFilter    string
		Diet          string
		RatingFilter  string
		Search        string
		FollowingOnly bool
		Sort          string
	}

	// SurpriseQuery reuses the dashboard filters minus sorting.
	SurpriseQuery struct {
		MealTypes  []string
		TimeFilter string
		Diet       string
	}

	RecipeResponse struct {
		ID            string    `json:"id"`
		AuthorID      string    `json:"author_id"`
		AuthorHandle  string    `json:"author_handle,omitempty"`
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		TimeMinutes   int       `json:"time_minutes"`
		MealTypes     []string  `json:"meal_types"`
		Diet          string    `json:"diet"`
		ImageURL      string    `json:"image_url,omitempty"`
		IsHidden      bool      `json:"is_hidden,omitempty"`
		AverageRating float64   `json:"average_rating"`
		RatingCount   int64     `json:"rating_count"`
		TotalViews    int64     `json:"total_views"`
		CreatedAt     time.Time `json:"created_at"`
		UpdatedAt     time.Time `json:"updated_at"`
	}

	RecipeDetailResponse struct {
		RecipeResponse
		Ingredients   []string `json:"ingredients"`
		Instructions  []string `json:"instructions"`
		ActiveViewers int      `json:"active_viewers"`
		IsTrending    bool     `json:"is_trending"`
	}
)
