package domain

import (
	"errors"
)

var (
	MessageSuccessAddToPlan      = "meal planned successfully"
	MessageSuccessRemoveFromPlan = "meal removed from plan"
	MessageSuccessGetPlan        = "success get meal plan"
	MessageSuccessGetEvents      = "success get planner events"
	MessageSuccessGetAggregate   = "success get ingredient list"

	MessageFailedAddToPlan      = "failed to plan meal"
	MessageFailedRemoveFromPlan = "failed to remove meal from plan"
	MessageFailedGetPlan        = "failed to get meal plan"
	MessageFailedGetEvents      = "failed to get planner events"
	MessageFailedGetAggregate   = "failed to get ingredient list"

	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidSlot      = errors.New("unknown planner slot")
)

// Planner slots in canonical order. Dessert is a recipe tag only, never a slot.
var PlannerSlots = []string{
	MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack,
}

// DateLayout is the ISO date format used on all planner boundaries.
const DateLayout = "2006-01-02"

type (
	AddToPlanRequest struct {
		Date     string `json:"date" validate:"required"`
		Slot     string `json:"slot" validate:"required"`
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}

	PlannedMealResponse struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Slot        string `json:"slot"`
		RecipeID    string `json:"recipe_id"`
		RecipeTitle string `json:"recipe_title,omitempty"`
		Created     bool   `json:"created"`
	}

	PlannedDayView struct {
		Date    string                           `json:"date"`
		Slots   map[string][]PlannedMealResponse `json:"slots"`
		IsToday bool                             `json:"is_today"`
	}

	PlannerEvent struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		URL   string `json:"url"`
	}
)
