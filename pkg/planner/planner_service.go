package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/recipe"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var slotOrder = map[string]int{
	domain.MealTypeBreakfast: 0,
	domain.MealTypeLunch:     1,
	domain.MealTypeDinner:    2,
	domain.MealTypeSnack:     3,
}

type (
	PlannerService interface {
		AddToPlan(ctx context.Context, userID string, req domain.AddToPlanRequest) (domain.PlannedMealResponse, error)
		RemoveFromPlan(ctx context.Context, userID, mealID string) error
		RangeView(ctx context.Context, userID, start, end string) ([]domain.PlannedDayView, error)
		Events(ctx context.Context, userID, start, end string) ([]domain.PlannerEvent, error)
		IngredientsAggregate(ctx context.Context, userID, start, end string) ([]string, error)
	}

	plannerService struct {
		plannerRepository PlannerRepository
		recipeRepository  recipe.RecipeRepository
	}
)

func NewPlannerService(
	plannerRepository PlannerRepository,
	recipeRepository recipe.RecipeRepository,
) PlannerService {
	return &plannerService{
		plannerRepository: plannerRepository,
		recipeRepository:  recipeRepository,
	}
}

// AddToPlan plans a visible recipe into a (date, slot). Exact duplicates are
// absorbed by the uniqueness rule; the response reports whether a new meal
// was created.
func (s *plannerService) AddToPlan(ctx context.Context, userID string, req domain.AddToPlanRequest) (domain.PlannedMealResponse, error) {
	if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		return domain.PlannedMealResponse{}, domain.ErrInvalidDate
	}
	if _, ok := slotOrder[req.Slot]; !ok {
		return domain.PlannedMealResponse{}, domain.ErrInvalidSlot
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.PlannedMealResponse{}, domain.ErrParseUUID
	}

	visible, err := s.recipeRepository.IsVisible(ctx, req.RecipeID, recipe.ViewerFromID(userUUID, false))
	if err != nil {
		return domain.PlannedMealResponse{}, err
	}
	if !visible {
		return domain.PlannedMealResponse{}, domain.ErrRecipeNotVisible
	}

	target, err := s.recipeRepository.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PlannedMealResponse{}, domain.ErrRecipeNotFound
		}
		return domain.PlannedMealResponse{}, err
	}

	day, err := s.plannerRepository.UpsertDay(ctx, userUUID, req.Date)
	if err != nil {
		return domain.PlannedMealResponse{}, err
	}

	meal := &entities.PlannedMeal{
		ID:           uuid.New(),
		PlannedDayID: day.ID,
		Slot:         req.Slot,
		RecipeID:     target.ID,
		CreatedAt:    time.Now(),
	}
	created, err := s.plannerRepository.UpsertMeal(ctx, meal)
	if err != nil {
		return domain.PlannedMealResponse{}, err
	}

	return domain.PlannedMealResponse{
		ID:          meal.ID.String(),
		Date:        req.Date,
		Slot:        req.Slot,
		RecipeID:    target.ID.String(),
		RecipeTitle: target.Title,
		Created:     created,
	}, nil
}

// RemoveFromPlan deletes the caller's planned meal. Removing an
// already-removed meal is not an error.
func (s *plannerService) RemoveFromPlan(ctx context.Context, userID, mealID string) error {
	meal, err := s.plannerRepository.GetMealByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if meal.PlannedDay == nil || meal.PlannedDay.UserID.String() != userID {
		return domain.ErrUserNotAllowed
	}

	return s.plannerRepository.DeleteMeal(ctx, meal.ID)
}

// RangeView produces one entry per date in [start, end], every planner slot
// present even when empty. A reversed range is swapped, not rejected.
func (s *plannerService) RangeView(ctx context.Context, userID, start, end string) ([]domain.PlannedDayView, error) {
	startDate, endDate, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		startDate, endDate = endDate, startDate
	}

	meals, err := s.plannerRepository.GetMealsInRange(ctx, userID,
		startDate.Format(domain.DateLayout), endDate.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]entities.PlannedMeal)
	for _, meal := range meals {
		if meal.PlannedDay == nil {
			continue
		}
		byDate[meal.PlannedDay.Date] = append(byDate[meal.PlannedDay.Date], meal)
	}

	today := time.Now().Format(domain.DateLayout)
	var views []domain.PlannedDayView
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format(domain.DateLayout)
		slots := make(map[string][]domain.PlannedMealResponse, len(domain.PlannerSlots))
		for _, slot := range domain.PlannerSlots {
			slots[slot] = []domain.PlannedMealResponse{}
		}
		for _, meal := range byDate[date] {
			slots[meal.Slot] = append(slots[meal.Slot], toMealResponse(meal, date))
		}
		views = append(views, domain.PlannedDayView{
			Date:    date,
			Slots:   slots,
			IsToday: date == today,
		})
	}
	return views, nil
}

// Events flattens planned meals into calendar event objects. Empty bounds
// cover the whole plan.
func (s *plannerService) Events(ctx context.Context, userID, start, end string) ([]domain.PlannerEvent, error) {
	if start == "" {
		start = "0001-01-01"
	} else if _, err := time.Parse(domain.DateLayout, start); err != nil {
		return nil, domain.ErrInvalidDate
	}
	if end == "" {
		end = "9999-12-31"
	} else if _, err := time.Parse(domain.DateLayout, end); err != nil {
		return nil, domain.ErrInvalidDate
	}

	meals, err := s.plannerRepository.GetMealsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	sortMeals(meals)

	var events []domain.PlannerEvent
	for _, meal := range meals {
		if meal.PlannedDay == nil || meal.Recipe == nil {
			continue
		}
		events = append(events, domain.PlannerEvent{
			Title: fmt.Sprintf("%s: %s", meal.Slot, meal.Recipe.Title),
			Date:  meal.PlannedDay.Date,
			URL:   fmt.Sprintf("/planner/day/%s", meal.PlannedDay.Date),
		})
	}
	return events, nil
}

// IngredientsAggregate concatenates ingredient lines across the range,
// preserving meal order (date ascending, then canonical slot order) and
// duplicates. Blank lines are dropped; no quantity parsing happens here.
func (s *plannerService) IngredientsAggregate(ctx context.Context, userID, start, end string) ([]string, error) {
	startDate, endDate, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, domain.ErrInvalidDateRange
	}

	meals, err := s.plannerRepository.GetMealsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	sortMeals(meals)

	var lines []string
	for _, meal := range meals {
		if meal.Recipe == nil {
			continue
		}
		lines = append(lines, recipe.SplitLines(meal.Recipe.Ingredients)...)
	}
	return lines, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	endDate, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	return startDate, endDate, nil
}

func sortMeals(meals []entities.PlannedMeal) {
	sort.SliceStable(meals, func(i, j int) bool {
		di, dj := "", ""
		if meals[i].PlannedDay != nil {
			di = meals[i].PlannedDay.Date
		}
		if meals[j].PlannedDay != nil {
			dj = meals[j].PlannedDay.Date
		}
		if di != dj {
			return di < dj
		}
		return slotOrder[meals[i].Slot] < slotOrder[meals[j].Slot]
	})
}

func toMealResponse(meal entities.PlannedMeal, date string) domain.PlannedMealResponse {
	response := domain.PlannedMealResponse{
		ID:       meal.ID.String(),
		Date:     date,
		Slot:     meal.Slot,
		RecipeID: meal.RecipeID.String(),
	}
	if meal.Recipe != nil {
		response.RecipeTitle = meal.Recipe.Title
	}
	return response
}
