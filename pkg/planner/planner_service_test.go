package planner

import (
	"context"
	"testing"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/recipe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
		&entities.Recipe{},
		&entities.PlannedDay{},
		&entities.PlannedMeal{},
	))
	return db
}

func newService(t *testing.T) (PlannerService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	service := NewPlannerService(NewPlannerRepository(db), recipe.NewRecipeRepository(db))
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, handle string, private bool) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     handle[1:] + "@example.com",
		Password:  "irrelevant",
		IsPrivate: private,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, title, ingredients string) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       title,
		Ingredients: ingredients,
		TimeMinutes: 30,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestAddToPlanIsIdempotent(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	target := seedRecipe(t, db, owner, "Pancakes", "eggs\nmilk")

	req := domain.AddToPlanRequest{Date: "2024-03-01", Slot: "breakfast", RecipeID: target.ID.String()}

	first, err := service.AddToPlan(ctx, owner.ID.String(), req)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := service.AddToPlan(ctx, owner.ID.String(), req)
	require.NoError(t, err)
	require.False(t, second.Created)

	var days, meals int64
	require.NoError(t, db.Model(&entities.PlannedDay{}).Count(&days).Error)
	require.NoError(t, db.Model(&entities.PlannedMeal{}).Count(&meals).Error)
	require.EqualValues(t, 1, days)
	require.EqualValues(t, 1, meals)
}

func TestAddToPlanRequiresVisibility(t *testing.T) {
	service, db := newService(t)

	private := seedUser(t, db, "@private", true)
	planner := seedUser(t, db, "@planner", false)
	hiddenFromPlanner := seedRecipe(t, db, private, "Secret stew", "beef")

	_, err := service.AddToPlan(context.Background(), planner.ID.String(),
		domain.AddToPlanRequest{Date: "2024-03-01", Slot: "dinner", RecipeID: hiddenFromPlanner.ID.String()})
	require.ErrorIs(t, err, domain.ErrRecipeNotVisible)
}

func TestAddToPlanValidation(t *testing.T) {
	service, db := newService(t)
	owner := seedUser(t, db, "@owner", false)
	target := seedRecipe(t, db, owner, "Pancakes", "eggs")

	_, err := service.AddToPlan(context.Background(), owner.ID.String(),
		domain.AddToPlanRequest{Date: "03/01/2024", Slot: "breakfast", RecipeID: target.ID.String()})
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = service.AddToPlan(context.Background(), owner.ID.String(),
		domain.AddToPlanRequest{Date: "2024-03-01", Slot: "dessert", RecipeID: target.ID.String()})
	require.ErrorIs(t, err, domain.ErrInvalidSlot)
}

func TestRemoveFromPlanIsIdempotent(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	other := seedUser(t, db, "@other", false)
	target := seedRecipe(t, db, owner, "Pancakes", "eggs")

	planned, err := service.AddToPlan(ctx, owner.ID.String(),
		domain.AddToPlanRequest{Date: "2024-03-01", Slot: "breakfast", RecipeID: target.ID.String()})
	require.NoError(t, err)

	// Only the plan owner may remove.
	err = service.RemoveFromPlan(ctx, other.ID.String(), planned.ID)
	require.ErrorIs(t, err, domain.ErrUserNotAllowed)

	require.NoError(t, service.RemoveFromPlan(ctx, owner.ID.String(), planned.ID))
	require.NoError(t, service.RemoveFromPlan(ctx, owner.ID.String(), planned.ID))
}

func TestRangeViewCoversEveryDayAndSlot(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	target := seedRecipe(t, db, owner, "Pancakes", "eggs")

	_, err := service.AddToPlan(ctx, owner.ID.String(),
		domain.AddToPlanRequest{Date: "2024-03-02", Slot: "lunch", RecipeID: target.ID.String()})
	require.NoError(t, err)

	// Reversed bounds are swapped, not rejected.
	views, err := service.RangeView(ctx, owner.ID.String(), "2024-03-03", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, views, 3)

	for _, view := range views {
		require.Len(t, view.Slots, len(domain.PlannerSlots))
		for _, slot := range domain.PlannerSlots {
			require.Contains(t, view.Slots, slot)
		}
	}
	require.Equal(t, "2024-03-01", views[0].Date)
	require.Len(t, views[1].Slots["lunch"], 1)
	require.Equal(t, "Pancakes", views[1].Slots["lunch"][0].RecipeTitle)
}

func TestEventsTitleAndURL(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	target := seedRecipe(t, db, owner, "Pancakes", "eggs")

	_, err := service.AddToPlan(ctx, owner.ID.String(),
		domain.AddToPlanRequest{Date: "2024-03-01", Slot: "breakfast", RecipeID: target.ID.String()})
	require.NoError(t, err)

	events, err := service.Events(ctx, owner.ID.String(), "", "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "breakfast: Pancakes", events[0].Title)
	require.Equal(t, "2024-03-01", events[0].Date)
	require.Equal(t, "/planner/day/2024-03-01", events[0].URL)
}

func TestIngredientsAggregateOrderAndBlanks(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	breakfast := seedRecipe(t, db, owner, "Scramble", "eggs\nmilk")
	lunch := seedRecipe(t, db, owner, "Sandwich", "bread")
	dinner := seedRecipe(t, db, owner, "Pasta", "pasta\n\ntomato")

	plans := []domain.AddToPlanRequest{
		{Date: "2024-03-01", Slot: "breakfast", RecipeID: breakfast.ID.String()},
		{Date: "2024-03-01", Slot: "lunch", RecipeID: lunch.ID.String()},
		{Date: "2024-03-02", Slot: "dinner", RecipeID: dinner.ID.String()},
	}
	for _, plan := range plans {
		_, err := service.AddToPlan(ctx, owner.ID.String(), plan)
		require.NoError(t, err)
	}

	lines, err := service.IngredientsAggregate(ctx, owner.ID.String(), "2024-03-01", "2024-03-02")
	require.NoError(t, err)
	require.Equal(t, []string{"eggs", "milk", "bread", "pasta", "tomato"}, lines)
}

func TestIngredientsAggregatePreservesDuplicates(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "@owner", false)
	target := seedRecipe(t, db, owner, "Scramble", "eggs")

	for _, slot := range []string{"breakfast", "dinner"} {
		_, err := service.AddToPlan(ctx, owner.ID.String(),
			domain.AddToPlanRequest{Date: "2024-03-01", Slot: slot, RecipeID: target.ID.String()})
		require.NoError(t, err)
	}

	lines, err := service.IngredientsAggregate(ctx, owner.ID.String(), "2024-03-01", "2024-03-01")
	require.NoError(t, err)
	require.Equal(t, []string{"eggs", "eggs"}, lines)
}

func TestIngredientsAggregateRejectsReversedRange(t *testing.T) {
	service, db := newService(t)
	owner := seedUser(t, db, "@owner", false)

	_, err := service.IngredientsAggregate(context.Background(), owner.ID.String(), "2024-03-02", "2024-03-01")
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
