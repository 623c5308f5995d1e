package recipe

import (
	"context"
	"testing"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils"

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
		&entities.Rating{},
		&entities.Comment{},
		&entities.PlannedDay{},
		&entities.PlannedMeal{},
		&entities.Report{},
	))
	return db
}

func newService(t *testing.T) (RecipeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	service := NewRecipeService(NewRecipeRepository(db), utils.NewViewerWindow(utils.DefaultViewerWindowTTL), nil)
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, handle string, private, staff bool) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     handle[1:] + "@example.com",
		Password:  "irrelevant",
		IsPrivate: private,
		IsStaff:   staff,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

type seedOpts struct {
	title       string
	timeMinutes int
	mealTypes   string
	ingredients string
	hidden      bool
	views       int64
	createdAt   time.Time
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, opts seedOpts) *entities.Recipe {
	t.Helper()
	if opts.timeMinutes == 0 {
		opts.timeMinutes = 30
	}
	if opts.createdAt.IsZero() {
		opts.createdAt = time.Now()
	}
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       opts.title,
		Ingredients: opts.ingredients,
		TimeMinutes: opts.timeMinutes,
		MealTypes:   opts.mealTypes,
		IsHidden:    opts.hidden,
		TotalViews:  opts.views,
		Timestamp:   entities.Timestamp{CreatedAt: opts.createdAt, UpdatedAt: opts.createdAt},
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func follow(t *testing.T, db *gorm.DB, follower, following *entities.User) {
	t.Helper()
	require.NoError(t, db.Create(&entities.Follow{
		ID:          uuid.New(),
		FollowerID:  follower.ID,
		FollowingID: following.ID,
	}).Error)
}

func TestVisibilityResolver(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	public := seedUser(t, db, "@public", false, false)
	private := seedUser(t, db, "@private", true, false)
	follower := seedUser(t, db, "@follower", false, false)
	stranger := seedUser(t, db, "@stranger", false, false)
	staff := seedUser(t, db, "@staff", false, true)
	follow(t, db, follower, private)

	publicRecipe := seedRecipe(t, db, public, seedOpts{title: "Public dish"})
	privateRecipe := seedRecipe(t, db, private, seedOpts{title: "Private dish"})
	hiddenRecipe := seedRecipe(t, db, public, seedOpts{title: "Hidden dish", hidden: true})

	check := func(viewer Viewer, target *entities.Recipe, want bool) {
		t.Helper()
		visible, err := service.IsVisible(ctx, target.ID.String(), viewer)
		require.NoError(t, err)
		require.Equal(t, want, visible)
	}

	// Anonymous visitors see only public, unhidden recipes.
	check(AnonymousViewer(), publicRecipe, true)
	check(AnonymousViewer(), privateRecipe, false)
	check(AnonymousViewer(), hiddenRecipe, false)

	// A private author's recipes open up to accepted followers.
	check(ViewerFromID(follower.ID, false), privateRecipe, true)
	check(ViewerFromID(stranger.ID, false), privateRecipe, false)
	check(ViewerFromID(private.ID, false), privateRecipe, true)

	// Hidden recipes stay visible to their author and staff only.
	check(ViewerFromID(public.ID, false), hiddenRecipe, true)
	check(ViewerFromID(stranger.ID, false), hiddenRecipe, false)
	check(ViewerFromID(staff.ID, true), hiddenRecipe, true)
}

func TestDashboardFiltersAndSortsNewest(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	viewer := seedUser(t, db, "@viewer", false, false)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	times := []int{15, 30, 60, 90, 120}
	for i, minutes := range times {
		seedRecipe(t, db, author, seedOpts{
			title:       "Lunch veg",
			timeMinutes: minutes,
			mealTypes:   "lunch",
			ingredients: "tomato\nbasil",
			createdAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	// Non-vegan and non-lunch decoys inside the time bound.
	seedRecipe(t, db, author, seedOpts{
		title: "Lunch meat", timeMinutes: 20, mealTypes: "lunch", ingredients: "chicken", createdAt: base,
	})
	seedRecipe(t, db, author, seedOpts{
		title: "Vegan dinner", timeMinutes: 20, mealTypes: "dinner", ingredients: "tomato", createdAt: base,
	})
	// The viewer's own recipe never shows on the dashboard.
	seedRecipe(t, db, viewer, seedOpts{
		title: "Mine", timeMinutes: 20, mealTypes: "lunch", ingredients: "tomato", createdAt: base,
	})

	results, err := service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{
		MealTypes:  []string{"lunch"},
		TimeFilter: "under_60",
		Diet:       domain.DietVegan,
		Sort:       domain.SortNewest,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		require.Equal(t, "Lunch veg", result.Title)
		require.LessOrEqual(t, result.TimeMinutes, 60)
	}
	// newest first
	require.Equal(t, 60, results[0].TimeMinutes)
	require.Equal(t, 30, results[1].TimeMinutes)
	require.Equal(t, 15, results[2].TimeMinutes)
}

func TestDashboardRejectsUnknownFilters(t *testing.T) {
	service, db := newService(t)
	viewer := seedUser(t, db, "@viewer", false, false)
	ctx := context.Background()

	_, err := service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{TimeFilter: "under_15"})
	require.ErrorIs(t, err, domain.ErrInvalidTimeFilter)

	_, err = service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{Diet: "carnivore"})
	require.ErrorIs(t, err, domain.ErrInvalidDietFilter)

	_, err = service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{RatingFilter: "5_plus"})
	require.ErrorIs(t, err, domain.ErrInvalidRatingFilter)

	_, err = service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{Sort: "alphabetical"})
	require.ErrorIs(t, err, domain.ErrInvalidSortKey)
}

func TestDashboardSortsByPopularity(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	viewer := seedUser(t, db, "@viewer", false, false)
	raterOne := seedUser(t, db, "@raterone", false, false)
	raterTwo := seedUser(t, db, "@ratertwo", false, false)

	// popularity = rounded_avg * count + 0.1 * views
	wellRated := seedRecipe(t, db, author, seedOpts{title: "Well rated"})
	_ = seedRecipe(t, db, author, seedOpts{title: "Viewed only", views: 50})

	for _, rater := range []*entities.User{raterOne, raterTwo} {
		require.NoError(t, db.Create(&entities.Rating{
			ID:       uuid.New(),
			RecipeID: wellRated.ID,
			UserID:   rater.ID,
			Stars:    5,
		}).Error)
	}

	results, err := service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{Sort: domain.SortPopularity})
	require.NoError(t, err)
	require.Len(t, results, 2)
	// 5*2 = 10 beats 0.1*50 = 5.
	require.Equal(t, "Well rated", results[0].Title)
	require.Equal(t, "Viewed only", results[1].Title)
}

func TestDashboardFollowingOnly(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	followed := seedUser(t, db, "@followed", false, false)
	other := seedUser(t, db, "@other", false, false)
	viewer := seedUser(t, db, "@viewer", false, false)
	follow(t, db, viewer, followed)

	seedRecipe(t, db, followed, seedOpts{title: "From followed"})
	seedRecipe(t, db, other, seedOpts{title: "From other"})

	results, err := service.Dashboard(ctx, viewer.ID.String(), false, domain.DashboardQuery{FollowingOnly: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "From followed", results[0].Title)
}

func TestRecordViewIsIdempotentWithinWindow(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	target := seedRecipe(t, db, author, seedOpts{title: "Counted"})
	viewer := ViewerFromID(author.ID, false)

	for i := 0; i < 3; i++ {
		_, err := service.GetRecipeDetail(ctx, target.ID.String(), viewer, "key-a")
		require.NoError(t, err)
	}
	detail, err := service.GetRecipeDetail(ctx, target.ID.String(), viewer, "key-b")
	require.NoError(t, err)

	require.EqualValues(t, 2, detail.TotalViews)
	require.Equal(t, 2, detail.ActiveViewers)
	require.False(t, detail.IsTrending)
}

func TestGetRecipeDetailHidesInvisible(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	private := seedUser(t, db, "@private", true, false)
	stranger := seedUser(t, db, "@stranger", false, false)
	target := seedRecipe(t, db, private, seedOpts{title: "Secret", ingredients: "eggs\nmilk"})

	_, err := service.GetRecipeDetail(ctx, target.ID.String(), ViewerFromID(stranger.ID, false), "key")
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	detail, err := service.GetRecipeDetail(ctx, target.ID.String(), ViewerFromID(private.ID, false), "key")
	require.NoError(t, err)
	require.Equal(t, []string{"eggs", "milk"}, detail.Ingredients)
	require.Equal(t, domain.DietNonVegetarian, detail.Diet)
}

func TestSurprise(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	seedRecipe(t, db, author, seedOpts{title: "Vegan bowl", ingredients: "rice\nbeans", mealTypes: "dinner"})

	picked, err := service.Surprise(ctx, AnonymousViewer(), domain.SurpriseQuery{Diet: domain.DietVegan})
	require.NoError(t, err)
	require.NotNil(t, picked)
	require.Equal(t, "Vegan bowl", picked.Title)

	// No candidate matches.
	picked, err = service.Surprise(ctx, AnonymousViewer(), domain.SurpriseQuery{Diet: domain.DietNonVegetarian})
	require.NoError(t, err)
	require.Nil(t, picked)
}

func TestCreateAndUpdateRecipe(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	other := seedUser(t, db, "@other", false, false)

	created, err := service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Title:       "  Pancakes  ",
		Ingredients: "flour\r\negg",
		TimeMinutes: 20,
		MealTypes:   []string{"Breakfast"},
	}, author.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Pancakes", created.Title)
	require.Equal(t, []string{"breakfast"}, created.MealTypes)
	require.Equal(t, domain.DietNonVegetarian, created.Diet)

	_, err = service.CreateRecipe(ctx, domain.CreateRecipeRequest{Title: "No time"}, author.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidTime)

	_, err = service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Title: "Bad tag", TimeMinutes: 10, MealTypes: []string{"brunch"},
	}, author.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidMealType)

	_, err = service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Title: "Stolen"}, other.ID.String())
	require.ErrorIs(t, err, domain.ErrNotAuthor)

	updated, err := service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{TimeMinutes: 25}, author.ID.String())
	require.NoError(t, err)
	require.Equal(t, 25, updated.TimeMinutes)
	require.Equal(t, "Pancakes", updated.Title)
}

func TestDeleteRecipeCascades(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false, false)
	rater := seedUser(t, db, "@rater", false, false)
	staff := seedUser(t, db, "@staff", false, true)
	target := seedRecipe(t, db, author, seedOpts{title: "Doomed"})

	require.NoError(t, db.Create(&entities.Rating{
		ID: uuid.New(), RecipeID: target.ID, UserID: rater.ID, Stars: 4,
	}).Error)
	require.NoError(t, db.Create(&entities.Comment{
		ID: uuid.New(), RecipeID: target.ID, UserID: rater.ID, Text: "nice",
	}).Error)

	err := service.DeleteRecipe(ctx, target.ID.String(), rater.ID.String(), false)
	require.ErrorIs(t, err, domain.ErrNotAuthor)

	// Staff may delete content they do not own.
	require.NoError(t, service.DeleteRecipe(ctx, target.ID.String(), staff.ID.String(), true))

	var recipes, ratings, comments int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&entities.Rating{}).Count(&ratings).Error)
	require.NoError(t, db.Model(&entities.Comment{}).Count(&comments).Error)
	require.Zero(t, recipes)
	require.Zero(t, ratings)
	require.Zero(t, comments)
}
