package recipe

import (
	"context"
	"strings"
	"time"

	"tastebook/domain"
	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Viewer identifies the acting principal for visibility scoping. A nil ID is
// an anonymous visitor.
type Viewer struct {
	ID      *uuid.UUID
	IsStaff bool
}

func ViewerFromID(id uuid.UUID, isStaff bool) Viewer {
	return Viewer{ID: &id, IsStaff: isStaff}
}

func AnonymousViewer() Viewer {
	return Viewer{}
}

// ListQuery carries the repository-level dashboard filters. Diet and rating
// filters are applied by the service after fetching.
type ListQuery struct {
	MealTypes       []string
	TimeMin         int
	TimeMax         int // -1 means unbounded
	Search          string
	FollowingOnly   bool
	ExcludeAuthorID *uuid.UUID
	AuthorID        *uuid.UUID
}

// RecipeWithStats is a recipe row joined with its rating aggregate.
type RecipeWithStats struct {
	entities.Recipe
	AvgStars  float64 `gorm:"column:avg_stars"`
	RatingCnt int64   `gorm:"column:rating_cnt"`
}

type (
	RecipeRepository interface {
		Create(ctx context.Context, recipe *entities.Recipe) error
		Update(ctx context.Context, recipe *entities.Recipe) error
		Delete(ctx context.Context, id string) error
		GetByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetWithStats(ctx context.Context, id string) (*RecipeWithStats, error)
		GetVisible(ctx context.Context, viewer Viewer, query ListQuery) ([]RecipeWithStats, error)
		IsVisible(ctx context.Context, recipeID string, viewer Viewer) (bool, error)
		SetHidden(ctx context.Context, id string, hidden bool) error
		IncrementViews(ctx context.Context, id string) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) Update(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// Delete removes the recipe and its owned rows. Reports targeting the recipe
// are kept; they carry a denormalized title for exactly this case.
func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Rating{}).Error; err != nil {
			return err
		}
		// Pending reports against the recipe or its comments lose their
		// target here; resolved ones stay for the audit trail.
		commentIDs := tx.Model(&entities.Comment{}).Select("id").Where("recipe_id = ?", id)
		if err := tx.Where("status = ? AND target_type = ? AND target_id IN (?)",
			domain.ReportStatusPending, domain.TargetComment, commentIDs).
			Delete(&entities.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("status = ? AND target_type = ? AND target_id = ?",
			domain.ReportStatusPending, domain.TargetRecipe, id).
			Delete(&entities.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.PlannedMeal{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetWithStats(ctx context.Context, id string) (*RecipeWithStats, error) {
	var result RecipeWithStats
	err := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Select("recipes.*, COALESCE(AVG(ratings.stars), 0) AS avg_stars, COUNT(ratings.id) AS rating_cnt").
		Joins("LEFT JOIN ratings ON ratings.recipe_id = recipes.id").
		Where("recipes.id = ?", id).
		Group("recipes.id").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// visibleScope is the single authoritative visibility predicate. Every
// listing below goes through it.
func (r *recipeRepository) visibleScope(db *gorm.DB, viewer Viewer) *gorm.DB {
	db = db.Joins("JOIN users ON users.id = recipes.author_id")

	if viewer.ID == nil {
		return db.Where("users.is_private = ? AND recipes.is_hidden = ?", false, false)
	}

	db = db.Where(
		"recipes.author_id = ? OR users.is_private = ? OR recipes.author_id IN (?)",
		*viewer.ID, false,
		r.db.Model(&entities.Follow{}).Select("following_id").Where("follower_id = ?", *viewer.ID),
	)

	if !viewer.IsStaff {
		db = db.Where("recipes.is_hidden = ? OR recipes.author_id = ?", false, *viewer.ID)
	}
	return db
}

func (r *recipeRepository) GetVisible(ctx context.Context, viewer Viewer, query ListQuery) ([]RecipeWithStats, error) {
	db := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Select("recipes.*, COALESCE(AVG(ratings.stars), 0) AS avg_stars, COUNT(ratings.id) AS rating_cnt").
		Joins("LEFT JOIN ratings ON ratings.recipe_id = recipes.id")

	db = r.visibleScope(db, viewer)

	if len(query.MealTypes) > 0 {
		clause := r.db.Where("recipes.meal_types LIKE ?", "%"+query.MealTypes[0]+"%")
		for _, mealType := range query.MealTypes[1:] {
			clause = clause.Or("recipes.meal_types LIKE ?", "%"+mealType+"%")
		}
		db = db.Where(clause)
	}
	if query.TimeMin > 0 {
		db = db.Where("recipes.time_minutes >= ?", query.TimeMin)
	}
	if query.TimeMax >= 0 {
		db = db.Where("recipes.time_minutes <= ?", query.TimeMax)
	}
	if query.Search != "" {
		db = db.Where("LOWER(recipes.title) LIKE ?", "%"+strings.ToLower(query.Search)+"%")
	}
	if query.FollowingOnly && viewer.ID != nil {
		db = db.Where("recipes.author_id IN (?)",
			r.db.Model(&entities.Follow{}).Select("following_id").Where("follower_id = ?", *viewer.ID))
	}
	if query.ExcludeAuthorID != nil {
		db = db.Where("recipes.author_id <> ?", *query.ExcludeAuthorID)
	}
	if query.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *query.AuthorID)
	}

	var results []RecipeWithStats
	err := db.Group("recipes.id").Find(&results).Error
	return results, err
}

func (r *recipeRepository) IsVisible(ctx context.Context, recipeID string, viewer Viewer) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("recipes.id = ?", recipeID)
	err := r.visibleScope(db, viewer).Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	return r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).Error
}

func (r *recipeRepository) IncrementViews(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_views":    gorm.Expr("total_views + 1"),
			"last_viewed_at": &now,
		}).Error
}
