package planner

import (
	"context"

	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PlannerRepository interface {
		UpsertDay(ctx context.Context, userID uuid.UUID, date string) (*entities.PlannedDay, error)
		UpsertMeal(ctx context.Context, meal *entities.PlannedMeal) (bool, error)
		GetMealByID(ctx context.Context, id string) (*entities.PlannedMeal, error)
		DeleteMeal(ctx context.Context, id uuid.UUID) error
		GetMealsInRange(ctx context.Context, userID string, start, end string) ([]entities.PlannedMeal, error)
	}

	plannerRepository struct {
		db *gorm.DB
	}
)

func NewPlannerRepository(db *gorm.DB) PlannerRepository {
	return &plannerRepository{db: db}
}

// UpsertDay lazily creates the (user, date) day row and returns it.
func (r *plannerRepository) UpsertDay(ctx context.Context, userID uuid.UUID, date string) (*entities.PlannedDay, error) {
	day := entities.PlannedDay{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&day).Error
	if err != nil {
		return nil, err
	}

	var existing entities.PlannedDay
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// UpsertMeal inserts the (day, slot, recipe) row unless it already exists.
// Returns whether a new row was created.
func (r *plannerRepository) UpsertMeal(ctx context.Context, meal *entities.PlannedMeal) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "planned_day_id"}, {Name: "slot"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(meal)
	return result.RowsAffected > 0, result.Error
}

func (r *plannerRepository) GetMealByID(ctx context.Context, id string) (*entities.PlannedMeal, error) {
	var meal entities.PlannedMeal
	err := r.db.WithContext(ctx).Preload("PlannedDay").Preload("Recipe").
		Where("id = ?", id).
		First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *plannerRepository) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.PlannedMeal{}).Error
}

// GetMealsInRange returns the user's planned meals for dates in [start, end]
// inclusive, ordered by date ascending. Slot ordering within a day is the
// caller's concern.
func (r *plannerRepository) GetMealsInRange(ctx context.Context, userID string, start, end string) ([]entities.PlannedMeal, error) {
	var meals []entities.PlannedMeal
	err := r.db.WithContext(ctx).Preload("PlannedDay").Preload("Recipe").
		Joins("JOIN planned_days ON planned_days.id = planned_meals.planned_day_id").
		Where("planned_days.user_id = ? AND planned_days.date >= ? AND planned_days.date <= ?",
			userID, start, end).
		Order("planned_days.date asc").
		Find(&meals).Error
	return meals, err
}
