package comment

import (
	"context"

	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CommentRepository interface {
		Create(ctx context.Context, comment *entities.Comment) error
		GetByID(ctx context.Context, id string) (*entities.Comment, error)
		GetByRecipe(ctx context.Context, recipeID string) ([]entities.Comment, error)
		DeleteWithReplies(ctx context.Context, id uuid.UUID) error
		SetHidden(ctx context.Context, id string, hidden bool) error
	}

	commentRepository struct {
		db *gorm.DB
	}
)

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetByRecipe(ctx context.Context, recipeID string) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

// DeleteWithReplies removes the comment and every descendant, walking the
// parent chain level by level inside one transaction.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return DeleteTreeTx(tx, id)
	})
}

// DeleteTreeTx removes the comment and every descendant on the caller's
// transaction. Moderation deletes run this inside their own transaction.
func DeleteTreeTx(tx *gorm.DB, id uuid.UUID) error {
	frontier := []uuid.UUID{id}
	toDelete := []uuid.UUID{id}

	for len(frontier) > 0 {
		var children []entities.Comment
		if err := tx.Where("parent_id IN (?)", frontier).Find(&children).Error; err != nil {
			return err
		}
		frontier = frontier[:0]
		for _, child := range children {
			frontier = append(frontier, child.ID)
			toDelete = append(toDelete, child.ID)
		}
	}

	return tx.Where("id IN (?)", toDelete).Delete(&entities.Comment{}).Error
}

func (r *commentRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	return r.db.WithContext(ctx).Model(&entities.Comment{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).Error
}
