package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/notification"
	"tastebook/pkg/recipe"
	"tastebook/pkg/user"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type (
	CommentService interface {
		AddComment(ctx context.Context, userID string, req domain.AddCommentRequest) (domain.CommentResponse, error)
		DeleteComment(ctx context.Context, actorID, commentID string, isStaff bool) error
		GetComments(ctx context.Context, recipeID string, viewer recipe.Viewer) ([]domain.CommentResponse, error)
	}

	commentService struct {
		commentRepository   CommentRepository
		recipeRepository    recipe.RecipeRepository
		userRepository      user.UserRepository
		notificationService notification.NotificationService
		sanitizer           *bluemonday.Policy
	}
)

func NewCommentService(
	commentRepository CommentRepository,
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
	notificationService notification.NotificationService,
) CommentService {
	return &commentService{
		commentRepository:   commentRepository,
		recipeRepository:    recipeRepository,
		userRepository:      userRepository,
		notificationService: notificationService,
		sanitizer:           bluemonday.StrictPolicy(),
	}
}

func (s *commentService) AddComment(ctx context.Context, userID string, req domain.AddCommentRequest) (domain.CommentResponse, error) {
	text := strings.TrimSpace(s.sanitizer.Sanitize(req.Text))
	if text == "" {
		return domain.CommentResponse{}, domain.ErrEmptyComment
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CommentResponse{}, domain.ErrParseUUID
	}

	target, err := s.recipeRepository.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CommentResponse{}, domain.ErrRecipeNotFound
		}
		return domain.CommentResponse{}, err
	}

	visible, err := s.recipeRepository.IsVisible(ctx, req.RecipeID, recipe.ViewerFromID(userUUID, false))
	if err != nil {
		return domain.CommentResponse{}, err
	}
	if !visible {
		return domain.CommentResponse{}, domain.ErrRecipeNotFound
	}

	var parentID *uuid.UUID
	depth := 0
	if req.ParentID != "" {
		parent, err := s.commentRepository.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.CommentResponse{}, domain.ErrCommentNotFound
			}
			return domain.CommentResponse{}, err
		}
		if parent.RecipeID != target.ID {
			return domain.CommentResponse{}, domain.ErrParentMismatch
		}
		parentID = &parent.ID

		// Depth is the length of the ancestor chain, so the response matches
		// what a later tree read reports.
		depth = 1
		for ancestor := parent; ancestor.ParentID != nil; {
			ancestor, err = s.commentRepository.GetByID(ctx, ancestor.ParentID.String())
			if err != nil {
				return domain.CommentResponse{}, err
			}
			depth++
		}
	}

	newComment := &entities.Comment{
		ID:        uuid.New(),
		RecipeID:  target.ID,
		UserID:    userUUID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepository.Create(ctx, newComment); err != nil {
		return domain.CommentResponse{}, err
	}

	if target.AuthorID != userUUID {
		commenter, err := s.userRepository.GetByID(ctx, userID)
		if err == nil {
			s.notificationService.Emit(ctx,
				notification.NewCommentReplyNotification(target.AuthorID, commenter.Handle, target))
		}
	}

	response := toCommentResponse(newComment, false)
	response.Depth = depth
	return response, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actorID, commentID string, isStaff bool) error {
	existing, err := s.commentRepository.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCommentNotFound
		}
		return err
	}

	if existing.UserID.String() != actorID && !isStaff {
		return domain.ErrUserNotAllowed
	}

	return s.commentRepository.DeleteWithReplies(ctx, existing.ID)
}

// GetComments returns the recipe's comment tree: top-level comments by
// created_at ascending, replies grouped under their parent. Hidden comments
// keep their position but show a placeholder to everyone except their author
// and staff.
func (s *commentService) GetComments(ctx context.Context, recipeID string, viewer recipe.Viewer) ([]domain.CommentResponse, error) {
	visible, err := s.recipeRepository.IsVisible(ctx, recipeID, viewer)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.ErrRecipeNotFound
	}

	comments, err := s.commentRepository.GetByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]*entities.Comment)
	var roots []*entities.Comment
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(c *entities.Comment, depth int) domain.CommentResponse
	build = func(c *entities.Comment, depth int) domain.CommentResponse {
		masked := c.IsHidden && !viewer.IsStaff &&
			(viewer.ID == nil || *viewer.ID != c.UserID)
		response := toCommentResponse(c, masked)
		response.Depth = depth
		for _, child := range children[c.ID] {
			response.Replies = append(response.Replies, build(child, depth+1))
		}
		return response
	}

	result := make([]domain.CommentResponse, 0, len(roots))
	for _, root := range roots {
		result = append(result, build(root, 0))
	}
	return result, nil
}

func toCommentResponse(c *entities.Comment, masked bool) domain.CommentResponse {
	response := domain.CommentResponse{
		ID:        c.ID.String(),
		RecipeID:  c.RecipeID.String(),
		UserID:    c.UserID.String(),
		Text:      c.Text,
		IsHidden:  c.IsHidden,
		CreatedAt: c.CreatedAt,
	}
	if masked {
		response.Text = domain.HiddenCommentPlaceholder
	}
	if c.ParentID != nil {
		response.ParentID = c.ParentID.String()
	}
	if c.User != nil {
		response.UserHandle = c.User.Handle
	}
	return response
}
