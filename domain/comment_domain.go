package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddComment    = "comment added successfully"
	MessageSuccessDeleteComment = "comment deleted successfully"
	MessageSuccessGetComments   = "success get comments"

	MessageFailedAddComment    = "failed to add comment"
	MessageFailedDeleteComment = "failed to delete comment"
	MessageFailedGetComments   = "failed to get comments"

	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment text must not be empty")
	ErrParentMismatch  = errors.New("parent comment belongs to a different recipe")
)

// HiddenCommentPlaceholder replaces the text of hidden comments for
// everyone except the comment author and staff.
const HiddenCommentPlaceholder = "[comment hidden]"

type (
	AddCommentRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
		Text     string `json:"text" validate:"required"`
		ParentID string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	}

	CommentResponse struct {
		ID         string            `json:"id"`
		RecipeID   string            `json:"recipe_id"`
		UserID     string            `json:"user_id"`
		UserHandle string            `json:"user_handle,omitempty"`
		ParentID   string            `json:"parent_id,omitempty"`
		Text       string            `json:"text"`
		IsHidden   bool              `json:"is_hidden,omitempty"`
		Depth      int               `json:"depth"`
		CreatedAt  time.Time         `json:"created_at"`
		Replies    []CommentResponse `json:"replies,omitempty"`
	}
)
