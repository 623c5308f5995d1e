package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetNotifications = "success get notifications"
	MessageSuccessMarkRead         = "notification marked as read"
	MessageSuccessMarkAllRead      = "all notifications marked as read"
	MessageSuccessUnreadCount      = "success get unread count"

	MessageFailedGetNotifications = "failed to get notifications"
	MessageFailedMarkRead         = "failed to mark notification as read"
	MessageFailedMarkAllRead      = "failed to mark notifications as read"
	MessageFailedUnreadCount      = "failed to get unread count"

	ErrNotificationNotFound = errors.New("notification not found")
)

// Notification kinds.
const (
	NotificationReportReceived  = "report_received"
	NotificationReportResolved  = "report_resolved"
	NotificationContentRemoved  = "content_removed"
	NotificationContentHidden   = "content_hidden"
	NotificationContentRestored = "content_restored"
	NotificationWarningIssued   = "warning_issued"
	NotificationFollowRequest   = "follow_request"
	NotificationCommentReply    = "comment_reply"
	NotificationRecipeRated     = "recipe_rated"
	NotificationGeneral         = "general"
)

// TargetFollowRequest marks a notification whose target is a follow request
// rather than reported content.
const TargetFollowRequest = "follow_request"

type (
	NotificationResponse struct {
		ID         string    `json:"id"`
		Type       string    `json:"type"`
		Title      string    `json:"title"`
		Message    string    `json:"message"`
		TargetType string    `json:"target_type,omitempty"`
		TargetID   string    `json:"target_id,omitempty"`
		ActionURL  string    `json:"action_url,omitempty"`
		IsRead     bool      `json:"is_read"`
		CreatedAt  time.Time `json:"created_at"`
	}

	UnreadCountResponse struct {
		Count int64 `json:"count"`
	}
)
