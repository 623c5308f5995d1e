package notification

import (
	"fmt"
	"time"

	"tastebook/domain"
	"tastebook/entities"

	"github.com/google/uuid"
)

// Builders are pure: they map domain inputs to a persistable notification
// row and never touch the database themselves. Transactional callers create
// the returned row inside their own transaction.

func NewFollowRequestNotification(recipient uuid.UUID, fromHandle string, requestID uuid.UUID) entities.Notification {
	return newNotification(recipient, domain.NotificationFollowRequest,
		"New follow request",
		fmt.Sprintf("%s wants to follow you", fromHandle),
		domain.TargetFollowRequest, &requestID, "/social/requests")
}

func NewRecipeRatedNotification(author uuid.UUID, raterHandle string, recipe *entities.Recipe, stars int) entities.Notification {
	return newNotification(author, domain.NotificationRecipeRated,
		"Your recipe was rated",
		fmt.Sprintf("%s rated %q %d stars", raterHandle, recipe.Title, stars),
		domain.TargetRecipe, &recipe.ID, recipeURL(recipe.ID))
}

func NewCommentReplyNotification(author uuid.UUID, commenterHandle string, recipe *entities.Recipe) entities.Notification {
	return newNotification(author, domain.NotificationCommentReply,
		"New comment on your recipe",
		fmt.Sprintf("%s commented on %q", commenterHandle, recipe.Title),
		domain.TargetRecipe, &recipe.ID, recipeURL(recipe.ID))
}

func NewReportReceivedNotification(reporter uuid.UUID, report *entities.Report) entities.Notification {
	return newNotification(reporter, domain.NotificationReportReceived,
		"Report received",
		fmt.Sprintf("Thanks for your report on %q. Our moderators will review it shortly.", report.TargetTitle),
		report.TargetType, &report.TargetID, "")
}

func NewReportResolvedNotification(reporter uuid.UUID, report *entities.Report) entities.Notification {
	return newNotification(reporter, domain.NotificationReportResolved,
		"Your report was reviewed",
		fmt.Sprintf("Your report on %q has been reviewed. Outcome: %s.", report.TargetTitle, report.Action),
		report.TargetType, &report.TargetID, "")
}

func NewContentRemovedNotification(author uuid.UUID, targetType, title, reason string) entities.Notification {
	return newNotification(author, domain.NotificationContentRemoved,
		"Your content was removed",
		fmt.Sprintf("Your %s %q has been removed. Reason: %s", targetType, title, reason),
		targetType, nil, "")
}

func NewContentRestoredNotification(author uuid.UUID, targetType, title string) entities.Notification {
	return newNotification(author, domain.NotificationContentRestored,
		"Your content was restored",
		fmt.Sprintf("Your %s %q is visible again.", targetType, title),
		targetType, nil, "")
}

func NewWarningIssuedNotification(author uuid.UUID, targetType, title string) entities.Notification {
	return newNotification(author, domain.NotificationWarningIssued,
		"Warning issued",
		fmt.Sprintf("A moderator issued a warning about your %s %q. Repeated violations may lead to a ban.", targetType, title),
		targetType, nil, "")
}

func NewGeneralNotification(recipient uuid.UUID, title, message string) entities.Notification {
	return newNotification(recipient, domain.NotificationGeneral, title, message, "", nil, "")
}

func newNotification(recipient uuid.UUID, kind, title, message, targetType string, targetID *uuid.UUID, actionURL string) entities.Notification {
	return entities.Notification{
		ID:          uuid.New(),
		RecipientID: recipient,
		Type:        kind,
		Title:       title,
		Message:     message,
		TargetType:  targetType,
		TargetID:    targetID,
		ActionURL:   actionURL,
		CreatedAt:   time.Now(),
	}
}

func recipeURL(id uuid.UUID) string {
	return fmt.Sprintf("/recipes/%s", id.String())
}
