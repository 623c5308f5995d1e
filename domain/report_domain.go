package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSubmitReport   = "report submitted successfully"
	MessageSuccessResolve        = "report resolved successfully"
	MessageSuccessBulkResolve    = "reports resolved successfully"
	MessageSuccessGetReports     = "success get reports"
	MessageSuccessRestoreContent = "content restored successfully"

	MessageFailedSubmitReport   = "failed to submit report"
	MessageFailedResolve        = "failed to resolve report"
	MessageFailedBulkResolve    = "failed to resolve reports"
	MessageFailedGetReports     = "failed to get reports"
	MessageFailedRestoreContent = "failed to restore content"

	ErrReportNotFound   = errors.New("report not found")
	ErrAlreadyReported  = errors.New("you have already reported this content")
	ErrOwnContentReport = errors.New("cannot report your own content")
	ErrStaffReporter    = errors.New("staff accounts cannot submit reports")
	ErrInvalidReason    = errors.New("unknown report reason")
	ErrInvalidTarget    = errors.New("unknown report target type")
	ErrInvalidAction    = errors.New("unknown resolution action")
	ErrReportNotPending = errors.New("report is no longer pending")
)

// Report target types.
const (
	TargetRecipe  = "recipe"
	TargetComment = "comment"
)

// Report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewing = "reviewing"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Resolution actions.
const (
	ActionNone      = "none"
	ActionDismissed = "dismissed"
	ActionHidden    = "hidden"
	ActionDeleted   = "deleted"
	ActionWarned    = "warned"
	ActionBanned    = "banned"
)

var ReportReasons = []string{
	"spam", "inappropriate", "harassment", "offensive",
	"copyright", "misinformation", "other",
}

// Pending-report counts at which a target hides itself without admin action.
const (
	RecipeAutoHideThreshold  = 5
	CommentAutoHideThreshold = 3
)

// AutoHideReason is the message attached to the author notification when a
// threshold trips.
const AutoHideReason = "Multiple user reports — pending admin review"

type (
	SubmitReportRequest struct {
		TargetType  string `json:"target_type" validate:"required"`
		TargetID    string `json:"target_id" validate:"required,uuid"`
		Reason      string `json:"reason" validate:"required"`
		Description string `json:"description"`
	}

	ResolveReportRequest struct {
		Action string `json:"action" validate:"required"`
		Notes  string `json:"notes"`
	}

	BulkResolveRequest struct {
		ReportIDs []string `json:"report_ids" validate:"required,min=1,dive,uuid"`
		Action    string   `json:"action" validate:"required"`
		Notes     string   `json:"notes"`
	}

	RestoreContentRequest struct {
		TargetType string `json:"target_type" validate:"required"`
		TargetID   string `json:"target_id" validate:"required,uuid"`
	}

	ReportResponse struct {
		ID          string     `json:"id"`
		ReporterID  string     `json:"reporter_id"`
		TargetType  string     `json:"target_type"`
		TargetID    string     `json:"target_id"`
		TargetTitle string     `json:"target_title,omitempty"`
		Reason      string     `json:"reason"`
		Description string     `json:"description,omitempty"`
		Status      string     `json:"status"`
		Action      string     `json:"action"`
		ReviewerID  string     `json:"reviewer_id,omitempty"`
		ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
		Notes       string     `json:"notes,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}
)
