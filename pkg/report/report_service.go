package report

import (
	"context"
	"errors"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/comment"
	"tastebook/pkg/notification"
	"tastebook/pkg/recipe"
	"tastebook/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const commentTitleLimit = 60

type (
	ReportService interface {
		SubmitReport(ctx context.Context, reporterID string, req domain.SubmitReportRequest) (domain.ReportResponse, error)
		ResolveReport(ctx context.Context, reviewerID, reportID string, req domain.ResolveReportRequest) (domain.ReportResponse, error)
		BulkResolve(ctx context.Context, reviewerID string, req domain.BulkResolveRequest) ([]domain.ReportResponse, error)
		GetPendingReports(ctx context.Context, limit, offset int) ([]domain.ReportResponse, error)
		RestoreContent(ctx context.Context, reviewerID string, req domain.RestoreContentRequest) error
	}

	reportService struct {
		reportRepository    ReportRepository
		recipeRepository    recipe.RecipeRepository
		commentRepository   comment.CommentRepository
		userRepository      user.UserRepository
		notificationService notification.NotificationService
	}

	// reportTarget is the live content a report points at, resolved fresh on
	// each operation since the target can change or vanish under the report.
	reportTarget struct {
		authorID uuid.UUID
		title    string
		isHidden bool
	}
)

func NewReportService(
	reportRepository ReportRepository,
	recipeRepository recipe.RecipeRepository,
	commentRepository comment.CommentRepository,
	userRepository user.UserRepository,
	notificationService notification.NotificationService,
) ReportService {
	return &reportService{
		reportRepository:    reportRepository,
		recipeRepository:    recipeRepository,
		commentRepository:   commentRepository,
		userRepository:      userRepository,
		notificationService: notificationService,
	}
}

// SubmitReport files a report against a recipe or comment. A duplicate
// (reporter, target) pair fails without touching the pending count, so it can
// never re-trip the auto-hide threshold.
func (s *reportService) SubmitReport(ctx context.Context, reporterID string, req domain.SubmitReportRequest) (domain.ReportResponse, error) {
	reporter, err := s.userRepository.GetByID(ctx, reporterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReportResponse{}, domain.ErrUserNotFound
		}
		return domain.ReportResponse{}, err
	}
	if reporter.IsStaff {
		return domain.ReportResponse{}, domain.ErrStaffReporter
	}

	if !validReason(req.Reason) {
		return domain.ReportResponse{}, domain.ErrInvalidReason
	}
	if req.TargetType != domain.TargetRecipe && req.TargetType != domain.TargetComment {
		return domain.ReportResponse{}, domain.ErrInvalidTarget
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return domain.ReportResponse{}, domain.ErrParseUUID
	}

	target, err := s.resolveTarget(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return domain.ReportResponse{}, err
	}
	if target.authorID == reporter.ID {
		return domain.ReportResponse{}, domain.ErrOwnContentReport
	}

	row := &entities.Report{
		ID:          uuid.New(),
		ReporterID:  reporter.ID,
		TargetType:  req.TargetType,
		TargetID:    targetID,
		TargetTitle: target.title,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      domain.ReportStatusPending,
		Action:      domain.ActionNone,
		CreatedAt:   time.Now(),
	}
	created, err := s.reportRepository.Create(ctx, row)
	if err != nil {
		return domain.ReportResponse{}, err
	}
	if !created {
		return domain.ReportResponse{}, domain.ErrAlreadyReported
	}

	s.notificationService.Emit(ctx, notification.NewReportReceivedNotification(reporter.ID, row))

	if err := s.maybeAutoHide(ctx, row, target); err != nil {
		return domain.ReportResponse{}, err
	}

	return toReportResponse(row), nil
}

// maybeAutoHide hides the target once its pending report count crosses the
// threshold. The not-yet-hidden guard makes the transition, and the author
// notification, fire exactly once per target.
func (s *reportService) maybeAutoHide(ctx context.Context, row *entities.Report, target reportTarget) error {
	if target.isHidden {
		return nil
	}

	count, err := s.reportRepository.CountPending(ctx, row.TargetType, row.TargetID)
	if err != nil {
		return err
	}

	threshold := int64(domain.RecipeAutoHideThreshold)
	if row.TargetType == domain.TargetComment {
		threshold = domain.CommentAutoHideThreshold
	}
	if count < threshold {
		return nil
	}

	if err := s.setTargetHidden(ctx, row.TargetType, row.TargetID.String(), true); err != nil {
		return err
	}
	s.notificationService.Emit(ctx,
		notification.NewContentRemovedNotification(target.authorID, row.TargetType, target.title, domain.AutoHideReason))
	return nil
}

func (s *reportService) ResolveReport(ctx context.Context, reviewerID, reportID string, req domain.ResolveReportRequest) (domain.ReportResponse, error) {
	reviewer, err := s.reviewer(ctx, reviewerID)
	if err != nil {
		return domain.ReportResponse{}, err
	}
	return s.resolveOne(ctx, reviewer, reportID, req.Action, req.Notes)
}

// BulkResolve applies one action to many reports. Each report resolves
// independently; a report that is missing or no longer pending is skipped
// rather than failing the batch.
func (s *reportService) BulkResolve(ctx context.Context, reviewerID string, req domain.BulkResolveRequest) ([]domain.ReportResponse, error) {
	reviewer, err := s.reviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ReportResponse, 0, len(req.ReportIDs))
	for _, reportID := range req.ReportIDs {
		response, err := s.resolveOne(ctx, reviewer, reportID, req.Action, req.Notes)
		if err != nil {
			if errors.Is(err, domain.ErrReportNotFound) || errors.Is(err, domain.ErrReportNotPending) {
				continue
			}
			return nil, err
		}
		resolved = append(resolved, response)
	}
	return resolved, nil
}

// resolveOne transitions one pending report. The report update, the content
// mutation, and every notification commit in a single transaction.
func (s *reportService) resolveOne(ctx context.Context, reviewer *entities.User, reportID, action, notes string) (domain.ReportResponse, error) {
	if !validAction(action) {
		return domain.ReportResponse{}, domain.ErrInvalidAction
	}

	row, err := s.reportRepository.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReportResponse{}, domain.ErrReportNotFound
		}
		return domain.ReportResponse{}, err
	}
	if row.Status != domain.ReportStatusPending {
		return domain.ReportResponse{}, domain.ErrReportNotPending
	}

	target, targetErr := s.resolveTarget(ctx, row.TargetType, row.TargetID.String())
	targetGone := targetErr != nil
	if targetGone && !isNotFound(targetErr) {
		return domain.ReportResponse{}, targetErr
	}
	if !targetGone {
		// Refresh the denormalized title so a later deletion keeps the
		// current one.
		row.TargetTitle = target.title
	}

	now := time.Now()
	row.Status = domain.ReportStatusResolved
	if action == domain.ActionDismissed {
		row.Status = domain.ReportStatusDismissed
	}
	row.Action = action
	row.ReviewerID = &reviewer.ID
	row.ReviewedAt = &now
	row.ResolutionNotes = notes

	err = s.reportRepository.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		if err := s.applyAction(tx, row, target, targetGone); err != nil {
			return err
		}

		reporterNote := notification.NewReportResolvedNotification(row.ReporterID, row)
		if err := tx.Create(&reporterNote).Error; err != nil {
			return err
		}

		if targetGone {
			return nil
		}
		if authorNote, ok := authorNotification(row, target); ok {
			return tx.Create(&authorNote).Error
		}
		return nil
	})
	if err != nil {
		return domain.ReportResponse{}, err
	}

	return toReportResponse(row), nil
}

// applyAction performs the content mutation for the chosen action. A target
// that is already hidden, or already gone, is left alone.
func (s *reportService) applyAction(tx *gorm.DB, row *entities.Report, target reportTarget, targetGone bool) error {
	if targetGone {
		return nil
	}

	switch row.Action {
	case domain.ActionHidden:
		if target.isHidden {
			return nil
		}
		return hideTargetTx(tx, row.TargetType, row.TargetID)
	case domain.ActionDeleted:
		return deleteTargetTx(tx, row.TargetType, row.TargetID)
	default:
		return nil
	}
}

// authorNotification picks the author-facing notification for a resolution.
// The second return is false when the action notifies the reporter only, or
// when a hide resolved against an already-hidden target.
func authorNotification(row *entities.Report, target reportTarget) (entities.Notification, bool) {
	switch row.Action {
	case domain.ActionHidden:
		if target.isHidden {
			return entities.Notification{}, false
		}
		return notification.NewContentRemovedNotification(target.authorID, row.TargetType, row.TargetTitle, row.Reason), true
	case domain.ActionDeleted:
		return notification.NewContentRemovedNotification(target.authorID, row.TargetType, row.TargetTitle, row.Reason), true
	case domain.ActionWarned:
		return notification.NewWarningIssuedNotification(target.authorID, row.TargetType, row.TargetTitle), true
	case domain.ActionBanned:
		return notification.NewGeneralNotification(target.authorID,
			"Account suspended",
			"Your account has been suspended following a moderation review."), true
	default:
		return entities.Notification{}, false
	}
}

func (s *reportService) GetPendingReports(ctx context.Context, limit, offset int) ([]domain.ReportResponse, error) {
	rows, err := s.reportRepository.GetPending(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.ReportResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, toReportResponse(&rows[i]))
	}
	return responses, nil
}

// RestoreContent lifts a hide set by auto-hide or an admin resolution and
// tells the author with a content_restored notification. Restoring content
// that is already visible is a no-op.
func (s *reportService) RestoreContent(ctx context.Context, reviewerID string, req domain.RestoreContentRequest) error {
	if _, err := s.reviewer(ctx, reviewerID); err != nil {
		return err
	}
	if req.TargetType != domain.TargetRecipe && req.TargetType != domain.TargetComment {
		return domain.ErrInvalidTarget
	}

	target, err := s.resolveTarget(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return err
	}
	if !target.isHidden {
		return nil
	}

	if err := s.setTargetHidden(ctx, req.TargetType, req.TargetID, false); err != nil {
		return err
	}
	s.notificationService.Emit(ctx,
		notification.NewContentRestoredNotification(target.authorID, req.TargetType, target.title))
	return nil
}

func (s *reportService) reviewer(ctx context.Context, reviewerID string) (*entities.User, error) {
	reviewer, err := s.userRepository.GetByID(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !reviewer.IsStaff {
		return nil, domain.ErrNotStaff
	}
	return reviewer, nil
}

func (s *reportService) resolveTarget(ctx context.Context, targetType, targetID string) (reportTarget, error) {
	switch targetType {
	case domain.TargetRecipe:
		target, err := s.recipeRepository.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reportTarget{}, domain.ErrRecipeNotFound
			}
			return reportTarget{}, err
		}
		return reportTarget{authorID: target.AuthorID, title: target.Title, isHidden: target.IsHidden}, nil
	case domain.TargetComment:
		target, err := s.commentRepository.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reportTarget{}, domain.ErrCommentNotFound
			}
			return reportTarget{}, err
		}
		return reportTarget{authorID: target.UserID, title: commentTitle(target.Text), isHidden: target.IsHidden}, nil
	default:
		return reportTarget{}, domain.ErrInvalidTarget
	}
}

func (s *reportService) setTargetHidden(ctx context.Context, targetType, targetID string, hidden bool) error {
	if targetType == domain.TargetComment {
		return s.commentRepository.SetHidden(ctx, targetID, hidden)
	}
	return s.recipeRepository.SetHidden(ctx, targetID, hidden)
}

func hideTargetTx(tx *gorm.DB, targetType string, targetID uuid.UUID) error {
	if targetType == domain.TargetComment {
		return tx.Model(&entities.Comment{}).
			Where("id = ?", targetID).
			Update("is_hidden", true).Error
	}
	return tx.Model(&entities.Recipe{}).
		Where("id = ?", targetID).
		Update("is_hidden", true).Error
}

// deleteTargetTx cascades the deletion. The report row itself is preserved;
// its denormalized title was refreshed before the delete.
func deleteTargetTx(tx *gorm.DB, targetType string, targetID uuid.UUID) error {
	if targetType == domain.TargetComment {
		return comment.DeleteTreeTx(tx, targetID)
	}

	if err := tx.Where("recipe_id = ?", targetID).Delete(&entities.Rating{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", targetID).Delete(&entities.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", targetID).Delete(&entities.PlannedMeal{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", targetID).Delete(&entities.Recipe{}).Error
}

func validReason(reason string) bool {
	for _, known := range domain.ReportReasons {
		if reason == known {
			return true
		}
	}
	return false
}

func validAction(action string) bool {
	switch action {
	case domain.ActionDismissed, domain.ActionHidden, domain.ActionDeleted,
		domain.ActionWarned, domain.ActionBanned:
		return true
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecipeNotFound) || errors.Is(err, domain.ErrCommentNotFound)
}

func commentTitle(text string) string {
	runes := []rune(text)
	if len(runes) > commentTitleLimit {
		return string(runes[:commentTitleLimit])
	}
	return text
}

func toReportResponse(row *entities.Report) domain.ReportResponse {
	response := domain.ReportResponse{
		ID:          row.ID.String(),
		ReporterID:  row.ReporterID.String(),
		TargetType:  row.TargetType,
		TargetID:    row.TargetID.String(),
		TargetTitle: row.TargetTitle,
		Reason:      row.Reason,
		Description: row.Description,
		Status:      row.Status,
		Action:      row.Action,
		ReviewedAt:  row.ReviewedAt,
		Notes:       row.ResolutionNotes,
		CreatedAt:   row.CreatedAt,
	}
	if row.ReviewerID != nil {
		response.ReviewerID = row.ReviewerID.String()
	}
	return response
}
