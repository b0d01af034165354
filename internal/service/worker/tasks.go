package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/repository"
	"portfoliohub/pkg/metrics"
)

// Workflow activity codes looked up when creating follow-up tasks.
const (
	ActivityProjectApproval      = "PROJECT_APPROVAL"
	ActivityProjectKickoff       = "PROJECT_KICKOFF"
	ActivityInvoiceReview        = "INVOICE_REVIEW"
	ActivityDeliveryConfirmation = "DELIVERY_CONFIRMATION"
	ActivityDocumentReview       = "DOCUMENT_REVIEW"
)

// TaskCreator inserts workflow tasks from consumed events. Creation is
// best-effort: callers log failures and never fail the triggering operation.
type TaskCreator struct {
	tasks  *repository.TaskRepository
	users  *repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskCreator(tasks *repository.TaskRepository, users *repository.UserRepository, logger *zap.Logger) *TaskCreator {
	return &TaskCreator{tasks: tasks, users: users, logger: logger, now: time.Now}
}

// CreateForActivity resolves the activity's duration and role, picks an
// assignee holding that role, and inserts an Open task due in duration days.
func (c *TaskCreator) CreateForActivity(ctx context.Context, activityCode, trigger, entityType string, entityID int) error {
	activity, err := c.tasks.GetActivityByCode(ctx, activityCode)
	if err != nil {
		return err
	}

	var assignedTo *int
	assignee, err := c.users.FindByRole(ctx, activity.AssignedRole)
	if err != nil {
		// An unstaffed role leaves the task unassigned rather than dropping it.
		c.logger.Warn("No assignee found for workflow task",
			zap.String("activity", activityCode),
			zap.String("role", activity.AssignedRole),
		)
	} else {
		assignedTo = &assignee.ID
	}

	task := &model.Task{
		Title:             activity.Title,
		Status:            model.TaskStatusOpen,
		DueDate:           c.now().AddDate(0, 0, activity.DurationDays),
		AssignedTo:        assignedTo,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
	}

	id, err := c.tasks.Insert(ctx, task)
	if err != nil {
		return err
	}

	metrics.IncrementTaskCreation(trigger)
	c.logger.Info("Workflow task created",
		zap.Int("task_id", id),
		zap.String("activity", activityCode),
		zap.String("entity_type", entityType),
		zap.Int("entity_id", entityID),
	)
	return nil
}
