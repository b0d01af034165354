package project

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/repository"
	"portfoliohub/pkg/mq"
	"portfoliohub/pkg/outbox"
)

// Service exposes the project surface and the approval transitions. Approval
// events go through the outbox in the same transaction as the status change,
// so the follow-up task creation stays best-effort without ever being lost
// before publication.
type Service struct {
	pool     *pgxpool.Pool
	projects *repository.ProjectRepository
	outbox   *outbox.Repository
	logger   *zap.Logger
}

func NewService(pool *pgxpool.Pool, projects *repository.ProjectRepository, outboxRepo *outbox.Repository, logger *zap.Logger) *Service {
	return &Service{pool: pool, projects: projects, outbox: outboxRepo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int) (*model.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

func (s *Service) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	if p.Status == "" {
		p.Status = model.ProjectStatusDraft
	}
	id, err := s.projects.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// RequestApproval moves a project to PENDING_APPROVAL and queues the
// approval_requested workflow event.
func (s *Service) RequestApproval(ctx context.Context, projectID, requestedBy int) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(mq.ApprovalRequestedPayload{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		RequestedBy: requestedBy,
		RequestedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return s.transition(ctx, p.ID, model.ProjectStatusPendingApproval, mq.RoutingKeyApprovalRequested, payload)
}

// Approve moves a project to APPROVED and queues the approved workflow event.
func (s *Service) Approve(ctx context.Context, projectID, approvedBy int) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(mq.ProjectApprovedPayload{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		ApprovedBy:  approvedBy,
		ApprovedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	return s.transition(ctx, p.ID, model.ProjectStatusApproved, mq.RoutingKeyProjectApproved, payload)
}

func (s *Service) transition(ctx context.Context, projectID int, status, routingKey string, payload json.RawMessage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.projects.UpdateStatusTx(ctx, tx, projectID, status); err != nil {
		return err
	}

	aggregateID := int64(projectID)
	event := &outbox.Event{
		AggregateType: "project",
		AggregateID:   &aggregateID,
		RoutingKey:    routingKey,
		Payload:       payload,
		Status:        "pending",
	}
	if err := s.outbox.InsertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project transition: %w", err)
	}

	s.logger.Info("Project transitioned",
		zap.Int("project_id", projectID),
		zap.String("status", status),
		zap.String("routing_key", routingKey),
	)
	return nil
}
