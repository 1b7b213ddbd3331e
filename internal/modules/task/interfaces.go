package task

import (
	"context"

	"taskboard/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	UpdateAssignee(ctx context.Context, id int64, assigneeID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error
	ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error)
}

type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

type MembershipReader interface {
	GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error)
}

// NotificationSender is the fire-and-forget boundary to the fan-out
// pipeline.
type NotificationSender interface {
	TaskAssigned(ctx context.Context, actorID int64, task *domain.Task, assigneeID int64)
	TaskCreated(ctx context.Context, actorID int64, task *domain.Task)
	TaskStatusChanged(ctx context.Context, actorID int64, task *domain.Task)
}
