package task

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type Service struct {
	tasks    TaskRepository
	projects ProjectReader
	members  MembershipReader
	notifs   NotificationSender
}

func NewService(
	tasks TaskRepository,
	projects ProjectReader,
	members MembershipReader,
	notifs NotificationSender,
) *Service {
	return &Service{
		tasks:    tasks,
		projects: projects,
		members:  members,
		notifs:   notifs,
	}
}

// CreateTask creates a task in the project. An assigned task notifies the
// assignee; an unassigned one notifies the workspace owners and admins.
// The task is created regardless of whether fan-out succeeds.
func (s *Service) CreateTask(ctx context.Context, actorID, projectID int64, req CreateTaskRequest) (*domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, project.WorkspaceID, actorID); err != nil {
		return nil, err
	}
	if req.AssigneeID != 0 {
		if err := s.requireMember(ctx, project.WorkspaceID, req.AssigneeID); err != nil {
			return nil, ErrValidation
		}
	}

	t := &domain.Task{
		WorkspaceID: project.WorkspaceID,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskTodo,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   actorID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if t.AssigneeID != 0 {
			s.notifs.TaskAssigned(ctx, actorID, t, t.AssigneeID)
		} else {
			s.notifs.TaskCreated(ctx, actorID, t)
		}
	}

	return t, nil
}

func (s *Service) Assign(ctx context.Context, actorID, taskID int64, req AssignRequest) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.WorkspaceID, actorID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.WorkspaceID, req.AssigneeID); err != nil {
		return nil, ErrValidation
	}

	if err := s.tasks.UpdateAssignee(ctx, taskID, req.AssigneeID); err != nil {
		return nil, err
	}
	t.AssigneeID = req.AssigneeID

	if s.notifs != nil {
		s.notifs.TaskAssigned(ctx, actorID, t, req.AssigneeID)
	}

	return t, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actorID, taskID int64, req UpdateStatusRequest) (*domain.Task, error) {
	status := domain.TaskStatus(req.Status)
	if !status.Valid() {
		return nil, ErrValidation
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.WorkspaceID, actorID); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, err
	}
	t.Status = status

	if s.notifs != nil {
		s.notifs.TaskStatusChanged(ctx, actorID, t)
	}

	return t, nil
}

func (s *Service) ListByProject(ctx context.Context, actorID, projectID int64) ([]domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, project.WorkspaceID, actorID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *Service) requireMember(ctx context.Context, workspaceID, userID int64) error {
	_, err := s.members.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}
	return nil
}
