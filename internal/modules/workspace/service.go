package workspace

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type Service struct {
	workspaces WorkspaceRepository
	projects   ProjectRepository
	users      UserReader
	notifs     NotificationSender
}

func NewService(
	workspaces WorkspaceRepository,
	projects ProjectRepository,
	users UserReader,
	notifs NotificationSender,
) *Service {
	return &Service{
		workspaces: workspaces,
		projects:   projects,
		users:      users,
		notifs:     notifs,
	}
}

func (s *Service) CreateWorkspace(ctx context.Context, actorID int64, req CreateWorkspaceRequest) (*domain.Workspace, error) {
	w := &domain.Workspace{
		Name:    req.Name,
		OwnerID: actorID,
	}
	if err := s.workspaces.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	return s.workspaces.ListByUser(ctx, userID)
}

func (s *Service) GetWorkspace(ctx context.Context, actorID, workspaceID int64) (*domain.Workspace, []domain.WorkspaceMember, error) {
	if _, err := s.requireMember(ctx, workspaceID, actorID); err != nil {
		return nil, nil, err
	}

	w, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.workspaces.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}

	return w, members, nil
}

// AddMember adds a user with the given role (member by default). Only
// owners and admins manage membership. The invitee gets a notification;
// its failure never fails the invite.
func (s *Service) AddMember(ctx context.Context, actorID, workspaceID int64, req AddMemberRequest) (*domain.WorkspaceMember, error) {
	if err := s.requireAdmin(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}

	role := domain.MemberRole(req.Role)
	if req.Role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() || role == domain.RoleOwner {
		return nil, ErrValidation
	}

	exists, err := s.users.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}

	m := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      req.UserID,
		Role:        role,
	}
	if err := s.workspaces.AddMember(ctx, m); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if w, werr := s.workspaces.GetByID(ctx, workspaceID); werr == nil {
			s.notifs.MemberInvited(ctx, actorID, w, req.UserID)
		}
	}

	return m, nil
}

// RemoveMember removes a user from the workspace and notifies them.
func (s *Service) RemoveMember(ctx context.Context, actorID, workspaceID, userID int64) error {
	if err := s.requireAdmin(ctx, workspaceID, actorID); err != nil {
		return err
	}

	target, err := s.workspaces.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		return ErrLastOwner
	}

	if err := s.workspaces.RemoveMember(ctx, workspaceID, userID); err != nil {
		return err
	}

	if s.notifs != nil {
		if w, werr := s.workspaces.GetByID(ctx, workspaceID); werr == nil {
			s.notifs.MemberRemoved(ctx, actorID, w, userID)
		}
	}

	return nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, actorID, workspaceID, userID int64, req UpdateMemberRoleRequest) error {
	if err := s.requireAdmin(ctx, workspaceID, actorID); err != nil {
		return err
	}

	role := domain.MemberRole(req.Role)
	if !role.Valid() || role == domain.RoleOwner {
		return ErrValidation
	}

	target, err := s.workspaces.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		return ErrLastOwner
	}

	return s.workspaces.UpdateMemberRole(ctx, workspaceID, userID, role)
}

func (s *Service) CreateProject(ctx context.Context, actorID, workspaceID int64, req CreateProjectRequest) (*domain.Project, error) {
	if _, err := s.requireMember(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}

	p := &domain.Project{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorID,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context, actorID, workspaceID int64) ([]domain.Project, error) {
	if _, err := s.requireMember(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}
	return s.projects.ListByWorkspace(ctx, workspaceID)
}

func (s *Service) requireMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	m, err := s.workspaces.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) requireAdmin(ctx context.Context, workspaceID, userID int64) error {
	m, err := s.requireMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if m.Role != domain.RoleOwner && m.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
