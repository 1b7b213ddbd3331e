package workspace

import (
	"context"

	"taskboard/internal/domain"
)

// WorkspaceRepository defines the persistence surface for workspaces and
// their membership.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *domain.Workspace) error
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error)
	AddMember(ctx context.Context, m *domain.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID int64) error
	UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.MemberRole) error
	GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.Project, error)
}

type UserReader interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// NotificationSender is the fire-and-forget boundary to the fan-out
// pipeline. Implementations never return; failures are logged inside.
type NotificationSender interface {
	MemberInvited(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64)
	MemberRemoved(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64)
}
