package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskboard/internal/domain"
)

// Mock repositories
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, w *domain.Workspace) error {
	args := m.Called(ctx, w)
	if w != nil && args.Error(0) == nil {
		w.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, mem *domain.WorkspaceMember) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.MemberRole) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceRepository) ListMembers(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.WorkspaceMember), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	if p != nil && args.Error(0) == nil {
		p.ID = 555
	}
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.Project, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Project), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) MemberInvited(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64) {
	m.Called(ctx, actorID, ws, userID)
}

func (m *MockNotificationSender) MemberRemoved(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64) {
	m.Called(ctx, actorID, ws, userID)
}

func member(workspaceID, userID int64, role domain.MemberRole) *domain.WorkspaceMember {
	return &domain.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, Role: role}
}

func TestService_AddMember_Success(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleOwner), nil)
	mockWorkspaces.On("AddMember", mock.Anything, mock.Anything).Return(nil)
	mockWorkspaces.On("GetByID", mock.Anything, int64(5)).Return(&domain.Workspace{ID: 5, Name: "Acme"}, nil)

	mockUsers := new(MockUserReader)
	mockUsers.On("ExistsByID", mock.Anything, int64(2)).Return(true, nil)

	mockNotifs := new(MockNotificationSender)
	mockNotifs.On("MemberInvited", mock.Anything, int64(1), mock.Anything, int64(2)).Return()

	service := NewService(mockWorkspaces, new(MockProjectRepository), mockUsers, mockNotifs)

	m, err := service.AddMember(context.Background(), 1, 5, AddMemberRequest{UserID: 2})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleMember, m.Role)
	mockNotifs.AssertExpectations(t)
}

func TestService_AddMember_RequiresAdmin(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(3)).Return(member(5, 3, domain.RoleMember), nil)

	service := NewService(mockWorkspaces, new(MockProjectRepository), new(MockUserReader), nil)

	_, err := service.AddMember(context.Background(), 3, 5, AddMemberRequest{UserID: 2})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_AddMember_UnknownUser(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleAdmin), nil)

	mockUsers := new(MockUserReader)
	mockUsers.On("ExistsByID", mock.Anything, int64(2)).Return(false, nil)

	service := NewService(mockWorkspaces, new(MockProjectRepository), mockUsers, nil)

	_, err := service.AddMember(context.Background(), 1, 5, AddMemberRequest{UserID: 2})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestService_AddMember_RejectsOwnerRole(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleOwner), nil)

	service := NewService(mockWorkspaces, new(MockProjectRepository), new(MockUserReader), nil)

	_, err := service.AddMember(context.Background(), 1, 5, AddMemberRequest{UserID: 2, Role: "owner"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_RemoveMember_NotifiesRemovedUser(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleOwner), nil)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(2)).Return(member(5, 2, domain.RoleMember), nil)
	mockWorkspaces.On("RemoveMember", mock.Anything, int64(5), int64(2)).Return(nil)
	mockWorkspaces.On("GetByID", mock.Anything, int64(5)).Return(&domain.Workspace{ID: 5, Name: "Acme"}, nil)

	mockNotifs := new(MockNotificationSender)
	mockNotifs.On("MemberRemoved", mock.Anything, int64(1), mock.Anything, int64(2)).Return()

	service := NewService(mockWorkspaces, new(MockProjectRepository), new(MockUserReader), mockNotifs)

	err := service.RemoveMember(context.Background(), 1, 5, 2)

	assert.NoError(t, err)
	mockNotifs.AssertExpectations(t)
}

func TestService_RemoveMember_OwnerIsProtected(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(2)).Return(member(5, 2, domain.RoleAdmin), nil)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleOwner), nil)

	service := NewService(mockWorkspaces, new(MockProjectRepository), new(MockUserReader), nil)

	err := service.RemoveMember(context.Background(), 2, 5, 1)
	assert.ErrorIs(t, err, ErrLastOwner)
}

func TestService_CreateProject_RequiresMembership(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(9)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockWorkspaces, new(MockProjectRepository), new(MockUserReader), nil)

	_, err := service.CreateProject(context.Background(), 9, 5, CreateProjectRequest{Name: "Redesign"})
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestService_CreateProject_Success(t *testing.T) {
	mockWorkspaces := new(MockWorkspaceRepository)
	mockWorkspaces.On("GetMember", mock.Anything, int64(5), int64(1)).Return(member(5, 1, domain.RoleMember), nil)

	mockProjects := new(MockProjectRepository)
	mockProjects.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockWorkspaces, mockProjects, new(MockUserReader), nil)

	p, err := service.CreateProject(context.Background(), 1, 5, CreateProjectRequest{Name: "Redesign"})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), p.WorkspaceID)
	assert.Equal(t, int64(1), p.CreatedBy)
}
