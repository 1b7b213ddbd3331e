package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

type workspaceModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	OwnerID   int64     `gorm:"column:owner_id;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (workspaceModel) TableName() string { return "workspaces" }

type workspaceMemberModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	WorkspaceID int64     `gorm:"column:workspace_id;uniqueIndex:idx_workspace_user"`
	UserID      int64     `gorm:"column:user_id;uniqueIndex:idx_workspace_user;index"`
	Role        string    `gorm:"column:role"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (workspaceMemberModel) TableName() string { return "workspace_members" }

func toDomainWorkspace(m workspaceModel) *domain.Workspace {
	return &domain.Workspace{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainMember(m workspaceMemberModel) *domain.WorkspaceMember {
	return &domain.WorkspaceMember{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        domain.MemberRole(m.Role),
		CreatedAt:   m.CreatedAt,
	}
}

// Create inserts the workspace and its owner membership in one transaction.
func (r *WorkspaceRepository) Create(ctx context.Context, w *domain.Workspace) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := workspaceModel{Name: w.Name, OwnerID: w.OwnerID}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		w.ID = m.ID
		w.CreatedAt = m.CreatedAt
		w.UpdatedAt = m.UpdatedAt

		member := workspaceMemberModel{
			WorkspaceID: m.ID,
			UserID:      w.OwnerID,
			Role:        string(domain.RoleOwner),
		}
		return tx.Create(&member).Error
	})
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	var m workspaceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toDomainWorkspace(m), nil
}

func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	var rows []workspaceModel
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Workspace, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorkspace(m))
	}
	return out, nil
}

func (r *WorkspaceRepository) AddMember(ctx context.Context, m *domain.WorkspaceMember) error {
	row := workspaceMemberModel{
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        string(m.Role),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&workspaceMemberModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.MemberRole) error {
	res := r.db.WithContext(ctx).
		Model(&workspaceMemberModel{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	var m workspaceMemberModel
	err := r.db.WithContext(ctx).
		First(&m, "workspace_id = ? AND user_id = ?", workspaceID, userID).Error
	if err != nil {
		return nil, err
	}
	return toDomainMember(m), nil
}

func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error) {
	var rows []workspaceMemberModel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.WorkspaceMember, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainMember(m))
	}
	return out, nil
}

// GetMemberIDs returns the user ids of every workspace member.
func (r *WorkspaceRepository) GetMemberIDs(ctx context.Context, workspaceID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&workspaceMemberModel{}).
		Where("workspace_id = ?", workspaceID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// GetAdminIDs returns the user ids of members with role owner or admin.
func (r *WorkspaceRepository) GetAdminIDs(ctx context.Context, workspaceID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&workspaceMemberModel{}).
		Where("workspace_id = ? AND role IN ?", workspaceID, []string{string(domain.RoleOwner), string(domain.RoleAdmin)}).
		Pluck("user_id", &ids).Error
	return ids, err
}
