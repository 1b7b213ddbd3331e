package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	WorkspaceID int64     `gorm:"column:workspace_id;index"`
	ProjectID   int64     `gorm:"column:project_id;index"`
	Title       string    `gorm:"column:title"`
	Description *string   `gorm:"column:description"`
	Status      string    `gorm:"column:status;index"`
	AssigneeID  *int64    `gorm:"column:assignee_id;index"`
	CreatedBy   int64     `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (taskModel) TableName() string { return "tasks" }

func toDomainTask(m taskModel) *domain.Task {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	var assignee int64
	if m.AssigneeID != nil {
		assignee = *m.AssigneeID
	}
	return &domain.Task{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		ProjectID:   m.ProjectID,
		Title:       m.Title,
		Description: desc,
		Status:      domain.TaskStatus(m.Status),
		AssigneeID:  assignee,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	var assignee *int64
	if t.AssigneeID != 0 {
		v := t.AssigneeID
		assignee = &v
	}
	m := taskModel{
		WorkspaceID: t.WorkspaceID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: nilIfEmpty(t.Description),
		Status:      string(t.Status),
		AssigneeID:  assignee,
		CreatedBy:   t.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toDomainTask(m), nil
}

func (r *TaskRepository) UpdateAssignee(ctx context.Context, id int64, assigneeID int64) error {
	var assignee *int64
	if assigneeID != 0 {
		assignee = &assigneeID
	}
	res := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("id = ?", id).
		Update("assignee_id", assignee)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error {
	res := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	var rows []taskModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTask(m))
	}
	return out, nil
}
