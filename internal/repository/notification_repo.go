package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;index:idx_notifications_user_created"`
	Type        string    `gorm:"column:type"`
	ActorID     int64     `gorm:"column:actor_id"`
	Title       string    `gorm:"column:title"`
	Body        *string   `gorm:"column:body"`
	IsRead      bool      `gorm:"column:is_read"`
	WorkspaceID *int64    `gorm:"column:workspace_id"`
	ProjectID   *int64    `gorm:"column:project_id"`
	TaskID      *int64    `gorm:"column:task_id"`
	ThreadID    *int64    `gorm:"column:thread_id"`
	MessageID   *int64    `gorm:"column:message_id"`
	DedupKey    *string   `gorm:"column:dedup_key;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index:idx_notifications_user_created"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	n := domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		ActorID:   m.ActorID,
		Title:     m.Title,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if m.Body != nil {
		n.Body = *m.Body
	}
	if m.WorkspaceID != nil {
		n.WorkspaceID = *m.WorkspaceID
	}
	if m.ProjectID != nil {
		n.ProjectID = *m.ProjectID
	}
	if m.TaskID != nil {
		n.TaskID = *m.TaskID
	}
	if m.ThreadID != nil {
		n.ThreadID = *m.ThreadID
	}
	if m.MessageID != nil {
		n.MessageID = *m.MessageID
	}
	if m.DedupKey != nil {
		n.DedupKey = *m.DedupKey
	}
	return n
}

func nilIfZero(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:      n.UserID,
		Type:        string(n.Type),
		ActorID:     n.ActorID,
		Title:       n.Title,
		Body:        nilIfEmpty(n.Body),
		IsRead:      n.IsRead,
		WorkspaceID: nilIfZero(n.WorkspaceID),
		ProjectID:   nilIfZero(n.ProjectID),
		TaskID:      nilIfZero(n.TaskID),
		ThreadID:    nilIfZero(n.ThreadID),
		MessageID:   nilIfZero(n.MessageID),
		DedupKey:    nilIfEmpty(n.DedupKey),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

// ListByUser returns up to limit rows for the user ordered by created_at
// descending, starting strictly before the cursor when one is given.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int, before *time.Time) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)

	if before != nil {
		q = q.Where("created_at < ?", *before)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// SetRead flips is_read for one notification, scoped to its owner.
func (r *NotificationRepository) SetRead(ctx context.Context, id, userID int64, read bool) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", read)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&notificationModel{}).Error
}

// IsDuplicate reports whether err is a unique-constraint violation, i.e. a
// fan-out row whose dedup_key already exists.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite driver reports constraint violations as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
