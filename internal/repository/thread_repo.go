package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

type threadModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	WorkspaceID int64     `gorm:"column:workspace_id;index"`
	Title       string    `gorm:"column:title"`
	CreatedBy   int64     `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (threadModel) TableName() string { return "message_threads" }

type threadParticipantModel struct {
	ID       int64 `gorm:"column:id;primaryKey"`
	ThreadID int64 `gorm:"column:thread_id;uniqueIndex:idx_thread_user"`
	UserID   int64 `gorm:"column:user_id;uniqueIndex:idx_thread_user"`
}

func (threadParticipantModel) TableName() string { return "thread_participants" }

type messageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	PublicID  string    `gorm:"column:public_id;uniqueIndex"`
	ThreadID  int64     `gorm:"column:thread_id;index"`
	SenderID  int64     `gorm:"column:sender_id"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (messageModel) TableName() string { return "messages" }

func toDomainThread(m threadModel) *domain.MessageThread {
	return &domain.MessageThread{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		Title:       m.Title,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainMessage(m messageModel) *domain.Message {
	return &domain.Message{
		ID:        m.ID,
		PublicID:  m.PublicID,
		ThreadID:  m.ThreadID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// CreateThread inserts the thread and its explicit participants, if any,
// in one transaction. A thread without participants is workspace-public.
func (r *ThreadRepository) CreateThread(ctx context.Context, t *domain.MessageThread, participantIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := threadModel{
			WorkspaceID: t.WorkspaceID,
			Title:       t.Title,
			CreatedBy:   t.CreatedBy,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		t.ID = m.ID
		t.CreatedAt = m.CreatedAt

		for _, uid := range participantIDs {
			p := threadParticipantModel{ThreadID: m.ID, UserID: uid}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ThreadRepository) GetThread(ctx context.Context, id int64) (*domain.MessageThread, error) {
	var m threadModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toDomainThread(m), nil
}

// GetParticipantIDs returns the explicit participant list; empty means the
// thread is public to the whole workspace.
func (r *ThreadRepository) GetParticipantIDs(ctx context.Context, threadID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&threadParticipantModel{}).
		Where("thread_id = ?", threadID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ThreadRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	row := messageModel{
		PublicID: m.PublicID,
		ThreadID: m.ThreadID,
		SenderID: m.SenderID,
		Content:  m.Content,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *ThreadRepository) ListMessages(ctx context.Context, threadID int64, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []messageModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainMessage(m))
	}
	return out, nil
}
