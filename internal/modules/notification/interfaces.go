package notification

import (
	"context"
	"time"

	"taskboard/internal/domain"
)

// NotificationStore is the persistence surface of the fan-out writer and
// the read pipeline.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int, before *time.Time) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	SetRead(ctx context.Context, id, userID int64, read bool) error
	MarkAllRead(ctx context.Context, userID int64) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// WorkspaceReader resolves workspace membership for recipient resolution.
type WorkspaceReader interface {
	GetMemberIDs(ctx context.Context, workspaceID int64) ([]int64, error)
	GetAdminIDs(ctx context.Context, workspaceID int64) ([]int64, error)
}

// ThreadReader resolves thread participation for recipient resolution.
type ThreadReader interface {
	GetParticipantIDs(ctx context.Context, threadID int64) ([]int64, error)
}

// RealtimePusher delivers a freshly written notification to the recipient's
// live connections. Best-effort; implementations must never block.
type RealtimePusher interface {
	PushToUser(userID int64, n *domain.Notification)
}
