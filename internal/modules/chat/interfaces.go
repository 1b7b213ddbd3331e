package chat

import (
	"context"

	"taskboard/internal/domain"
)

type ThreadRepository interface {
	CreateThread(ctx context.Context, t *domain.MessageThread, participantIDs []int64) error
	GetThread(ctx context.Context, id int64) (*domain.MessageThread, error)
	GetParticipantIDs(ctx context.Context, threadID int64) ([]int64, error)
	CreateMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, threadID int64, limit int) ([]domain.Message, error)
}

type MembershipReader interface {
	GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error)
}

// NotificationSender is the fire-and-forget boundary to the fan-out
// pipeline.
type NotificationSender interface {
	MessagePosted(ctx context.Context, actorID int64, thread *domain.MessageThread, msg *domain.Message)
}
