package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// FanOutInput describes one logical event to persist for a set of
// recipients. Title and body are rendered by the caller; this layer does
// not template messages.
//
// DedupToken distinguishes this event from other events of the same type
// on the same object (e.g. the new status of a status change, or a
// caller-supplied idempotency token on the fan-out endpoint). Retrying a
// write with the same token is skipped; events without a token and
// without a message id are never deduplicated.
type FanOutInput struct {
	Type        domain.NotificationType
	ActorID     int64
	Recipients  []int64
	Title       string
	Body        string
	WorkspaceID int64
	ProjectID   int64
	TaskID      int64
	ThreadID    int64
	MessageID   int64
	DedupToken  string
}

// FanOutResult counts per-row outcomes. A partially failed fan-out is
// still a success from the caller's perspective.
type FanOutResult struct {
	Written    int `json:"written"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

type Service struct {
	repo     NotificationStore
	resolver *Resolver
	pusher   RealtimePusher
}

func NewService(repo NotificationStore, resolver *Resolver, pusher RealtimePusher) *Service {
	return &Service{repo: repo, resolver: resolver, pusher: pusher}
}

// FanOut persists one notification row per recipient. Rows are written
// independently: one bad recipient never blocks the others. Duplicate
// dedup keys (a retried primary action) are skipped silently.
func (s *Service) FanOut(ctx context.Context, in FanOutInput) FanOutResult {
	var res FanOutResult
	if len(in.Recipients) == 0 {
		return res
	}

	for _, recipient := range in.Recipients {
		if recipient == 0 || recipient == in.ActorID {
			// the resolver excludes the actor; this guards direct callers
			continue
		}

		n := &domain.Notification{
			UserID:      recipient,
			Type:        in.Type,
			ActorID:     in.ActorID,
			Title:       in.Title,
			Body:        in.Body,
			WorkspaceID: in.WorkspaceID,
			ProjectID:   in.ProjectID,
			TaskID:      in.TaskID,
			ThreadID:    in.ThreadID,
			MessageID:   in.MessageID,
			DedupKey:    dedupKey(in, recipient),
		}

		if err := s.repo.Create(ctx, n); err != nil {
			if repository.IsDuplicate(err) {
				res.Duplicates++
				continue
			}
			res.Failed++
			log.Printf("fanout: write failed type=%s actor=%d recipient=%d error=%q",
				in.Type, in.ActorID, recipient, err)
			continue
		}
		res.Written++

		if s.pusher != nil {
			s.pusher.PushToUser(recipient, n)
		}
	}

	return res
}

// dedupKey identifies the (event, recipient) pair so a retried write of
// the same logical event cannot produce a second row. A key needs
// something that names the event itself, not just the object it touched:
// a message id (one message is one event) or a dedup token. Two distinct
// status changes of the same task must both fan out, so object context
// alone never forms a key.
func dedupKey(in FanOutInput, recipient int64) string {
	contextID := in.MessageID
	if contextID == 0 {
		contextID = in.TaskID
	}
	if contextID == 0 {
		contextID = in.ThreadID
	}
	if contextID == 0 {
		contextID = in.WorkspaceID
	}
	if contextID == 0 {
		return ""
	}
	if in.MessageID == 0 && in.DedupToken == "" {
		return ""
	}

	key := fmt.Sprintf("%s:%d:%d:%d", in.Type, in.ActorID, contextID, recipient)
	if in.DedupToken != "" {
		key += ":" + in.DedupToken
	}
	return key
}

func (s *Service) List(ctx context.Context, userID int64, limit int, before *time.Time) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, before)
}

func (s *Service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) SetRead(ctx context.Context, id, userID int64, read bool) error {
	return s.repo.SetRead(ctx, id, userID, read)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) ClearAll(ctx context.Context, userID int64) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}
