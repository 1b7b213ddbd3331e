package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type Service struct {
	threads ThreadRepository
	members MembershipReader
	notifs  NotificationSender
}

func NewService(threads ThreadRepository, members MembershipReader, notifs NotificationSender) *Service {
	return &Service{threads: threads, members: members, notifs: notifs}
}

// CreateThread creates a thread. An empty participant list makes the
// thread public to the whole workspace; otherwise the creator is always
// included.
func (s *Service) CreateThread(ctx context.Context, actorID, workspaceID int64, req CreateThreadRequest) (*domain.MessageThread, error) {
	if err := s.requireMember(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}

	participants := req.ParticipantIDs
	if len(participants) > 0 {
		hasCreator := false
		for _, id := range participants {
			if id == actorID {
				hasCreator = true
			}
			if err := s.requireMember(ctx, workspaceID, id); err != nil {
				return nil, ErrValidation
			}
		}
		if !hasCreator {
			participants = append(participants, actorID)
		}
	}

	t := &domain.MessageThread{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		CreatedBy:   actorID,
	}
	if err := s.threads.CreateThread(ctx, t, participants); err != nil {
		return nil, err
	}
	return t, nil
}

// PostMessage stores the message and fans out to the thread participants
// (or the whole workspace for a public thread). The message send never
// fails because of its notifications.
func (s *Service) PostMessage(ctx context.Context, actorID, threadID int64, req PostMessageRequest) (*domain.Message, error) {
	thread, err := s.threads.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, thread, actorID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		PublicID: uuid.NewString(),
		ThreadID: threadID,
		SenderID: actorID,
		Content:  req.Content,
	}
	if err := s.threads.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.MessagePosted(ctx, actorID, thread, msg)
	}

	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, actorID, threadID int64, limit int) ([]domain.Message, error) {
	thread, err := s.threads.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, thread, actorID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.threads.ListMessages(ctx, threadID, limit)
}

// requireAccess checks workspace membership, and thread participation
// when the thread has an explicit participant list.
func (s *Service) requireAccess(ctx context.Context, thread *domain.MessageThread, userID int64) error {
	if err := s.requireMember(ctx, thread.WorkspaceID, userID); err != nil {
		return err
	}

	participants, err := s.threads.GetParticipantIDs(ctx, thread.ID)
	if err != nil {
		return err
	}
	if len(participants) == 0 {
		return nil // public thread
	}
	for _, id := range participants {
		if id == userID {
			return nil
		}
	}
	return ErrNotParticipant
}

func (s *Service) requireMember(ctx context.Context, workspaceID, userID int64) error {
	_, err := s.members.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}
	return nil
}
