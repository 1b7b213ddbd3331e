package notification

import (
	"context"
	"fmt"
	"log"

	"taskboard/internal/domain"
)

// Notifier is the fire-and-forget entrypoint the feature modules use.
// Every method resolves recipients, renders title/body and fans out; any
// failure is logged and swallowed so the primary action never fails
// because of its notifications.
type Notifier struct {
	resolver *Resolver
	service  *Service
}

func NewNotifier(resolver *Resolver, service *Service) *Notifier {
	return &Notifier{resolver: resolver, service: service}
}

func (n *Notifier) emit(ctx context.Context, ev Event, in FanOutInput) {
	recipients, typ, err := n.resolver.Resolve(ctx, ev)
	if err != nil {
		// resolution failure means empty recipient set, never an abort
		log.Printf("notify: resolve failed type=%s actor=%d error=%q", ev.Type, ev.ActorID, err)
		return
	}
	in.Type = typ
	in.ActorID = ev.ActorID
	in.Recipients = recipients
	n.service.FanOut(ctx, in)
}

func (n *Notifier) TaskAssigned(ctx context.Context, actorID int64, task *domain.Task, assigneeID int64) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifTaskAssigned,
			ActorID:     actorID,
			TargetID:    assigneeID,
			WorkspaceID: task.WorkspaceID,
		},
		FanOutInput{
			Title:       "New task assigned: " + task.Title,
			WorkspaceID: task.WorkspaceID,
			ProjectID:   task.ProjectID,
			TaskID:      task.ID,
		})
}

func (n *Notifier) TaskCreated(ctx context.Context, actorID int64, task *domain.Task) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifTaskCreated,
			ActorID:     actorID,
			WorkspaceID: task.WorkspaceID,
		},
		FanOutInput{
			Title:       "New unassigned task: " + task.Title,
			WorkspaceID: task.WorkspaceID,
			ProjectID:   task.ProjectID,
			TaskID:      task.ID,
		})
}

func (n *Notifier) TaskStatusChanged(ctx context.Context, actorID int64, task *domain.Task) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifTaskUpdate,
			ActorID:     actorID,
			WorkspaceID: task.WorkspaceID,
			AssigneeID:  task.AssigneeID,
			CreatorID:   task.CreatedBy,
		},
		FanOutInput{
			Title:       fmt.Sprintf("Task %q moved to %s", task.Title, task.Status),
			WorkspaceID: task.WorkspaceID,
			ProjectID:   task.ProjectID,
			TaskID:      task.ID,
			// the new status names the transition, so a retried write of
			// the same transition dedupes while the next one fans out
			DedupToken: string(task.Status),
		})
}

func (n *Notifier) MessagePosted(ctx context.Context, actorID int64, thread *domain.MessageThread, msg *domain.Message) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifMessageNew,
			ActorID:     actorID,
			WorkspaceID: thread.WorkspaceID,
			ThreadID:    thread.ID,
			Body:        msg.Content,
		},
		FanOutInput{
			Title:       "New message in " + thread.Title,
			Body:        msg.Content,
			WorkspaceID: thread.WorkspaceID,
			ThreadID:    thread.ID,
			MessageID:   msg.ID,
		})
}

func (n *Notifier) MemberInvited(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifWorkspaceInvite,
			ActorID:     actorID,
			TargetID:    userID,
			WorkspaceID: ws.ID,
		},
		FanOutInput{
			Title:       "You were added to workspace " + ws.Name,
			WorkspaceID: ws.ID,
		})
}

func (n *Notifier) MemberRemoved(ctx context.Context, actorID int64, ws *domain.Workspace, userID int64) {
	n.emit(ctx,
		Event{
			Type:        domain.NotifWorkspaceRemoved,
			ActorID:     actorID,
			TargetID:    userID,
			WorkspaceID: ws.ID,
		},
		FanOutInput{
			Title:       "You were removed from workspace " + ws.Name,
			WorkspaceID: ws.ID,
		})
}
