package domain

import "time"

type NotificationType string

const (
	NotifTaskAssigned     NotificationType = "task_assigned"
	NotifTaskCreated      NotificationType = "task_created"
	NotifTaskUpdate       NotificationType = "task_update"
	NotifMessageNew       NotificationType = "message_new"
	NotifMessageMention   NotificationType = "message_mention"
	NotifWorkspaceInvite  NotificationType = "workspace_invite"
	NotifWorkspaceRemoved NotificationType = "workspace_removed"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifTaskAssigned, NotifTaskCreated, NotifTaskUpdate,
		NotifMessageNew, NotifMessageMention,
		NotifWorkspaceInvite, NotifWorkspaceRemoved:
		return true
	}
	return false
}

// ActorSystem is the actor id recorded for events not initiated by a user.
const ActorSystem int64 = 0

// Notification is one per-recipient row produced by the fan-out writer.
// Only IsRead is mutable after creation; deletion is recipient-initiated.
type Notification struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Type        NotificationType `json:"type"`
	ActorID     int64            `json:"actor_id"`
	Title       string           `json:"title"`
	Body        string           `json:"body,omitempty"`
	IsRead      bool             `json:"is_read"`
	WorkspaceID int64            `json:"workspace_id,omitempty"`
	ProjectID   int64            `json:"project_id,omitempty"`
	TaskID      int64            `json:"task_id,omitempty"`
	ThreadID    int64            `json:"thread_id,omitempty"`
	MessageID   int64            `json:"message_id,omitempty"`
	DedupKey    string           `json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
}
