package domain

import "time"

// MessageThread is a chat thread inside a workspace. A thread with no
// explicit participants is public to the whole workspace.
type MessageThread struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	Title       string    `json:"title"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ThreadParticipant struct {
	ID       int64 `json:"id"`
	ThreadID int64 `json:"thread_id"`
	UserID   int64 `json:"user_id"`
}

type Message struct {
	ID        int64     `json:"id"`
	PublicID  string    `json:"public_id"`
	ThreadID  int64     `json:"thread_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
