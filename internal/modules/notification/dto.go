package notification

type FanoutRequest struct {
	Type        string  `json:"type" binding:"required"`
	ActorID     *int64  `json:"actor_id" binding:"required"`
	Recipients  []int64 `json:"recipients"`
	Title       string  `json:"title" binding:"required"`
	Body        string  `json:"body"`
	WorkspaceID int64   `json:"workspace_id"`
	ProjectID   int64   `json:"project_id"`
	TaskID      int64   `json:"task_id"`
	ThreadID    int64   `json:"thread_id"`
	MessageID   int64   `json:"message_id"`
	DedupToken  string  `json:"dedup_token"`
}

type ToggleReadRequest struct {
	Read *bool `json:"read" binding:"required"`
}
