package task

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssigneeID  int64  `json:"assignee_id"`
}

type AssignRequest struct {
	AssigneeID int64 `json:"assignee_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
