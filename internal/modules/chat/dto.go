package chat

type CreateThreadRequest struct {
	Title          string  `json:"title" binding:"required"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
