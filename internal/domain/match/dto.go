package match

// RecordActionRequest represents a like or dislike of another user
type RecordActionRequest struct {
	TargetUserID int64  `json:"target_user_id" validate:"required,gt=0"`
	Action       string `json:"action" validate:"required,match_action"`
	Score        *int   `json:"score,omitempty"`
}

// SeenResponse lists users the caller already judged
type SeenResponse struct {
	UserIDs []int64 `json:"user_ids"`
}
