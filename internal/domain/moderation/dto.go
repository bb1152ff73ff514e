package moderation

// FileActionRequest represents request to block or report a target
type FileActionRequest struct {
	ActionType string `json:"action_type" validate:"required,moderation_action"`
	TargetType string `json:"target_type" validate:"required,target_type"`
	TargetID   int64  `json:"target_id" validate:"required,gt=0"`
	Comment    string `json:"comment,omitempty" validate:"max=1000"`
}

// ReviewReportRequest represents admin action on a report
type ReviewReportRequest struct {
	Note string `json:"note,omitempty" validate:"max=1000"`
}

// ListReportsFilter for filtering reports in admin panel
type ListReportsFilter struct {
	Status Status `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// BlockStatusResponse tells whether two users block each other.
type BlockStatusResponse struct {
	UserID  int64 `json:"user_id"`
	Blocked bool  `json:"blocked"`
}
