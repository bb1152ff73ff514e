package comment

// PostCommentRequest represents request to post a comment
type PostCommentRequest struct {
	TargetType string `json:"target_type" validate:"required,target_type"`
	TargetID   int64  `json:"target_id" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required"`
}

// CommentListResponse is a page of comments on one target.
type CommentListResponse struct {
	Comments []*Comment `json:"comments"`
	Total    int        `json:"total"`
}
