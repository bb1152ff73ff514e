package membership

// InviteRequest represents request to invite a user into a group
type InviteRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// PromoteRequest represents request to change a member's role
type PromoteRequest struct {
	Role string `json:"role" validate:"required"`
}

// FoundRequest represents the group service registering a new group's creator
type FoundRequest struct {
	CreatorUserID int64 `json:"creator_user_id" validate:"required,gt=0"`
}
