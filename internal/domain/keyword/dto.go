package keyword

import "time"

// CreateKeywordRequest represents request to create a keyword
type CreateKeywordRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Category string `json:"category" validate:"max=50"`
}

// AssignTagRequest represents request to tag an entity
type AssignTagRequest struct {
	KeywordID  int64  `json:"keyword_id" validate:"required,gt=0"`
	TargetType string `json:"target_type" validate:"required,target_type"`
	TargetID   int64  `json:"target_id" validate:"required,gt=0"`
}

// TagResponse is a tag assignment with its keyword inlined.
type TagResponse struct {
	ID         int64     `json:"id"`
	Keyword    *Keyword  `json:"keyword"`
	TargetType string    `json:"target_type"`
	TargetID   int64     `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTagResponses joins assignments with their keywords, keeping assignment order.
func NewTagResponses(assignments []*TagAssignment, keywords []*Keyword) []TagResponse {
	byID := make(map[int64]*Keyword, len(keywords))
	for _, k := range keywords {
		byID[k.ID] = k
	}

	out := make([]TagResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, TagResponse{
			ID:         a.ID,
			Keyword:    byID[a.KeywordID],
			TargetType: string(a.Type),
			TargetID:   a.Target.ID,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
