package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type enumRequest struct {
	TargetType string `json:"target_type" validate:"required,target_type"`
	Action     string `json:"action" validate:"omitempty,match_action"`
	Kind       string `json:"action_type" validate:"omitempty,moderation_action"`
	Content    string `json:"content" validate:"omitempty,max=5"`
}

func TestValidateEnums(t *testing.T) {
	tests := []struct {
		name string
		req  enumRequest
		want map[string]string
	}{
		{name: "valid lower case", req: enumRequest{TargetType: "dog", Action: "like", Kind: "block"}},
		{name: "missing target type", req: enumRequest{}, want: map[string]string{"target_type": "This field is required"}},
		{
			name: "unknown values",
			req:  enumRequest{TargetType: "CAT", Action: "SUPERLIKE", Kind: "MUTE"},
			want: map[string]string{
				"target_type": enumMessages["target_type"],
				"action":      enumMessages["match_action"],
				"action_type": enumMessages["moderation_action"],
			},
		},
		{name: "max length", req: enumRequest{TargetType: "USER", Content: "too long"}, want: map[string]string{"content": "Value is too long (max: 5)"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(&tc.req))
		})
	}
}
