package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/judgecore/internal/model"
)

func TestID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"contest-1", true},
		{"9b2f4f4e-5c1a-4b8e-a1e5-0f1d2c3b4a59", true},
		{"under_score", true},
		{"", false},
		{"has space", false},
		{"a:b", false},
		{"a/b", false},
		{strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ID(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrValidationFailed)
			}
		})
	}
}

func TestStruct(t *testing.T) {
	type request struct {
		Name string `validate:"required,max=8"`
		Team string `validate:"omitempty,ident"`
	}

	assert.NoError(t, Struct(request{Name: "ok", Team: "team-1"}))

	err := Struct(request{Name: "", Team: "bad team"})
	assert.ErrorIs(t, err, model.ErrValidationFailed)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Team")
}
