package validate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
	Note  string `validate:"max=2"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Name: "toolong", Email: "nope", Note: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	assert.Equal(t, Errors{
		{Field: "Note", Rule: "max"},
		{Field: "email", Rule: "email"},
		{Field: "name", Rule: "max"},
	}, IssuesOf(err))
}

func TestStructAcceptsValid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "ok"}))
}

func TestIssuesOfWrapped(t *testing.T) {
	err := fmt.Errorf("save: %w", Struct(sample{}))
	assert.Equal(t, Errors{{Field: "name", Rule: "required"}}, IssuesOf(err))
	assert.Nil(t, IssuesOf(errors.New("other")))
}
