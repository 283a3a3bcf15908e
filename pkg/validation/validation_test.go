package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonghwa-lab/bonghwa-gateway/pkg/validation"
)

type sampleRequest struct {
	Name    string   `json:"name" validate:"required"`
	Tags    []string `json:"tags" validate:"required,min=1"`
	Ignored string   `json:"-"`
}

func TestValidate_OK(t *testing.T) {
	err := validation.Validate(&sampleRequest{Name: "ess-one", Tags: []string{"a"}})
	assert.NoError(t, err)
}

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	err := validation.Validate(&sampleRequest{})
	require.Error(t, err)

	fields := validation.Fields(err)
	assert.Equal(t, "This field is required", fields["name"])
	assert.Contains(t, fields, "tags")
}

func TestFields_MinMessage(t *testing.T) {
	err := validation.Validate(&sampleRequest{Name: "ess-one", Tags: []string{}})
	require.Error(t, err)

	fields := validation.Fields(err)
	assert.Equal(t, "Minimum length is 1", fields["tags"])
}

func TestFields_NonValidationError(t *testing.T) {
	fields := validation.Fields(assert.AnError)
	assert.Empty(t, fields)
}
