package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRubric(t *testing.T) {
	r := DefaultRubric()
	assert.Equal(t, 7.0, r.Threshold)
	assert.Len(t, r.Dimensions, 6)
	require.NoError(t, r.Validate())
}

func TestLoadRubric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	content := `threshold: 8.5
dimensions:
  - name: Hook Strength
    guidance: Tougher hook standard.
  - name: Authenticity
    guidance: No corporate voice.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadRubric(path)
	require.NoError(t, err)
	assert.Equal(t, 8.5, r.Threshold)
	assert.Len(t, r.Dimensions, 2)
	assert.Contains(t, r.PromptSection(), "## Hook Strength (1-10)")
}

func TestLoadRubric_MissingFile(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRubricValidate(t *testing.T) {
	cases := []struct {
		name   string
		rubric Rubric
	}{
		{"threshold too low", Rubric{Threshold: 1, Dimensions: []RubricDimension{{Name: "a"}}}},
		{"threshold too high", Rubric{Threshold: 11, Dimensions: []RubricDimension{{Name: "a"}}}},
		{"no dimensions", Rubric{Threshold: 7}},
		{"blank dimension name", Rubric{Threshold: 7, Dimensions: []RubricDimension{{Name: "  "}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.rubric.Validate())
		})
	}
}
