package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	data, err := ParseAssignments([]string{"weight=80", "height=1.8", "sex=male", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"weight": 80.0,
		"height": 1.8,
		"sex":    "male",
		"note":   "a=b",
		"empty":  "",
	}, data)
}

func TestParseAssignments_Invalid(t *testing.T) {
	for _, arg := range []string{"weight", "=80", " =1"} {
		_, err := ParseAssignments([]string{arg})
		assert.Error(t, err, arg)
	}
}
