// env_test.go contains unit tests for the env command helpers.

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatEnvStatus verifies the environment status column.
func TestFormatEnvStatus(t *testing.T) {
	assert.Equal(t, "created", FormatEnvStatus(true))
	assert.Equal(t, "missing", FormatEnvStatus(false))
}

// TestPromptConfirmation verifies the accepted answers.
func TestPromptConfirmation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes with CRLF", input: "YES\r\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "closed input", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptConfirmation(strings.NewReader(tt.input), &out, "test", "/p/.envs/test")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), `About to remove environment "test" at /p/.envs/test`)
		})
	}
}
