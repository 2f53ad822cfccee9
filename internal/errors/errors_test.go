package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSource,
		ErrUI,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "fps must be between 1 and 144",
			suggestion: "Check the 'fps' key in .hostmon.yaml",
		},
		{
			name:       "source error",
			code:       ErrSource,
			message:    "Unknown counter source 'bsd'",
			suggestion: "Use one of: auto, procfs, psutil",
		},
		{
			name:       "ui error",
			code:       ErrUI,
			message:    "Dashboard exited unexpectedly",
			suggestion: "Run 'hostmon snapshot' for a non-interactive view",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "message and suggestion",
			err:           New(ErrConfig, "Invalid configuration", "Check .hostmon.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check .hostmon.yaml syntax"},
		},
		{
			name:          "cause is included",
			err:           WrapWithCode(fmt.Errorf("open /proc/stat: permission denied"), ErrSource, "Can't read CPU counters", ""),
			expectedParts: []string{"Can't read CPU counters", "permission denied"},
		},
		{
			name:          "no suggestion",
			err:           New(ErrUI, "Terminal too small", ""),
			expectedParts: []string{"Terminal too small"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such file or directory")
	wrapped := Wrap(cause, "procfs is not mounted")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrSource, wrapped.Code, "Wrap should default to ErrSource code")
	assert.Equal(t, "procfs is not mounted", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("yaml: line 3: did not find expected key")
	wrapped := WrapWithCode(cause, ErrConfig, "Invalid config format", "Check the YAML syntax")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Invalid config format", wrapped.Message)
	assert.Equal(t, "Check the YAML syntax", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrSource, "Source error", "")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())

	var hmErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &hmErr))
	assert.Equal(t, ErrSource, hmErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrSource))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("stat /proc: no such file or directory"),
		ErrSource,
		"Can't open the procfs counter source",
		"Use --source psutil on systems without /proc",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"))
	assert.Contains(t, lines[0], "Can't open the procfs counter source")
}
