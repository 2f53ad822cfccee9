package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "bare tilde", input: "~", expected: home},
		{name: "tilde path", input: "~/data", expected: filepath.Join(home, "data")},
		{name: "absolute unchanged", input: "/var/lib", expected: "/var/lib"},
		{name: "other user unchanged", input: "~bob/data", expected: "~bob/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTilde(tt.input))
		})
	}
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "alex")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "home variable", input: "${HOME}/mnt", expected: home + "/mnt"},
		{name: "user variable", input: "/home/${USER}", expected: "/home/alex"},
		{name: "tilde", input: "~/proc", expected: filepath.Join(home, "proc")},
		{name: "plain", input: "/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input))
		})
	}
}
