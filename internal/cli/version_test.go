package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func setVersionForTest(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})
	SetVersionInfo(v, c, d)
}

func versionOutput(short bool) string {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	printVersion(cmd, short)
	return buf.String()
}

func TestVersionOutput(t *testing.T) {
	setVersionForTest(t, "1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	output := versionOutput(false)

	assert.Contains(t, output, "hostmon v1.2.3", "should show version with v prefix")
	assert.Contains(t, output, "commit: abc1234")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z")
	assert.Contains(t, output, "go: "+runtime.Version())
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionOutputShort(t *testing.T) {
	setVersionForTest(t, "1.2.3", "abc1234", "today")

	assert.Equal(t, "1.2.3", strings.TrimSpace(versionOutput(true)))
	assert.Equal(t, "1.2.3", version)
}

func TestVersionOutputDev(t *testing.T) {
	setVersionForTest(t, "dev", "none", "unknown")

	assert.Contains(t, versionOutput(false), "hostmon dev", "dev version should not have v prefix")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "dev version", input: "dev", want: "dev"},
		{name: "adds prefix", input: "0.4.0", want: "v0.4.0"},
		{name: "keeps prefix", input: "v0.4.0", want: "v0.4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.input))
		})
	}
}
