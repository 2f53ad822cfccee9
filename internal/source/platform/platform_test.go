package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/source/procfs"
	"github.com/rileyhilliard/hostmon/internal/source/psutil"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		goos     string
		expected string
		wantErr  bool
	}{
		{"auto on linux", Auto, "linux", Procfs, false},
		{"empty on linux", "", "linux", Procfs, false},
		{"auto on darwin", Auto, "darwin", Psutil, false},
		{"auto on windows", "auto", "windows", Psutil, false},
		{"explicit psutil on linux", Psutil, "linux", Psutil, false},
		{"case insensitive", " ProcFS ", "linux", Procfs, false},
		{"unknown", "bsd", "linux", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in, tt.goos)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrSource))
				assert.Contains(t, err.Error(), "auto, procfs, psutil")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("procfs with custom root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "stat"), []byte("cpu  1 0 0 1 0 0 0 0 0 0\n"), 0o644))

		src, name, err := Open(Options{Name: Procfs, ProcRoot: root, SysRoot: t.TempDir(), GOOS: "linux"})
		require.NoError(t, err)
		assert.Equal(t, Procfs, name)
		assert.IsType(t, &procfs.Source{}, src)
	})

	t.Run("procfs with missing root", func(t *testing.T) {
		_, _, err := Open(Options{Name: Procfs, ProcRoot: filepath.Join(t.TempDir(), "missing"), GOOS: "linux"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrSource))
	})

	t.Run("procfs off linux", func(t *testing.T) {
		_, _, err := Open(Options{Name: Procfs, GOOS: "darwin"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only works on Linux")
	})

	t.Run("auto off linux", func(t *testing.T) {
		src, name, err := Open(Options{Name: Auto, GOOS: "darwin"})
		require.NoError(t, err)
		assert.Equal(t, Psutil, name)
		assert.IsType(t, &psutil.Source{}, src)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, _, err := Open(Options{Name: "kstat"})
		assert.True(t, errors.IsCode(err, errors.ErrSource))
	})
}
