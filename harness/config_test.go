package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Logger.Verbosity)
		assert.Equal(t, 1, cfg.Checks.Iterations)
		assert.False(t, cfg.Checks.Lgamma)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
logger:
  verbosity: debug
metrics:
  textfile: /tmp/hipmath.prom
checks:
  lgamma: true
  iterations: 4
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger.Verbosity)
		assert.Equal(t, "/tmp/hipmath.prom", cfg.Metrics.Textfile)
		assert.True(t, cfg.Checks.Lgamma)
		assert.Equal(t, 4, cfg.Checks.Iterations)
		assert.Equal(t, 0, cfg.Device)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("device: 2\n"), 0600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Device)
		assert.Equal(t, "info", cfg.Logger.Verbosity)
		assert.Equal(t, 1, cfg.Checks.Iterations)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("checks: [1, 2"), 0600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
