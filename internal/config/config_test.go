package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
sample_size_cap: 1024
detailed_errors: false
log:
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 1024, cfg.SampleSizeCap)
	assert.False(t, cfg.DetailedErrors)
	assert.True(t, cfg.Log.JSON)

	def := Default()
	assert.Equal(t, def.TinyBufferThreshold, cfg.TinyBufferThreshold)
	assert.Equal(t, def.SubclassifyOverlongLeads, cfg.SubclassifyOverlongLeads)
	assert.True(t, cfg.Log.Async)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative cap", content: "sample_size_cap: -1\n"},
		{name: "negative threshold", content: "tiny_buffer_threshold: -5\n"},
		{name: "malformed yaml", content: "detailed_errors: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSectionsMirrorFile(t *testing.T) {
	cfg := Default()
	cfg.SampleSizeCap = 10
	cfg.TinyBufferThreshold = 20

	assert.EqualValues(t, 10, cfg.Sample().SizeCap)
	assert.Equal(t, 20, cfg.Scan().TinyBufferThreshold)
	assert.NoError(t, cfg.Validate())
}
