package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
}

func TestLoadSources_FilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "b-verge.yml", "url: https://example.com/verge\nenabled: true\n")
	writeSourceFile(t, dir, "a-techcrunch.yml", "name: TechCrunch\nurl: https://example.com/tc\nenabled: true\n")

	sources, err := LoadSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "TechCrunch", sources[0].Name)
	assert.Equal(t, "b-verge", sources[1].Name, "name should default to the filename")
}

func TestLoadSources_MissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yml", "name: Broken\nenabled: true\n")

	_, err := LoadSources(dir)
	assert.Error(t, err)
}

func TestLoadSources_MissingDir(t *testing.T) {
	sources, err := LoadSources(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestLoadSources_DisabledFeedKept(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "paused.yml", "url: https://example.com/paused\nenabled: false\n")

	sources, err := LoadSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.False(t, sources[0].Enabled)
}
