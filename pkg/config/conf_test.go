package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	dir := t.TempDir()

	c1, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Equal(t, "\t", c1.Delimiter)
	assert.Equal(t, FormatJSON, c1.Format)

	c1.Delimiter = ","
	c1.MinExpression = 5
	c1.AverageFilter = true
	c1.CPM = true
	c1.Format = FormatYAML

	require.NoError(t, Save(dir, c1))

	c2, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c2)
	assert.Equal(t, c1.Delimiter, c2.Delimiter)
	assert.Equal(t, c1.MinExpression, c2.MinExpression)
	assert.Equal(t, c1.AverageFilter, c2.AverageFilter)
	assert.Equal(t, c1.CPM, c2.CPM)
	assert.Equal(t, c1.Format, c2.Format)
}

func TestConfig_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profile")

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.FileExists(t, filepath.Join(dir, configFileName))
}

func TestConfig_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)

	assert.Error(t, Save("", getDefaultConfig()))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestGetOrCreateHomeDir_EmptyName(t *testing.T) {
	_, _, err := GetOrCreateHomeDir("")
	assert.Error(t, err)
}
