package config

import (
	"bytes"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("HistoryPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(tempDir, "history"), cfg.HistoryPath())
	})
}

func TestInitializeFs_keepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/cfg", 0700))
	require.NoError(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("prompt: 'custom> '\n"), 0600))

	out := &bytes.Buffer{}
	cfg, err := InitializeFs(fsys, "/cfg", log.New(out, "", 0))
	require.NoError(t, err)

	assert.Equal(t, "custom> ", cfg.Prompt)
	assert.Contains(t, out.String(), "already exists")
}

func TestInitializeFs_writesDefault(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := InitializeFs(fsys, "/new/dir", log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)

	data, err := afero.ReadFile(fsys, "/new/dir/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigData(), data)
}
