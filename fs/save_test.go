package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/imagechat"
	"github.com/fwojciec/imagechat/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generated() imagechat.Message {
	return imagechat.Message{
		ID:     "abc",
		Sender: imagechat.SenderAI,
		Text:   imagechat.MultiImageText,
		Images: []imagechat.Image{
			{URL: "data:image/png;base64,b25l", MimeType: "image/png"},
			{URL: "data:image/png;base64,dHdv", MimeType: "image/png"},
		},
	}
}

func TestSaver_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes image under its download name", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s := &fs.Saver{Dir: dir}

		path, err := s.Save(generated(), 1)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "generated-image-abc-2.png"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "two", string(data))
	})

	t.Run("creates the output directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "out")
		s := &fs.Saver{Dir: dir}

		path, err := s.Save(generated(), 0)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "generated-image-abc-1.png")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
		s := &fs.Saver{Dir: dir}

		_, err := s.Save(generated(), 0)
		require.NoError(t, err)
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "one", string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s := &fs.Saver{Dir: dir}

		_, err := s.Save(generated(), 0)
		require.NoError(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "generated-image-abc-1.png", entries[0].Name())
	})

	t.Run("index out of range is not found", func(t *testing.T) {
		t.Parallel()
		s := &fs.Saver{Dir: t.TempDir()}
		_, err := s.Save(generated(), 2)
		assert.ErrorIs(t, err, imagechat.ErrNotFound)
	})

	t.Run("local preview cannot be saved", func(t *testing.T) {
		t.Parallel()
		s := &fs.Saver{Dir: t.TempDir()}
		msg := imagechat.Message{ID: "u", Images: []imagechat.Image{{URL: "file:///tmp/ref.png"}}}
		_, err := s.Save(msg, 0)
		assert.ErrorIs(t, err, imagechat.ErrValidation)
	})
}

func TestSaver_SaveAll(t *testing.T) {
	t.Parallel()

	t.Run("saves every image in order", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s := &fs.Saver{Dir: dir}

		paths, err := s.SaveAll(generated())
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "generated-image-abc-1.png"),
			filepath.Join(dir, "generated-image-abc-2.png"),
		}, paths)
	})

	t.Run("message without images saves nothing", func(t *testing.T) {
		t.Parallel()
		s := &fs.Saver{Dir: t.TempDir()}
		paths, err := s.SaveAll(imagechat.Message{ID: "x"})
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("returns paths written before a failure", func(t *testing.T) {
		t.Parallel()
		s := &fs.Saver{Dir: t.TempDir()}
		msg := generated()
		msg.Images[1].URL = "not a data uri"

		paths, err := s.SaveAll(msg)
		require.Error(t, err)
		assert.Len(t, paths, 1)
	})
}
