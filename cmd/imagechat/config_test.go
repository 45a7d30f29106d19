package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/imagechat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		o, err := parseFlags([]string{
			"-config", "c.toml", "-model", "m", "-aspect", "16:9", "-variations", "2",
			"-out", "imgs", "-prompt", "p", "-image", "r.png", "-log", "l.log",
		}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, options{
			configPath: "c.toml", model: "m", aspect: "16:9", variations: 2,
			outDir: "imgs", prompt: "p", image: "r.png", logPath: "l.log",
		}, o)
		assert.True(t, o.headless())
	})

	t.Run("no flags means TUI mode", func(t *testing.T) {
		t.Parallel()
		o, err := parseFlags(nil, io.Discard)
		require.NoError(t, err)
		assert.False(t, o.headless())
	})

	t.Run("image alone is headless", func(t *testing.T) {
		t.Parallel()
		o, err := parseFlags([]string{"-image", "r.png"}, io.Discard)
		require.NoError(t, err)
		assert.True(t, o.headless())
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := parseFlags([]string{"stray"}, io.Discard)
		assert.ErrorContains(t, err, "unexpected arguments: stray")
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		_, err := parseFlags([]string{"-api-key", "x"}, io.Discard)
		assert.Error(t, err)
	})
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep file values", func(t *testing.T) {
		t.Parallel()
		file := imagechat.Config{Model: "file-model", AspectRatio: imagechat.AspectPortrait, Variations: 2, OutputDir: "file-out"}
		cfg, err := applyFlags(file, options{})
		require.NoError(t, err)
		assert.Equal(t, file, cfg)
	})

	t.Run("set flags override file values", func(t *testing.T) {
		t.Parallel()
		cfg, err := applyFlags(imagechat.DefaultConfig(), options{
			model: "flag-model", aspect: "4:3", variations: 3, outDir: "flag-out",
		})
		require.NoError(t, err)
		assert.Equal(t, imagechat.Config{
			Model: "flag-model", AspectRatio: imagechat.AspectStandardLandscape, Variations: 3, OutputDir: "flag-out",
		}, cfg)
	})

	t.Run("unknown aspect ratio", func(t *testing.T) {
		t.Parallel()
		_, err := applyFlags(imagechat.DefaultConfig(), options{aspect: "2:1"})
		assert.ErrorIs(t, err, imagechat.ErrValidation)
	})

	t.Run("too many variations", func(t *testing.T) {
		t.Parallel()
		_, err := applyFlags(imagechat.DefaultConfig(), options{variations: 4})
		assert.ErrorIs(t, err, imagechat.ErrValidation)
	})
}

func TestResolveConfig(t *testing.T) {
	t.Run("missing default file yields defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := resolveConfig(options{})
		require.NoError(t, err)
		assert.Equal(t, imagechat.DefaultConfig(), cfg)
	})

	t.Run("default file is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".imagechat")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("variations = 2\n"), 0o644))

		cfg, err := resolveConfig(options{})
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Variations)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := resolveConfig(options{configPath: filepath.Join(t.TempDir(), "absent.toml")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("flags override the explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.toml")
		require.NoError(t, os.WriteFile(path, []byte("aspect_ratio = \"9:16\"\nvariations = 2\n"), 0o644))

		cfg, err := resolveConfig(options{configPath: path, variations: 1})
		require.NoError(t, err)
		assert.Equal(t, imagechat.AspectPortrait, cfg.AspectRatio)
		assert.Equal(t, 1, cfg.Variations)
	})
}

func TestBuildSubmission(t *testing.T) {
	t.Parallel()

	cfg := imagechat.Config{Model: "m", AspectRatio: imagechat.AspectLandscape, Variations: 2, OutputDir: "."}

	t.Run("prompt only", func(t *testing.T) {
		t.Parallel()
		sub, err := buildSubmission(options{prompt: "um barco"}, cfg)
		require.NoError(t, err)
		assert.Equal(t, imagechat.Submission{
			Prompt: "um barco", AspectRatio: imagechat.AspectLandscape, Variations: 2,
		}, sub)
	})

	t.Run("image pattern is resolved", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		ref := filepath.Join(dir, "ref.png")
		require.NoError(t, os.WriteFile(ref, []byte("x"), 0o644))

		sub, err := buildSubmission(options{image: filepath.Join(dir, "*.png")}, cfg)
		require.NoError(t, err)
		require.NotNil(t, sub.Attachment)
		assert.Equal(t, ref, sub.Attachment.Path)
	})

	t.Run("pattern without matches", func(t *testing.T) {
		t.Parallel()
		_, err := buildSubmission(options{image: filepath.Join(t.TempDir(), "*.png")}, cfg)
		assert.ErrorIs(t, err, imagechat.ErrNotFound)
	})

	t.Run("blank prompt without image", func(t *testing.T) {
		t.Parallel()
		_, err := buildSubmission(options{prompt: "  "}, cfg)
		assert.ErrorIs(t, err, imagechat.ErrValidation)
	})
}

func TestInitConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	var out bytes.Buffer

	require.NoError(t, initConfig(path, &out))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)

	assert.ErrorIs(t, initConfig(path, &out), os.ErrExist)
}
