// Package toml loads and writes the user configuration file.
package toml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/imagechat"
)

// DefaultPath returns ~/.imagechat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".imagechat", "config.toml"), nil
}

// Load decodes the file at path over [imagechat.DefaultConfig] and validates
// the result. Unknown keys are rejected.
func Load(path string) (imagechat.Config, error) {
	cfg := imagechat.DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return imagechat.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return imagechat.Config{}, fmt.Errorf("load config %s: unknown keys %s: %w",
			path, strings.Join(keys, ", "), imagechat.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return imagechat.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (imagechat.Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return imagechat.DefaultConfig(), nil
	}
	return cfg, err
}

// Save writes cfg to path, creating parent directories. An existing file is
// left untouched unless overwrite is set.
func Save(path string, cfg imagechat.Config, overwrite bool) error {
	return save(path, cfg, overwrite, writeConfig)
}

func save(path string, cfg imagechat.Config, overwrite bool, write func(io.Writer, imagechat.Config) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}

	if err := write(f, cfg); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close config %s: %w", path, err)
	}
	return nil
}

func writeConfig(w io.Writer, cfg imagechat.Config) error {
	header := "# imagechat configuration\n" +
		"# The API key is read from the API_KEY environment variable, never from this file.\n\n"
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write config header: %w", err)
	}
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
