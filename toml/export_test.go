package toml

import (
	"io"

	"github.com/fwojciec/imagechat"
)

// SaveWith exports save with a replaceable writer for testing.
func SaveWith(path string, cfg imagechat.Config, overwrite bool, write func(io.Writer, imagechat.Config) error) error {
	return save(path, cfg, overwrite, write)
}
