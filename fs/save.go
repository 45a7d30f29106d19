package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/imagechat"
)

// Interface compliance check.
var _ imagechat.ImageSaver = (*Saver)(nil)

// Saver writes generated images under Dir using their download names.
type Saver struct {
	Dir string
}

// Save writes the image at index of msg and returns the written path.
func (s *Saver) Save(msg imagechat.Message, index int) (string, error) {
	if index < 0 || index >= len(msg.Images) {
		return "", fmt.Errorf("image %d of message %q: %w", index+1, msg.ID, imagechat.ErrNotFound)
	}
	data, _, err := DecodeDataURI(msg.Images[index].URL)
	if err != nil {
		return "", fmt.Errorf("image %d of message %q: %w", index+1, msg.ID, err)
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, imagechat.DownloadName(msg.ID, index))
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAll saves every image of msg in order. It stops at the first failure
// and returns the paths written so far.
func (s *Saver) SaveAll(msg imagechat.Message) ([]string, error) {
	paths := make([]string, 0, len(msg.Images))
	for i := range msg.Images {
		path, err := s.Save(msg, i)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".imagechat-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
