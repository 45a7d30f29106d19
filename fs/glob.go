package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/imagechat"
)

// ResolveImage turns a user-typed attachment path into a file path. A leading
// "~/" is expanded to the home directory. Glob patterns (including **) are
// matched against supported image files and the first match in lexical
// order wins. Plain paths are returned unchanged; the file is checked when
// the attachment is encoded.
func ResolveImage(pattern string) (string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return "", fmt.Errorf("image path is required: %w", imagechat.ErrValidation)
	}
	if rest, ok := strings.CutPrefix(pattern, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pattern = filepath.Join(home, rest)
	}
	if !hasMeta(pattern) {
		return pattern, nil
	}

	matches, err := GlobImages(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no images match %s: %w", pattern, imagechat.ErrNotFound)
	}
	return matches[0], nil
}

// GlobImages returns the supported image files matching pattern, sorted.
func GlobImages(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("invalid glob pattern %s: %w", pattern, imagechat.ErrValidation)
	}
	candidates, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pattern, err)
	}

	var matches []string
	for _, path := range candidates {
		if imagechat.MimeTypeFromPath(path) == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		matches = append(matches, path)
	}
	slices.Sort(matches)
	return matches, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
