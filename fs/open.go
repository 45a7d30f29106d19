package fs

import (
	"fmt"
	osexec "os/exec"
	"runtime"

	"github.com/fwojciec/imagechat"
)

// Interface compliance check.
var _ imagechat.Viewer = (*Opener)(nil)

// Opener opens saved images in the platform's default viewer.
type Opener struct {
	// GOOS selects the viewer command. Default is runtime.GOOS.
	GOOS string
	// Start launches the command without waiting for it. Default starts an
	// os/exec command.
	Start func(name string, args ...string) error
}

// Open launches the viewer for path.
func (o *Opener) Open(path string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args, err := ViewerCommand(goos, path)
	if err != nil {
		return err
	}
	start := o.Start
	if start == nil {
		start = startDetached
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// ViewerCommand returns the command that opens path on goos.
func ViewerCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("no image viewer for %s: %w", goos, imagechat.ErrValidation)
	}
}

func startDetached(name string, args ...string) error {
	cmd := osexec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
