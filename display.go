package easyplot

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Displayer shows a saved chart to the user.
type Displayer interface {
	Display(ctx context.Context, path string) error
}

// SystemViewer opens images with the default viewer of the operating system.
// It does not wait for the viewer to exit, and the viewer outlives both the
// context passed to Display and the process.
type SystemViewer struct {
	logger  logrus.FieldLogger
	command func(name string, args ...string) *exec.Cmd
}

func NewSystemViewer(logger logrus.FieldLogger) *SystemViewer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &SystemViewer{
		logger:  logger.WithField("tag", "SystemViewer"),
		command: exec.Command,
	}
}

// Display starts the viewer unless ctx is already done.
func (v *SystemViewer) Display(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args := viewerCommand(runtime.GOOS, path)
	cmd := v.command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start image viewer %s: %w", name, err)
	}

	// Reap the process in the background so it does not linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			v.logger.WithError(err).Debug("image viewer exited with error")
		}
	}()

	v.logger.WithField("path", path).Info("opened plot in image viewer")
	return nil
}

func viewerCommand(goos string, path string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default: // "linux", "freebsd", "openbsd", "netbsd"
		return "xdg-open", []string{path}
	}
}
