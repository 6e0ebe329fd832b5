package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ExecCopier copies files by invoking an external copy tool, e.g.
// "/bin/cp -p". The tool is expected to take the source file and the
// destination directory as its last two arguments and exit non-zero on
// failure. No timeout is applied beyond context cancellation.
type ExecCopier struct {
	tool   string
	args   []string
	logger *slog.Logger
}

// NewExecCopier creates an ExecCopier for the given tool path and fixed
// leading arguments.
func NewExecCopier(tool string, args ...string) *ExecCopier {
	return &ExecCopier{
		tool:   tool,
		args:   args,
		logger: slog.Default().With("component", "archive.copier"),
	}
}

// Available verifies the tool exists and is executable.
func (c *ExecCopier) Available() error {
	if strings.ContainsRune(c.tool, os.PathSeparator) {
		info, err := os.Stat(c.tool)
		if err != nil {
			return fmt.Errorf("copy tool %q: %w", c.tool, err)
		}
		if info.IsDir() || info.Mode()&0o111 == 0 {
			return fmt.Errorf("copy tool %q is not executable", c.tool)
		}
		return nil
	}
	if _, err := exec.LookPath(c.tool); err != nil {
		return fmt.Errorf("copy tool %q: %w", c.tool, err)
	}
	return nil
}

// Copy invokes the tool with src and destDir appended to the configured
// arguments and waits for it to finish.
func (c *ExecCopier) Copy(ctx context.Context, src, destDir string) error {
	args := append(append([]string{}, c.args...), src, destDir)

	c.logger.Debug("invoking copy tool", "tool", c.tool, "args", args)

	cmd := exec.CommandContext(ctx, c.tool, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", c.tool, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", c.tool, strings.Join(args, " "), err)
	}
	return nil
}

var _ Copier = (*ExecCopier)(nil)
