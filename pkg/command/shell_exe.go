package command

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/naveego/anb/pkg/core"
	"github.com/pkg/errors"
)

type ShellExe struct {
	// Exe is the executable to invoke.
	Exe string
	// Args is the arguments to be passed to the exe.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	ctx context.Context
}

func NewShellExe(exe string, args ...string) *ShellExe {
	return &ShellExe{
		Exe:  exe,
		Args: args,
	}
}

func (c *ShellExe) WithDir(dir string) *ShellExe {
	c.Dir = dir
	return c
}

func (c *ShellExe) WithContext(ctx context.Context) *ShellExe {
	c.ctx = ctx
	return c
}

func (c *ShellExe) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", c.Exe, strings.Join(c.Args, " ")))
}

func (c *ShellExe) prepare() *exec.Cmd {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, c.Exe, c.Args...)
	cmd.Dir = c.Dir

	core.Log.WithField("exe", c.Exe).
		WithField("args", c.Args).
		WithField("dir", c.Dir).
		Debug("ShellExe prepared.")

	return cmd
}

// Output runs the command and returns its standard output exactly as written.
// If the command exits non-zero, the error includes whatever it wrote to stderr.
func (c *ShellExe) Output() (string, error) {
	cmd := c.prepare()

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			err = errors.WithMessage(err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(out), errors.Wrapf(err, "command failed: %s", c.String())
	}

	return string(out), nil
}
