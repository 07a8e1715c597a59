package git

import (
	"context"

	"github.com/naveego/anb/pkg/command"
	"github.com/naveego/anb/pkg/core"
)

// GitWrapper runs git against a working directory. An empty dir means the
// process's current directory.
type GitWrapper struct {
	dir string
	exe string
}

var _ BranchLister = GitWrapper{}

func NewGitWrapper(dir string) GitWrapper {
	return GitWrapper{
		dir: dir,
		exe: "git",
	}
}

// WithExe returns a copy of the wrapper that invokes exe instead of git.
func (g GitWrapper) WithExe(exe string) GitWrapper {
	g.exe = exe
	return g
}

// Exec runs git with args and returns its stdout unmodified.
func (g GitWrapper) Exec(ctx context.Context, args ...string) (string, error) {
	out, err := command.NewShellExe(g.exe, args...).WithDir(g.dir).WithContext(ctx).Output()
	if err != nil {
		return "", core.NewError(core.KindExecution, "git", err)
	}
	return out, nil
}

// BranchText returns the output of `git branch` as-is.
func (g GitWrapper) BranchText(ctx context.Context) (string, error) {
	return g.Exec(ctx, "branch")
}

// Branches lists local branch names in the order git prints them.
func (g GitWrapper) Branches(ctx context.Context) ([]string, error) {
	text, err := g.BranchText(ctx)
	if err != nil {
		return nil, err
	}

	branches := ParseBranches(text)
	core.Log.WithField("cmp", "git").WithField("count", len(branches)).Debug("Listed branches.")
	return branches, nil
}
