package git

import (
	"context"
	"strings"
)

// BranchLister produces branch names in listing order.
type BranchLister interface {
	Branches(ctx context.Context) ([]string, error)
}

// StaticBranches is a BranchLister over a fixed list.
type StaticBranches []string

func (s StaticBranches) Branches(ctx context.Context) ([]string, error) {
	return s, nil
}

// ParseBranches turns `git branch` output into branch names, dropping the
// markers git puts in front of the current branch and of branches checked
// out in other worktrees.
func ParseBranches(text string) []string {
	var branches []string
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		name = strings.TrimLeft(name, "*+")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}
