package issues

import (
	"context"
	"strings"
)

// Record is the tracker's view of one issue, tagged with the branch it was found on.
type Record struct {
	ID      string `yaml:"id" json:"id"`
	Branch  string `yaml:"branch,omitempty" json:"branch,omitempty"`
	Summary string `yaml:"summary" json:"summary"`
	Status  string `yaml:"status" json:"status"`
}

// HasStatus reports whether the record's status matches status, ignoring case.
func (r Record) HasStatus(status string) bool {
	return strings.EqualFold(r.Status, status)
}

// IssueGetter fetches tracker metadata for a single identifier.
type IssueGetter interface {
	GetIssue(ctx context.Context, ref Ref) (Record, error)
}

// IssueGetterFunc adapts a function to IssueGetter.
type IssueGetterFunc func(ctx context.Context, ref Ref) (Record, error)

func (f IssueGetterFunc) GetIssue(ctx context.Context, ref Ref) (Record, error) {
	return f(ctx, ref)
}
