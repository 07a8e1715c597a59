package issues

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Ref is an issue identifier like ABC-12 and the branch it was extracted from.
type Ref struct {
	ID     string
	Branch string
}

func (r Ref) String() string { return r.ID }

// Extractor finds identifiers of the form PREFIX-NUMBER in text.
// The prefix is matched literally and case-insensitively.
type Extractor struct {
	Prefix string
	re     *regexp.Regexp
}

func NewExtractor(prefix string) (*Extractor, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.New("prefix must not be empty")
	}

	re, err := regexp.Compile(fmt.Sprintf(`(?i)%s-\d+`, regexp.QuoteMeta(prefix)))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid prefix %q", prefix)
	}

	return &Extractor{Prefix: prefix, re: re}, nil
}

// Find returns every identifier in text, in the order they appear. Duplicates are kept.
func (e *Extractor) Find(text string) []string {
	return e.re.FindAllString(text, -1)
}

// FromBranches returns a Ref for every identifier found in the branches, in branch order.
func (e *Extractor) FromBranches(branches []string) []Ref {
	var refs []Ref
	for _, branch := range branches {
		for _, id := range e.Find(branch) {
			refs = append(refs, Ref{ID: id, Branch: branch})
		}
	}
	return refs
}

// IDs returns just the identifiers of refs.
func IDs(refs []Ref) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}
