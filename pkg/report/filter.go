package report

import "github.com/naveego/anb/pkg/issues"

// Filter keeps the records whose status equals status, ignoring case. An
// empty status keeps everything. Order is preserved.
func Filter(records []issues.Record, status string) []issues.Record {
	if status == "" {
		return records
	}

	out := []issues.Record{}
	for _, r := range records {
		if r.HasStatus(status) {
			out = append(out, r)
		}
	}
	return out
}
