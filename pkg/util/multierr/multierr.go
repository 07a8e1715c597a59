package multierr

import (
	"fmt"
	"strings"
	"sync"
)

func New(err ...error) Collector {
	m := &multiError{}
	m.Collect(err...)
	return m
}

type Collector interface {
	Collect(err ...error)
	Errors() []error
	ToError() error
}

type multiError struct {
	mu     sync.Mutex
	errors []error
}

// Collect records every non-nil error.
func (m *multiError) Collect(err ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range err {
		if e != nil {
			m.errors = append(m.errors, e)
		}
	}
}

func (m *multiError) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]error, len(m.errors))
	copy(out, m.errors)
	return out
}

// ToError returns nil when nothing was collected, the error itself when one
// was, and a combined error otherwise.
func (m *multiError) ToError() error {
	errs := m.Errors()
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &Error{Errors: errs}
}

// Error is several errors reported together.
type Error struct {
	Errors []error
}

func (e *Error) Error() string {
	lines := []string{fmt.Sprintf("%d errors occurred:", len(e.Errors))}
	for _, err := range e.Errors {
		lines = append(lines, "  * "+err.Error())
	}
	return strings.Join(lines, "\n")
}
