package core_test

import (
	"bytes"

	. "github.com/naveego/anb/pkg/core"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Error", func() {
	It("should describe kind, operation, id and cause", func() {
		err := NewError(KindParse, "decode issue", errors.New("response has no fields")).WithID("ABC-1")
		Expect(err.Error()).To(Equal("ParseError: decode issue ABC-1: response has no fields"))
	})

	It("should be found through wrapped errors", func() {
		inner := NewError(KindExecution, "git branch", errors.New("exit status 128"))
		wrapped := errors.Wrap(errors.Wrap(inner, "list branches"), "annotate")

		Expect(KindOf(wrapped)).To(Equal(KindExecution))
		Expect(IsKind(wrapped, KindExecution)).To(BeTrue())
		Expect(IsKind(wrapped, KindNetwork)).To(BeFalse())
		found, ok := AsError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(inner))
	})

	It("should have no kind for plain errors", func() {
		Expect(KindOf(errors.New("plain"))).To(BeEmpty())
		Expect(KindOf(nil)).To(BeEmpty())
	})

	It("should not modify the original when binding an id", func() {
		base := ConfigErrorf("bad %s", "thing")
		bound := base.WithID("X-1")
		Expect(base.ID).To(BeEmpty())
		Expect(bound.ID).To(Equal("X-1"))
		Expect(bound.Kind).To(Equal(KindConfig))
	})
})

var _ = Describe("ConfigureLogging", func() {
	AfterEach(func() {
		ConfigureLogging(nil, false)
	})

	It("should only log debug output when verbose", func() {
		buf := new(bytes.Buffer)
		ConfigureLogging(buf, false)
		Log.Debug("hidden")
		Expect(buf.String()).ToNot(ContainSubstring("hidden"))

		ConfigureLogging(buf, true)
		Log.WithField("cmp", "test").Debug("shown")
		Expect(buf.String()).To(ContainSubstring("shown"))
	})
})
