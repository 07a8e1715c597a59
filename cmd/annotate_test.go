package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/naveego/anb/pkg/config"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/git"
	"github.com/naveego/anb/pkg/util/multierr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var stubIssues = map[string]string{
	"ABC-12": `{"fields":{"summary":"Add login","status":{"name":"In Progress"}}}`,
	"ABC-7":  `{"fields":{"summary":"Fix crash","status":{"name":"Done"}}}`,
	"ABC-8":  `{"fields":{"summary":"Broken","status":{}}}`,
}

var _ = Describe("runAnnotate", func() {
	var (
		server   *httptest.Server
		requests int32
		c        config.Config
		out      *bytes.Buffer
		errOut   *bytes.Buffer
		lister   git.BranchLister
	)

	BeforeEach(func() {
		requests = 0
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			if user, pass, ok := r.BasicAuth(); !ok || user != "alice" || pass != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			body, ok := stubIssues[strings.TrimPrefix(r.URL.Path, "/rest/api/latest/issue/")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = fmt.Fprint(w, `{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`)
				return
			}
			_, _ = fmt.Fprint(w, body)
		}))

		c = config.Config{
			Prefix:      "ABC",
			Server:      server.URL,
			Username:    "alice",
			Password:    "s3cret",
			Concurrency: 1,
			Output:      "line",
		}
		out = new(bytes.Buffer)
		errOut = new(bytes.Buffer)
		lister = git.StaticBranches(git.ParseBranches("  feature/ABC-12-login\n* ABC-7-fix\n  master\n"))
	})

	AfterEach(func() {
		server.Close()
	})

	run := func() error {
		return runAnnotate(context.Background(), c, lister, out, errOut)
	}

	It("should print every issue in branch order", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(Equal(
			"ABC-12               Add login (In Progress)\n" +
				"ABC-7                Fix crash (Done)\n"))
		Expect(errOut.String()).To(BeEmpty())
		Expect(atomic.LoadInt32(&requests)).To(BeEquivalentTo(2))
	})

	It("should filter by status ignoring case", func() {
		c.StatusFilter = "done"
		Expect(run()).To(Succeed())
		Expect(out.String()).To(Equal("ABC-7                Fix crash (Done)\n"))
	})

	It("should keep order with concurrent lookups", func() {
		c.Concurrency = 4
		Expect(run()).To(Succeed())
		Expect(strings.Index(out.String(), "ABC-12")).To(BeNumerically("<", strings.Index(out.String(), "ABC-7")))
	})

	It("should print nothing in strict mode when a response is missing the status", func() {
		c.Strict = true
		lister = git.StaticBranches{"ABC-12-login", "ABC-8-broken", "ABC-7-fix"}

		err := run()

		Expect(core.IsKind(err, core.KindParse)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("ABC-8"))
		Expect(out.String()).To(BeEmpty())
	})

	It("should report failed lookups and still print the rest", func() {
		lister = git.StaticBranches{"ABC-12-login", "ABC-404-gone", "ABC-7-fix"}

		err := run()

		Expect(err.Error()).To(HavePrefix("1 of 3 issues could not be fetched: "))
		cause, ok := core.AsError(err)
		Expect(ok).To(BeTrue())
		Expect(cause.Kind).To(Equal(core.KindStatus))
		Expect(cause.ID).To(Equal("ABC-404"))
		Expect(out.String()).To(ContainSubstring("ABC-12 "))
		Expect(out.String()).To(ContainSubstring("ABC-7 "))
		Expect(out.String()).ToNot(ContainSubstring("ABC-404"))
		Expect(errOut.String()).To(HavePrefix("ABC-404 "))
		Expect(errOut.String()).To(ContainSubstring("StatusError"))
	})

	It("should list every failed identifier in the returned error", func() {
		lister = git.StaticBranches{"ABC-404-gone", "ABC-12-login", "ABC-405-gone"}

		err := run()

		Expect(err.Error()).To(HavePrefix("2 of 3 issues could not be fetched: 2 errors occurred:"))
		combined, ok := errors.Cause(err).(*multierr.Error)
		Expect(ok).To(BeTrue())
		Expect(combined.Errors).To(HaveLen(2))
		var ids []string
		for _, e := range combined.Errors {
			ce, ok := core.AsError(e)
			Expect(ok).To(BeTrue())
			Expect(ce.Kind).To(Equal(core.KindStatus))
			ids = append(ids, ce.ID)
		}
		Expect(ids).To(Equal([]string{"ABC-404", "ABC-405"}))
		Expect(out.String()).To(Equal("ABC-12               Add login (In Progress)\n"))
	})

	It("should report bad credentials as status errors", func() {
		c.Strict = true
		c.Password = "wrong"
		err := run()
		Expect(core.IsKind(err, core.KindStatus)).To(BeTrue())
	})

	It("should render other formats", func() {
		c.Output = "json"
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"summary": "Add login"`))
	})

	It("should reject unknown formats before doing any work", func() {
		c.Output = "xml"
		Expect(core.IsKind(run(), core.KindConfig)).To(BeTrue())
		Expect(atomic.LoadInt32(&requests)).To(BeZero())
	})

	It("should make no requests when no branch has an identifier", func() {
		lister = git.StaticBranches{"master", "develop"}
		Expect(run()).To(Succeed())
		Expect(out.String()).To(BeEmpty())
		Expect(atomic.LoadInt32(&requests)).To(BeZero())
	})
})

var _ = Describe("config command", func() {
	It("should print the merged config without the password", func() {
		dir, err := ioutil.TempDir("", "anb-cmd-")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, config.FileName)
		Expect(ioutil.WriteFile(path, []byte(`
prefix = "ABC"
server = "jira.example.com"
username = "alice"
password = "s3cret"
`), 0600)).To(Succeed())

		out := new(bytes.Buffer)
		rootCmd.SetOutput(out)
		rootCmd.SetArgs([]string{"config", "--config-file", path, "-s", "Done"})
		defer rootCmd.SetArgs(nil)

		Expect(rootCmd.Execute()).To(Succeed())

		Expect(out.String()).To(ContainSubstring("# read from " + path))
		Expect(out.String()).To(ContainSubstring("prefix: ABC"))
		Expect(out.String()).To(ContainSubstring("status: Done"))
		Expect(out.String()).To(ContainSubstring("********"))
		Expect(out.String()).ToNot(ContainSubstring("s3cret"))
	})
})
