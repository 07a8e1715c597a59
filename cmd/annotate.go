package cmd

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/naveego/anb/pkg/annotate"
	"github.com/naveego/anb/pkg/config"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/git"
	"github.com/naveego/anb/pkg/issues"
	"github.com/naveego/anb/pkg/jira"
	"github.com/naveego/anb/pkg/report"
	"github.com/pkg/errors"
)

// runAnnotate prints the report for the branches from lister. Records go to
// out; failed lookups go to errOut and make the returned error non-nil.
func runAnnotate(ctx context.Context, c config.Config, lister git.BranchLister, out, errOut io.Writer) error {
	renderer, err := report.NewRenderer(c.Output, color.NoColor)
	if err != nil {
		return err
	}

	extractor, err := issues.NewExtractor(c.Prefix)
	if err != nil {
		return core.NewError(core.KindConfig, "prefix", err)
	}

	tracker, err := jira.NewClient(jira.Options{
		Server:   c.Server,
		Username: c.Username,
		Password: c.Password,
		Timeout:  c.Timeout,
	})
	if err != nil {
		return err
	}

	result, err := annotate.Annotator{
		Lister:      lister,
		Tracker:     tracker,
		Extractor:   extractor,
		Strict:      c.Strict,
		Concurrency: c.Concurrency,
	}.Run(ctx)
	if err != nil {
		return err
	}

	records := report.Filter(result.Records, c.StatusFilter)
	if err = renderer.Render(out, records); err != nil {
		return errors.Wrap(err, "render report")
	}

	failed := result.Err()
	if failed == nil {
		return nil
	}

	if err = report.RenderFailures(errOut, result.Failures, color.NoColor); err != nil {
		return errors.Wrap(err, "render failures")
	}
	return errors.Wrapf(failed, "%d of %d issues could not be fetched", len(result.Failures), len(result.Refs))
}
