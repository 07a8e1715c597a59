package jira

import (
	"context"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/issues"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// IssuePath is the issue-detail endpoint, relative to the server root.
const IssuePath = "rest/api/latest/issue/"

type Options struct {
	// Server is host[:port]. A value with an explicit scheme is used as-is.
	Server   string
	Username string
	Password string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

type Client struct {
	jira *jira.Client
	log  *logrus.Entry
}

var _ issues.IssueGetter = &Client{}

func NewClient(opts Options) (*Client, error) {
	if opts.Server == "" {
		return nil, core.ConfigErrorf("tracker server must be set")
	}

	tp := jira.BasicAuthTransport{
		Username: opts.Username,
		Password: opts.Password,
	}
	httpClient := tp.Client()
	httpClient.Timeout = opts.Timeout

	baseURL := BaseURL(opts.Server)
	jiraClient, err := jira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, core.NewError(core.KindConfig, "create tracker client", err)
	}

	return &Client{
		jira: jiraClient,
		log:  core.Log.WithField("cmp", "jira").WithField("server", baseURL),
	}, nil
}

// BaseURL returns the tracker root for server, defaulting to https.
func BaseURL(server string) string {
	server = strings.TrimRight(server, "/")
	if strings.HasPrefix(server, "http://") || strings.HasPrefix(server, "https://") {
		return server + "/"
	}
	return "https://" + server + "/"
}

// issueResponse holds the fields we need from an issue. Pointers let us tell
// a missing field apart from an empty one.
type issueResponse struct {
	Key    string `json:"key"`
	Fields *struct {
		Summary *string `json:"summary"`
		Status  *struct {
			Name *string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// GetIssue performs one request for ref and returns its summary and status.
func (c *Client) GetIssue(ctx context.Context, ref issues.Ref) (issues.Record, error) {
	log := c.log.WithField("id", ref.ID)

	req, err := c.jira.NewRequestWithContext(ctx, http.MethodGet, IssuePath+ref.ID, nil)
	if err != nil {
		return issues.Record{}, core.NewError(core.KindNetwork, "build request", err).WithID(ref.ID)
	}

	var body issueResponse
	res, err := c.jira.Do(req, &body)
	if err != nil {
		return issues.Record{}, classify(ref.ID, res, err)
	}

	log.WithField("status", res.StatusCode).Debug("Fetched issue.")

	return body.toRecord(ref)
}

func (r issueResponse) toRecord(ref issues.Ref) (issues.Record, error) {
	missing := func(field string) error {
		return core.NewError(core.KindParse, "decode issue", errors.Errorf("response has no %s", field)).WithID(ref.ID)
	}

	switch {
	case r.Fields == nil:
		return issues.Record{}, missing("fields")
	case r.Fields.Summary == nil:
		return issues.Record{}, missing("fields.summary")
	case r.Fields.Status == nil:
		return issues.Record{}, missing("fields.status")
	case r.Fields.Status.Name == nil:
		return issues.Record{}, missing("fields.status.name")
	}

	return issues.Record{
		ID:      ref.ID,
		Branch:  ref.Branch,
		Summary: *r.Fields.Summary,
		Status:  *r.Fields.Status.Name,
	}, nil
}

// classify sorts a failed request into transport, status or decode failures.
func classify(id string, res *jira.Response, err error) error {
	if res == nil || res.Response == nil {
		return core.NewError(core.KindNetwork, "request issue", err).WithID(id)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detailed := detailedErr(res, err)
		return core.NewError(core.KindStatus, http.StatusText(res.StatusCode), detailed).WithID(id)
	}

	return core.NewError(core.KindParse, "decode issue", err).WithID(id)
}

func detailedErr(res *jira.Response, err error) error {
	if res.Body == nil {
		return err
	}
	// NewJiraError reads and closes the body.
	return jira.NewJiraError(res, err)
}
