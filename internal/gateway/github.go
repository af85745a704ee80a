// Package gateway provides the outbound adapters of the application: the
// metrics backend over plain HTTP, and GitHub over its REST and GraphQL APIs.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

const defaultGitHubAPIURL = "https://api.github.com"

// IssueLabeler defines the behavior of a gateway for reading and changing issue labels.
type IssueLabeler interface {
	FetchIssueLabels(ctx context.Context, issue domain.IssueRef) ([]string, error)
	AddLabel(ctx context.Context, issue domain.IssueRef, label string) error
	ListAssignedIssues(ctx context.Context, owner, repo string) ([]domain.IssueRef, error)
}

// GitHubGateway is the concrete implementation of the IssueLabeler interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
}

// issueLabelsQuery reads the current labels of one issue, 100 at a time.
type issueLabelsQuery struct {
	Repository struct {
		Issue struct {
			Labels struct {
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
				Nodes []struct {
					Name string
				}
			} `graphql:"labels(first: 100, after: $cursor)"`
		} `graphql:"issue(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Empty URLs select github.com.
func NewGitHubGateway(token, apiURL, graphqlURL string, logger logrus.FieldLogger) (IssueLabeler, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if apiURL != "" && apiURL != defaultGitHubAPIURL {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure GitHub API URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if graphqlURL != "" && graphqlURL != defaultGitHubAPIURL+"/graphql" {
		graphqlClient = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// FetchIssueLabels returns the labels currently on the issue. The labels in a
// webhook payload can be stale by the time the job runs, so they are read again.
func (g *GitHubGateway) FetchIssueLabels(ctx context.Context, issue domain.IssueRef) ([]string, error) {
	variables := map[string]interface{}{
		"owner":  githubv4.String(issue.Owner),
		"name":   githubv4.String(issue.Repo),
		"number": githubv4.Int(issue.Number),
		"cursor": (*githubv4.String)(nil),
	}
	var labels []string
	for {
		var q issueLabelsQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for labels of %s: %w", issue, err)
		}
		for _, node := range q.Repository.Issue.Labels.Nodes {
			labels = append(labels, node.Name)
		}
		if !q.Repository.Issue.Labels.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.Issue.Labels.PageInfo.EndCursor)
		g.logger.WithField("issue", issue.String()).Debug("  Fetching next page of labels...")
	}
	return labels, nil
}

// AddLabel adds a single label to the issue. GitHub creates the label in the
// repository if it does not exist yet.
func (g *GitHubGateway) AddLabel(ctx context.Context, issue domain.IssueRef, label string) error {
	_, _, err := g.restClient.Issues.AddLabelsToIssue(ctx, issue.Owner, issue.Repo, issue.Number, []string{label})
	if err != nil {
		return fmt.Errorf("failed to add label %q to %s: %w", label, issue, err)
	}
	g.logger.WithFields(logrus.Fields{"issue": issue.String(), "label": label}).Info("Label added.")
	return nil
}

// ListAssignedIssues lists open issues that have at least one assignee.
// Pull requests are skipped.
func (g *GitHubGateway) ListAssignedIssues(ctx context.Context, owner, repo string) ([]domain.IssueRef, error) {
	g.logger.WithField("repository", owner+"/"+repo).Debug("Listing assigned issues using REST API...")
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Assignee:    "*",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var issues []domain.IssueRef
	for {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues with REST API: %w", err)
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, domain.IssueRef{Owner: owner, Repo: repo, Number: issue.GetNumber()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of issues...")
	}
	g.logger.WithField("count", len(issues)).Debug("Completed listing assigned issues.")
	return issues, nil
}
