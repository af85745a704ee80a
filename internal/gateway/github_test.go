package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewEnterpriseClient(server.URL+"/graphql", server.Client())

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        discardLogger(),
	}

	return gateway, server
}

var testIssue = domain.IssueRef{Owner: "octo", Repo: "jobs", Number: 7}

func TestGitHubGateway_FetchIssueLabels(t *testing.T) {
	testCases := []struct {
		name           string
		responses      []string
		expected       []string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:      "happy path - single page",
			responses: []string{`{"data":{"repository":{"issue":{"labels":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[{"name":"bug"},{"name":"in progress"}]}}}}}`},
			expected:  []string{"bug", "in progress"},
		},
		{
			name: "follows the cursor across pages",
			responses: []string{
				`{"data":{"repository":{"issue":{"labels":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[{"name":"bug"}]}}}}}`,
				`{"data":{"repository":{"issue":{"labels":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[{"name":"help wanted"}]}}}}}`,
			},
			expected: []string{"bug", "help wanted"},
		},
		{
			name:      "no labels",
			responses: []string{`{"data":{"repository":{"issue":{"labels":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[]}}}}}`},
			expected:  nil,
		},
		{
			name:           "error case - GraphQL returns errors",
			responses:      []string{`{"errors":[{"message":"Could not resolve to an Issue"}]}`},
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for labels of octo/jobs#7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			call := 0
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/graphql", r.URL.Path)
				var body struct {
					Query     string                 `json:"query"`
					Variables map[string]interface{} `json:"variables"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Contains(t, body.Query, "issue(number: $number)")
				assert.Equal(t, "octo", body.Variables["owner"])
				assert.Equal(t, float64(7), body.Variables["number"])
				if call > 0 {
					assert.Equal(t, "c1", body.Variables["cursor"])
				}

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responses[call])
				call++
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			labels, err := gateway.FetchIssueLabels(context.Background(), testIssue)

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, labels)
				assert.Equal(t, len(tc.responses), call)
			}
		})
	}
}

func TestGitHubGateway_AddLabel(t *testing.T) {
	testCases := []struct {
		name           string
		status         int
		expectError    bool
		expectedErrMsg string
	}{
		{name: "happy path", status: http.StatusOK},
		{name: "error case - forbidden", status: http.StatusForbidden, expectError: true, expectedErrMsg: `failed to add label "in progress" to octo/jobs#7`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/repos/octo/jobs/issues/7/labels", r.URL.Path)
				var labels []string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&labels))
				assert.Equal(t, []string{"in progress"}, labels)

				w.WriteHeader(tc.status)
				if tc.status == http.StatusOK {
					fmt.Fprint(w, `[{"name":"in progress"}]`)
				} else {
					fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
				}
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			err := gateway.AddLabel(context.Background(), testIssue, "in progress")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGitHubGateway_ListAssignedIssues(t *testing.T) {
	var serverURL string
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/jobs/issues", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("assignee"))
		assert.Equal(t, "open", r.URL.Query().Get("state"))

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"number": 3}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/jobs/issues?page=2>; rel="next"`, serverURL))
		fmt.Fprint(w, `[{"number": 1}, {"number": 2, "pull_request": {"url": "https://example.com/pr/2"}}]`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()
	serverURL = server.URL

	issues, err := gateway.ListAssignedIssues(context.Background(), "octo", "jobs")

	require.NoError(t, err)
	assert.Equal(t, []domain.IssueRef{
		{Owner: "octo", Repo: "jobs", Number: 1},
		{Owner: "octo", Repo: "jobs", Number: 3},
	}, issues)
}

func TestGitHubGateway_ListAssignedIssues_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "Internal Server Error"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	_, err := gateway.ListAssignedIssues(context.Background(), "octo", "jobs")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list issues with REST API")
}

func TestNewGitHubGateway(t *testing.T) {
	labeler, err := NewGitHubGateway("token", "", "", discardLogger())
	require.NoError(t, err)
	gw, ok := labeler.(*GitHubGateway)
	require.True(t, ok)
	assert.Equal(t, "https://api.github.com/", gw.restClient.BaseURL.String())

	labeler, err = NewGitHubGateway("token", "https://ghe.example.com/api/v3/", "https://ghe.example.com/api/graphql", discardLogger())
	require.NoError(t, err)
	gw = labeler.(*GitHubGateway)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gw.restClient.BaseURL.String())
}
