package gateway

import (
	"strings"
	"testing"

	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assignedEvent = `{
	"action": "assigned",
	"issue": {"number": 42, "title": "Track offer letters", "labels": [{"name": "bug"}]},
	"assignee": {"login": "dev"},
	"repository": {"name": "jobs", "full_name": "octo/jobs", "owner": {"login": "octo"}}
}`

func TestReadIssueEvent(t *testing.T) {
	event, err := ReadIssueEvent("issues", strings.NewReader(assignedEvent))

	require.NoError(t, err)
	assert.Equal(t, domain.IssueEvent{
		Action: "assigned",
		Issue:  domain.IssueRef{Owner: "octo", Repo: "jobs", Number: 42},
	}, event)
}

func TestReadIssueEvent_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		eventName      string
		payload        string
		expectedErrMsg string
	}{
		{
			name:           "other event type",
			eventName:      "push",
			payload:        `{"ref": "refs/heads/main"}`,
			expectedErrMsg: "unsupported event",
		},
		{
			name:           "unknown event type",
			eventName:      "not-an-event",
			payload:        `{}`,
			expectedErrMsg: "failed to parse",
		},
		{
			name:           "malformed payload",
			eventName:      "issues",
			payload:        `{"action": `,
			expectedErrMsg: "failed to parse",
		},
		{
			name:           "missing issue",
			eventName:      "issues",
			payload:        `{"action": "assigned"}`,
			expectedErrMsg: "missing the issue",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadIssueEvent(tc.eventName, strings.NewReader(tc.payload))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrMsg)
		})
	}
}
