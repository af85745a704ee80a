package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRepository(t *testing.T) {
	testCases := []struct {
		input       string
		owner, repo string
		expectError bool
	}{
		{input: "octo-org/job-tracker", owner: "octo-org", repo: "job-tracker"},
		{input: "no-slash", expectError: true},
		{input: "/repo", expectError: true},
		{input: "owner/", expectError: true},
		{input: "a/b/c", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			owner, repo, err := SplitRepository(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.owner, owner)
			assert.Equal(t, tc.repo, repo)
		})
	}
}

func TestHasLabel(t *testing.T) {
	labels := []string{"bug", "In Progress"}
	assert.True(t, HasLabel(labels, "in progress"))
	assert.False(t, HasLabel(labels, "enhancement"))
	assert.False(t, HasLabel(nil, "bug"))
}

func TestIssueRef_String(t *testing.T) {
	assert.Equal(t, "octo/repo#42", IssueRef{Owner: "octo", Repo: "repo", Number: 42}.String())
}
