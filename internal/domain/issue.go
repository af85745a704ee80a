package domain

import (
	"fmt"
	"strings"
)

// DefaultAssignedLabel is added to an issue when somebody is assigned to it.
const DefaultAssignedLabel = "in progress"

// IssueRef identifies a single issue in a repository.
type IssueRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

func (r IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// LabelOutcome describes what the auto-labeler did for one issue.
type LabelOutcome string

const (
	LabelAdded          LabelOutcome = "added"
	LabelAlreadyPresent LabelOutcome = "already_present"
	EventIgnored        LabelOutcome = "ignored"
)

// LabelResult is the outcome of applying the assigned-label rule to an issue.
type LabelResult struct {
	Issue   IssueRef     `json:"issue"`
	Label   string       `json:"label"`
	Outcome LabelOutcome `json:"outcome"`
}

// SplitRepository splits an "owner/name" string as found in GITHUB_REPOSITORY.
func SplitRepository(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", fullName)
	}
	return owner, repo, nil
}

// HasLabel reports whether name is among labels. GitHub label names are
// case-insensitive.
func HasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// AssignedAction is the issues event action the auto-labeler reacts to.
const AssignedAction = "assigned"

// IssueEvent is the part of a GitHub issues event the auto-labeler needs.
type IssueEvent struct {
	Action string
	Issue  IssueRef
}
