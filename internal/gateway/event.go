package gateway

import (
	"fmt"
	"io"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
)

// ReadIssueEvent decodes a webhook payload of the given event type, as written
// by GitHub Actions to GITHUB_EVENT_PATH. Only "issues" events are accepted.
func ReadIssueEvent(eventName string, r io.Reader) (domain.IssueEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.IssueEvent{}, fmt.Errorf("failed to read event payload: %w", err)
	}
	parsed, err := github.ParseWebHook(eventName, data)
	if err != nil {
		return domain.IssueEvent{}, fmt.Errorf("failed to parse %q event: %w", eventName, err)
	}
	event, ok := parsed.(*github.IssuesEvent)
	if !ok {
		return domain.IssueEvent{}, fmt.Errorf("unsupported event %q, want issues", eventName)
	}
	if event.GetIssue().GetNumber() == 0 || event.GetRepo().GetOwner().GetLogin() == "" {
		return domain.IssueEvent{}, fmt.Errorf("issues event is missing the issue or repository")
	}
	return domain.IssueEvent{
		Action: event.GetAction(),
		Issue: domain.IssueRef{
			Owner:  event.GetRepo().GetOwner().GetLogin(),
			Repo:   event.GetRepo().GetName(),
			Number: event.GetIssue().GetNumber(),
		},
	}, nil
}
