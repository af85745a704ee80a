package usecase

import (
	"context"

	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/naka-gawa/jobapp-metrics/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AutoLabeler adds a fixed label to issues when they get assigned.
type AutoLabeler struct {
	labeler gateway.IssueLabeler
	label   string
	logger  logrus.FieldLogger
}

// NewAutoLabeler creates a new AutoLabeler instance.
func NewAutoLabeler(labeler gateway.IssueLabeler, label string, logger logrus.FieldLogger) *AutoLabeler {
	if label == "" {
		label = domain.DefaultAssignedLabel
	}
	return &AutoLabeler{
		labeler: labeler,
		label:   label,
		logger:  logger,
	}
}

// HandleEvent applies the rule to a single issues event. Only the "assigned"
// action is acted upon; everything else is reported as ignored.
func (a *AutoLabeler) HandleEvent(ctx context.Context, event domain.IssueEvent) (domain.LabelResult, error) {
	if event.Action != domain.AssignedAction {
		a.logger.WithFields(logrus.Fields{"issue": event.Issue.String(), "action": event.Action}).Info("Ignoring issues event.")
		return domain.LabelResult{Issue: event.Issue, Label: a.label, Outcome: domain.EventIgnored}, nil
	}
	return a.ensureLabel(ctx, event.Issue)
}

// Sweep applies the rule to every open, assigned issue in the repository.
// Issues are processed concurrently, at most `concurrency` at a time; the
// first error cancels the rest.
func (a *AutoLabeler) Sweep(ctx context.Context, owner, repo string, concurrency int) ([]domain.LabelResult, error) {
	a.logger.Debug("Usecase: Starting label sweep...")

	issues, err := a.labeler.ListAssignedIssues(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	results := make([]domain.LabelResult, len(issues))
	eg, egCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, issue := range issues {
		eg.Go(func() error {
			result, err := a.ensureLabel(egCtx, issue)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.logger.WithField("issues", len(results)).Debug("Usecase: Label sweep complete.")
	return results, nil
}

func (a *AutoLabeler) ensureLabel(ctx context.Context, issue domain.IssueRef) (domain.LabelResult, error) {
	result := domain.LabelResult{Issue: issue, Label: a.label}

	labels, err := a.labeler.FetchIssueLabels(ctx, issue)
	if err != nil {
		return result, err
	}
	if domain.HasLabel(labels, a.label) {
		result.Outcome = domain.LabelAlreadyPresent
		return result, nil
	}
	if err := a.labeler.AddLabel(ctx, issue, a.label); err != nil {
		return result, err
	}
	result.Outcome = domain.LabelAdded
	return result, nil
}
