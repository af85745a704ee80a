package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/jobapp-metrics/internal/config"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/naka-gawa/jobapp-metrics/internal/gateway"
	"github.com/naka-gawa/jobapp-metrics/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Labels the issue of the current GitHub Actions event when it gets assigned",
	Long: `Reads the issues event GitHub Actions wrote to GITHUB_EVENT_PATH. If the
action is "assigned" and the issue does not carry the label yet, the label is
added. Any other action is ignored.

Requires GITHUB_TOKEN and GITHUB_REPOSITORY. The label defaults to
"in progress" and can be set with --label or ASSIGNED_LABEL.`,
	RunE: runLabel,
}

var labelSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Applies the assigned-issue label to every open assigned issue",
	Long: `Lists the open issues of GITHUB_REPOSITORY that have an assignee and adds
the label to each one that does not carry it yet. Useful after enabling the
automation on an existing repository.`,
	RunE: runLabelSweep,
}

func runLabel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, labeler, err := newAutoLabeler(cmd)
	if err != nil {
		return err
	}
	if cfg.EventPath == "" {
		return errors.New("GITHUB_EVENT_PATH is not set; run this inside a GitHub Actions job")
	}

	f, err := os.Open(cfg.EventPath)
	if err != nil {
		return fmt.Errorf("failed to open event payload: %w", err)
	}
	defer f.Close()

	eventName := cfg.EventName
	if eventName == "" {
		eventName = "issues"
	}
	event, err := gateway.ReadIssueEvent(eventName, f)
	if err != nil {
		return err
	}

	result, err := labeler.HandleEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to label %s: %w", event.Issue, err)
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runLabelSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, labeler, err := newAutoLabeler(cmd)
	if err != nil {
		return err
	}
	owner, repo, err := domain.SplitRepository(cfg.Repository)
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	results, err := labeler.Sweep(ctx, owner, repo, concurrency)
	if err != nil {
		return fmt.Errorf("failed to sweep %s: %w", cfg.Repository, err)
	}
	return printJSON(cmd.OutOrStdout(), results)
}

// newAutoLabeler injects the dependencies shared by both label commands.
func newAutoLabeler(cmd *cobra.Command) (*config.Actions, *usecase.AutoLabeler, error) {
	cfg, err := config.LoadActions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read GitHub Actions environment: %w", err)
	}
	if label, _ := cmd.Flags().GetString("label"); label != "" {
		cfg.Label = label
	}

	logger := newLogger(cmd, cmd.ErrOrStderr())
	// A label change is worth seeing in the job log even without --verbose.
	if logger.GetLevel() < logrus.InfoLevel {
		logger.SetLevel(logrus.InfoLevel)
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, cfg.APIURL, cfg.GraphQLURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return cfg, usecase.NewAutoLabeler(githubGateway, cfg.Label, logger), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelSweepCmd)
	labelCmd.PersistentFlags().StringP("label", "l", "", `Label to add (default "in progress", or ASSIGNED_LABEL)`)
	labelSweepCmd.Flags().Int("concurrency", 4, "Maximum number of issues processed at once")
}
