package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/naka-gawa/jobapp-metrics/internal/config"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/naka-gawa/jobapp-metrics/internal/gateway"
	"github.com/naka-gawa/jobapp-metrics/internal/render"
	"github.com/naka-gawa/jobapp-metrics/internal/tui"
	"github.com/naka-gawa/jobapp-metrics/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Shows the job-application metrics dashboard",
	Long: `Fetches the aggregate metrics from {api-url}/dashboard-metrics once and
renders them as cards: headline numbers, recent activity and the breakdown by
status.

On a terminal the dashboard is interactive (press q to quit). With --once, when
the output is not a terminal, or with --output json|yaml, it is printed once.

The API URL comes from --api-url, JOBAPP_API_URL or the config file, and falls
back to http://localhost:8000.`,
	RunE: runDashboard,
}

// flagBindings maps dashboard flags onto config keys.
var flagBindings = map[string]string{
	config.KeyAPIURL:        "api-url",
	config.KeySessionCookie: "session-cookie",
	config.KeyOutput:        "output",
	config.KeyTrends:        "trends",
	config.KeyStrict:        "strict",
	config.KeyWidth:         "width",
	config.KeyLogFile:       "log-file",
}

func runDashboard(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDashboard(v, configFile)
	if err != nil {
		return err
	}

	once, _ := cmd.Flags().GetBool("once")
	out := cmd.OutOrStdout()
	interactive := !once && cfg.Output == config.OutputText && isTerminal(out)

	logOut, flush, err := dashboardLogOutput(cmd.ErrOrStderr(), cfg.LogFile, interactive)
	if err != nil {
		return err
	}
	defer flush()
	logger := newLogger(cmd, logOut)

	fetcher, err := gateway.NewMetricsGateway(logger,
		gateway.WithSessionCookie(cfg.SessionCookie),
		gateway.WithStrictValidation(cfg.Strict),
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics gateway: %w", err)
	}
	dashboard := usecase.NewDashboard(fetcher, logger)
	opts := render.Options{Trends: cfg.Trends}

	if interactive {
		model := tui.New(dashboard, cfg.BaseURL, opts, logger)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("dashboard exited: %w", err)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	state := dashboard.Load(ctx, cfg.BaseURL)
	return writeState(out, state, cfg, opts)
}

// writeState prints a finished view state once. A Failed state is printed
// like any other and then reported through the exit code.
func writeState(w io.Writer, state domain.ViewState, cfg *config.Dashboard, opts render.Options) error {
	var doc any
	var text string
	failed := false

	switch st := state.(type) {
	case domain.Ready:
		view := render.Build(st.Payload, opts)
		doc = view
		text = view.Render(cfg.Width)
	case domain.Failed:
		doc = map[string]string{"error": st.Message}
		text = render.Failed(st.Message)
		failed = true
	default:
		return fmt.Errorf("unexpected view state %T", state)
	}

	switch cfg.Output {
	case config.OutputJSON:
		if err := printJSON(w, doc); err != nil {
			return err
		}
	case config.OutputYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal results to YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		fmt.Fprintln(w, text)
	}

	if failed {
		return errReported
	}
	return nil
}

// dashboardLogOutput picks where logs go. While the interactive view owns the
// terminal, logs go to the log file if one is set, or are held back and
// written to stderr once the view exits.
func dashboardLogOutput(stderr io.Writer, logFile string, interactive bool) (io.Writer, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if !interactive {
		return stderr, func() {}, nil
	}
	buf := &lockedBuffer{}
	return buf, func() { buf.WriteTo(stderr) }, nil
}

// lockedBuffer is a bytes.Buffer that a late fetch goroutine can still log
// into while it is being flushed.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteTo(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

var _ tui.Loader = (*usecase.Dashboard)(nil)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().String("config", "", "Config file (default ./jobapp-metrics.yaml or ~/.config/jobapp-metrics.yaml)")
	dashboardCmd.Flags().String("api-url", config.DefaultBaseURL, "Base URL of the metrics backend")
	dashboardCmd.Flags().String("session-cookie", "", `Session cookie sent with the request, as "name=value"`)
	dashboardCmd.Flags().StringP("output", "o", config.OutputText, "Output format: text, json or yaml")
	dashboardCmd.Flags().Bool("trends", false, "Also show the weekly and monthly application trends")
	dashboardCmd.Flags().Bool("strict", false, "Reject payloads with out-of-range values")
	dashboardCmd.Flags().Int("width", 0, "Render width in columns (default: terminal width, or 80)")
	dashboardCmd.Flags().String("log-file", "", "Write diagnostic logs to this file")
	dashboardCmd.Flags().Bool("once", false, "Print the dashboard once instead of running the interactive view")
}
