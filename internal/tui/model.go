// Package tui is the interactive terminal view of the metrics dashboard.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/naka-gawa/jobapp-metrics/internal/render"
	"github.com/sirupsen/logrus"
)

// Loader produces the view state for one fetch against baseURL.
type Loader interface {
	Load(ctx context.Context, baseURL string) domain.ViewState
}

// BaseURLChangedMsg points the view at another backend. Sending the current
// URL again does nothing.
type BaseURLChangedMsg struct {
	URL string
}

// fetchedMsg carries the result of the fetch identified by id.
type fetchedMsg struct {
	id    uuid.UUID
	state domain.ViewState
}

// Model is the dashboard view. It fetches once when it starts and again only
// when the base URL changes. A result from a superseded fetch is dropped, and
// its request is cancelled.
type Model struct {
	loader  Loader
	baseURL string
	opts    render.Options
	logger  logrus.FieldLogger

	state   domain.ViewState
	fetchID uuid.UUID
	cancel  context.CancelFunc

	spinner spinner.Model
	width   int
}

// New creates the dashboard view for baseURL.
func New(loader Loader, baseURL string, opts render.Options, logger logrus.FieldLogger) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(render.Indigo)

	return &Model{
		loader:  loader,
		baseURL: baseURL,
		opts:    opts,
		logger:  logger,
		state:   domain.Loading{},
		spinner: s,
	}
}

// State returns the current view state.
func (m *Model) State() domain.ViewState {
	return m.state
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.startFetch()
}

func (m *Model) startFetch() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()
	m.cancel = cancel
	m.fetchID = id
	m.state = domain.Loading{}

	loader, baseURL := m.loader, m.baseURL
	m.logger.WithFields(logrus.Fields{"fetch_id": id.String(), "base_url": baseURL}).Debug("Starting metrics fetch")
	fetch := func() tea.Msg {
		return fetchedMsg{id: id, state: loader.Load(ctx, baseURL)}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		if msg.id != m.fetchID {
			m.logger.WithField("fetch_id", msg.id.String()).Debug("Dropping result of superseded fetch")
			return m, nil
		}
		m.state = msg.state
		m.release()
		return m, nil

	case BaseURLChangedMsg:
		if msg.URL == m.baseURL {
			return m, nil
		}
		m.baseURL = msg.URL
		return m, m.startFetch()

	case spinner.TickMsg:
		if _, loading := m.state.(domain.Loading); !loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.release()
			return m, tea.Quit
		}
	}

	return m, nil
}

// release cancels the current fetch context, if any.
func (m *Model) release() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var body string
	switch st := m.state.(type) {
	case domain.Ready:
		body = render.Build(st.Payload, m.opts).Render(m.width)
	case domain.Failed:
		body = render.Failed(st.Message)
	default:
		body = render.Loading(m.spinner.View())
	}
	help := render.DefaultStyles().Help.Render("q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", help)
}
