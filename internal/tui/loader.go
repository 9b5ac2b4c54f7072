package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metarh/vagas/internal/model"
)

// ErrCancelled is returned by RunLoader when the user presses ctrl+c.
var ErrCancelled = errors.New("cancelled")

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

// FetchFunc retrieves the normalized feed.
type FetchFunc func(ctx context.Context) ([]model.NormalizedJob, error)

type fetchDoneMsg struct {
	jobs []model.NormalizedJob
	err  error
}

type loaderModel struct {
	label   string
	fetchFn FetchFunc
	timeout time.Duration
	spinner spinner.Model
	result  []model.NormalizedJob
	err     error
	done    bool
}

func newLoaderModel(label string, timeout time.Duration, fetchFn FetchFunc) loaderModel {
	return loaderModel{
		label:   label,
		fetchFn: fetchFn,
		timeout: timeout,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doFetch(), m.spinner.Tick)
}

func (m loaderModel) doFetch() tea.Cmd {
	fetchFn, timeout := m.fetchFn, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		jobs, err := fetchFn(ctx)
		return fetchDoneMsg{jobs: jobs, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.result = msg.jobs
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner on stderr while fetchFn runs, leaving stdout to
// the result. It renders inline (no alt screen).
func RunLoader(label string, timeout time.Duration, fetchFn FetchFunc) ([]model.NormalizedJob, error) {
	p := tea.NewProgram(newLoaderModel(label, timeout, fetchFn), tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
